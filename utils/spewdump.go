package utils

import (
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

func LogDump(a ...interface{}) {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debug(spewConfig.Sdump(a...))
	}
}
