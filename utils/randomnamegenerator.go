package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// NameGenerator hands out unique human readable names. Output is
// deterministic for a given seed.
type NameGenerator struct {
	used map[string]struct{}
}

func NewNameGenerator(seed int64) *NameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &NameGenerator{used: make(map[string]struct{})}
}

func (ng *NameGenerator) Name() string {
	if ng.used == nil {
		ng.used = make(map[string]struct{})
	}
	name := randomdata.SillyName()
	// silly names run out quickly on deep trees, suffix duplicates
	for i := 2; ; i++ {
		if _, exists := ng.used[name]; !exists {
			ng.used[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s%d", randomdata.SillyName(), i)
	}
}
