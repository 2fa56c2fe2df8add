package entities

import "fmt"

// Space selects which frame Rotate composes a rotation in.
type Space int

const (
	Local Space = iota
	Parent
)

func (s Space) String() string {
	switch s {
	case Local:
		return "local"
	case Parent:
		return "parent"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}
