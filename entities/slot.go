package entities

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// MatrixSlot holds one 4x4 matrix that can be replaced and read from
// different goroutines. A reader always gets a whole matrix, never a mix of
// rows from two stores. There is no ordering between different slots.
type MatrixSlot struct {
	v atomic.Value
}

// Load returns the last stored matrix, or identity if nothing was stored yet.
func (s *MatrixSlot) Load() mgl32.Mat4 {
	if m, ok := s.v.Load().(mgl32.Mat4); ok {
		return m
	}
	return mgl32.Ident4()
}

// Store replaces the whole matrix at once.
func (s *MatrixSlot) Store(m mgl32.Mat4) {
	s.v.Store(m)
}
