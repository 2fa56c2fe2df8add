package entities

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Convention describes the fixed world axes a Transform derives its local
// forward/right/up vectors from.
type Convention struct {
	Forward mgl32.Vec3 `json:"forward" yaml:"forward"`
	Right   mgl32.Vec3 `json:"right" yaml:"right"`
	Up      mgl32.Vec3 `json:"up" yaml:"up"`
}

var (
	// Z up, Y forward. Quadtree plane is XY.
	DefaultConvention = Convention{
		Forward: mgl32.Vec3{0, 1, 0},
		Right:   mgl32.Vec3{1, 0, 0},
		Up:      mgl32.Vec3{0, 0, 1},
	}
	// Y up, -Z forward, OpenGL camera style.
	YUpConvention = Convention{
		Forward: mgl32.Vec3{0, 0, -1},
		Right:   mgl32.Vec3{1, 0, 0},
		Up:      mgl32.Vec3{0, 1, 0},
	}
)

const conventionEpsilon = 1e-4

func (c Convention) IsZero() bool {
	return c == Convention{}
}

// Validate checks that all three axes are unit length and mutually orthogonal.
func (c Convention) Validate() error {
	axes := []struct {
		name string
		v    mgl32.Vec3
	}{{"forward", c.Forward}, {"right", c.Right}, {"up", c.Up}}

	for _, a := range axes {
		if mgl32.Abs(a.v.Len()-1) > conventionEpsilon {
			return errors.Errorf("%s axis %v is not unit length", a.name, a.v)
		}
	}
	for i := range axes {
		for j := i + 1; j < len(axes); j++ {
			if d := axes[i].v.Dot(axes[j].v); mgl32.Abs(d) > conventionEpsilon {
				return errors.Errorf("%s and %s axes are not orthogonal (dot %v)", axes[i].name, axes[j].name, d)
			}
		}
	}
	return nil
}
