package entities

import "github.com/pkg/errors"

// ScaleEpsilon is the smallest absolute scale component a Transform accepts.
const ScaleEpsilon float32 = 1e-6

var (
	ErrDegenerateScale = errors.New("degenerate scale")
	ErrInvalidRotation = errors.New("invalid rotation")
)
