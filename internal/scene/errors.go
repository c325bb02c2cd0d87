package scene

import "errors"

// Domain errors for scene operations.
var (
	// ErrParameterBounds indicates a tunable outside its documented range.
	ErrParameterBounds = errors.New("scene: parameter out of valid bounds")

	// ErrClosed indicates an operation on a scene after teardown.
	ErrClosed = errors.New("scene: scene closed")

	// ErrUnknownPreset indicates a preset name with no definition.
	ErrUnknownPreset = errors.New("scene: unknown preset")
)

// BoundsError wraps ErrParameterBounds with the offending parameter.
type BoundsError struct {
	Name     string
	Value    float64
	Min, Max float64
}

func (e *BoundsError) Error() string {
	return ErrParameterBounds.Error() + ": " + e.Name
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}

// CheckRange returns a *BoundsError when v is outside [lo, hi].
func CheckRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || v != v {
		return &BoundsError{Name: name, Value: v, Min: lo, Max: hi}
	}
	return nil
}
