package editor

// Scale bounds for a slot image. Pan and rotation are unbounded.
const (
	MinScale = 1.0
	MaxScale = 4.0
)

// Transform field names accepted by UpdateTransform.
const (
	FieldScale    = "scale"
	FieldX        = "x"
	FieldY        = "y"
	FieldRotation = "rotation"
)

// Transform positions an image within its slot.
type Transform struct {
	Scale    float64 `json:"scale"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// IdentityTransform is the resting state of a freshly assigned image.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// IsIdentity reports whether the transform leaves the image untouched.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

func clampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
