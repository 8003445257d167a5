package primitives

import "fmt"

// Rotation is an orientation in degrees.
type Rotation struct {
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
}

// NewRotation creates a Rotation.
func NewRotation(yaw, pitch float64) Rotation {
	return Rotation{Yaw: yaw, Pitch: pitch}
}

// Add returns the component-wise sum of r and o.
func (r Rotation) Add(o Rotation) Rotation {
	return Rotation{Yaw: r.Yaw + o.Yaw, Pitch: r.Pitch + o.Pitch}
}

// WithYaw returns a copy of r with the yaw replaced.
func (r Rotation) WithYaw(yaw float64) Rotation {
	r.Yaw = yaw
	return r
}

func (r Rotation) String() string {
	return fmt.Sprintf("{yaw=%.2f pitch=%.2f}", r.Yaw, r.Pitch)
}
