// Package testutil provides fakes shared by the package tests: an in-memory
// actuator, a scripted random source and a recording tick listener.
package testutil

import "github.com/comalice/arbiterx/internal/primitives"

// FakeActuator is an in-memory orientation that records every write.
type FakeActuator struct {
	yaw, pitch float64
	Writes     []primitives.Rotation
}

// NewFakeActuator creates a FakeActuator at the given orientation.
func NewFakeActuator(yaw, pitch float64) *FakeActuator {
	return &FakeActuator{yaw: yaw, pitch: pitch}
}

func (a *FakeActuator) Yaw() float64   { return a.yaw }
func (a *FakeActuator) Pitch() float64 { return a.pitch }

func (a *FakeActuator) SetYaw(yaw float64) {
	a.yaw = yaw
	a.Writes = append(a.Writes, primitives.NewRotation(a.yaw, a.pitch))
}

func (a *FakeActuator) SetPitch(pitch float64) {
	a.pitch = pitch
	a.Writes = append(a.Writes, primitives.NewRotation(a.yaw, a.pitch))
}

// Rotation returns the current orientation.
func (a *FakeActuator) Rotation() primitives.Rotation {
	return primitives.NewRotation(a.yaw, a.pitch)
}
