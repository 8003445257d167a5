package primitives

import "testing"

func TestSetTargetCopiesRotation(t *testing.T) {
	r := NewRotation(90, 10)
	c := SetTarget(r, true)
	r.Yaw = 0
	if c.Target.Yaw != 90 {
		t.Errorf("got Target.Yaw=%v want 90", c.Target.Yaw)
	}
	if !c.HasTarget() || !c.Force || c.Type != CommandSetTarget {
		t.Errorf("unexpected command %v", c)
	}
}

func TestCommandImmutability(t *testing.T) {
	c := SetTarget(NewRotation(1, 2), false)
	cCopy := c
	cCopy.Type = CommandRequestPause
	if c.Type != CommandSetTarget {
		t.Error("original Type was mutated")
	}
}

func TestNoCommandAndPause(t *testing.T) {
	if NoCommand().HasTarget() {
		t.Error("none command carries a target")
	}
	if got := RequestPause().Type; got != CommandRequestPause {
		t.Errorf("got %v want request_pause", got)
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CommandNone.String(), "none"},
		{CommandSetTarget.String(), "set_target"},
		{CommandRequestPause.String(), "request_pause"},
		{CommandType(9).String(), "unknown(9)"},
		{PhasePre.String(), "pre"},
		{PhasePost.String(), "post"},
		{MoveJump.String(), "jump"},
		{MoveMotionUpdate.String(), "motion_update"},
		{SetTarget(NewRotation(1, 2), true).String(), "set_target{yaw=1.00 pitch=2.00}!"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q want %q", tt.got, tt.want)
		}
	}
}

func TestRotationMoveEventSetYaw(t *testing.T) {
	e := NewRotationMoveEvent(3, MoveJump, 10, 5)
	e.SetYaw(45)
	if e.Yaw != 45 || e.Pitch != 5 {
		t.Errorf("got %+v", e)
	}
}

func TestRotationAdd(t *testing.T) {
	got := NewRotation(1, 2).Add(NewRotation(3, -4))
	if got != NewRotation(4, -2) {
		t.Errorf("got %v", got)
	}
	if w := got.WithYaw(7); w.Yaw != 7 || w.Pitch != -2 {
		t.Errorf("WithYaw got %v", w)
	}
}
