package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

func TestDefaults(t *testing.T) {
	p := New("idle")
	assert.Equal(t, "idle", p.Name())
	assert.Equal(t, core.DefaultPriority, p.Priority())
	assert.True(t, p.IsActive())
	assert.False(t, p.IsTemporary())

	cmd, err := p.Decide(false, true)
	require.NoError(t, err)
	assert.Equal(t, primitives.CommandNone, cmd.Type)
}

func TestTargetProcessWinsArbitration(t *testing.T) {
	a := core.NewArbiter()
	low := New("low", Target(primitives.NewRotation(1, 0), false))
	high := New("high", Priority(5), Target(primitives.NewRotation(2, 0), true))
	a.MustRegister(low)
	a.MustRegister(high)

	res, err := a.Resolve(primitives.NewTickEvent(1, false, true))
	require.NoError(t, err)
	assert.Same(t, high, res.Process)
	assert.True(t, res.Command.Force)
	assert.Equal(t, 2.0, res.Command.Target.Yaw)
}

func TestActiveWhenAndSetActive(t *testing.T) {
	on := false
	p := New("gated", ActiveWhen(func() bool { return on }))
	assert.False(t, p.IsActive())
	on = true
	assert.True(t, p.IsActive())

	q := New("flag")
	q.SetActive(false)
	assert.False(t, q.IsActive())
}

func TestOnLostControl(t *testing.T) {
	lost := 0
	p := New("p", DeactivateOnLoss(), OnLostControl(func() { lost++ }))
	p.OnLostControl()
	assert.Equal(t, 1, lost)
	assert.False(t, p.IsActive())
}

func TestDecideErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := New("p", Temporary(), Decide(func(calcFailed, _ bool) (primitives.Command, error) {
		if calcFailed {
			return primitives.NoCommand(), boom
		}
		return primitives.RequestPause(), nil
	}))
	assert.True(t, p.IsTemporary())

	_, err := p.Decide(true, true)
	require.ErrorIs(t, err, boom)
	cmd, err := p.Decide(false, true)
	require.NoError(t, err)
	assert.Equal(t, primitives.CommandRequestPause, cmd.Type)
}
