package extensibility

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comalice/arbiterx/builder"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingStepper struct {
	n   int
	err error
}

func (s *countingStepper) Step() error {
	s.n++
	return s.err
}

func TestDriveChannelSource(t *testing.T) {
	src := NewChannelTickSource(3)
	assert.True(t, src.Fire())
	assert.True(t, src.Fire())
	src.Close()
	assert.False(t, src.Fire(), "closed source drops ticks")

	s := &countingStepper{err: errors.New("tick failed")}
	var errs int
	require.NoError(t, Drive(context.Background(), src, s, func(error) { errs++ }))
	assert.Equal(t, 2, s.n)
	assert.Equal(t, 2, errs)
}

func TestChannelSourceFullBuffer(t *testing.T) {
	src := NewChannelTickSource(1)
	defer src.Close()
	assert.True(t, src.Fire())
	assert.False(t, src.Fire())
}

func TestDriveStopsOnContext(t *testing.T) {
	src := NewChannelTickSource(0)
	defer src.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Drive(ctx, src, &countingStepper{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTimerTickSource(t *testing.T) {
	src := NewTimerTickSource(time.Millisecond)
	s := &countingStepper{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	select {
	case <-src.Ticks():
	case <-ctx.Done():
		t.Fatal("no tick from timer source")
	}
	src.Stop()
	src.Stop()
	require.NoError(t, Drive(ctx, src, s, nil), "stopped source ends Drive")
}

func TestLoggingProcessDelegates(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	lost := false
	inner := builder.New("wander",
		builder.Priority(3),
		builder.OnLostControl(func() { lost = true }),
		builder.Target(primitives.NewRotation(10, 0), false))
	p := NewLoggingProcess(inner, log)

	a := core.NewArbiter()
	a.MustRegister(p)
	res, err := a.Resolve(primitives.NewTickEvent(1, false, true))
	require.NoError(t, err)
	assert.Same(t, p, res.Process)
	assert.Equal(t, 3.0, p.Priority())
	assert.Same(t, inner, p.Unwrap())

	out := buf.String()
	assert.Contains(t, out, `"process":"wander"`)
	assert.Contains(t, out, `"message":"decided"`)

	p.OnLostControl()
	assert.True(t, lost)
}

func TestLoggingProcessLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	p := NewLoggingProcess(builder.New("broken", builder.Decide(func(bool, bool) (primitives.Command, error) {
		return primitives.NoCommand(), boom
	})), zerolog.New(&buf))

	_, err := p.Decide(false, true)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
