package arbiterx_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/arbiterx"
	"github.com/comalice/arbiterx/builder"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/observability"
	"github.com/comalice/arbiterx/internal/primitives"
	"github.com/comalice/arbiterx/internal/sim"
	"github.com/comalice/arbiterx/realtime"
	"github.com/comalice/arbiterx/testutil"
)

func newBot(t *testing.T, cfg arbiterx.Config, world *sim.World, opts ...arbiterx.BotOption) (*arbiterx.Bot, *realtime.Runtime) {
	t.Helper()
	opts = append([]arbiterx.BotOption{arbiterx.WithListener(world), arbiterx.WithRand(testutil.NewSeqRand())}, opts...)
	bot, err := arbiterx.NewBot(cfg, world, opts...)
	require.NoError(t, err)
	return bot, bot.NewRuntime(world)
}

func TestForcedTargetIsWrittenDirectly(t *testing.T) {
	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)
	bot.MustRegister(builder.New("look-at", builder.Target(primitives.NewRotation(90, -5), true)))

	require.NoError(t, rt.Step())
	assert.Equal(t, primitives.NewRotation(90, -5), world.Player())
	obs := world.Observations()
	require.Len(t, obs, 1)
	assert.Equal(t, 90.0, obs[0].Sent)
}

func TestConcealedTargetRevertsAfterPost(t *testing.T) {
	cfg := arbiterx.DefaultConfig()
	cfg.Look.Conceal = true
	world := sim.NewWorld(sim.WithOrientation(15, 0))
	bot, rt := newBot(t, cfg, world)
	bot.MustRegister(builder.New("look-at", builder.Target(primitives.NewRotation(90, 0), false)))

	require.NoError(t, rt.Step())
	obs := world.Observations()
	require.Len(t, obs, 1)
	assert.Equal(t, 90.0, obs[0].Sent, "movement used the target")
	assert.Equal(t, 15.0, obs[0].Visible.Yaw, "observer sees the old yaw")
	assert.Equal(t, 15.0, world.Player().Yaw)
}

func TestPauseThroughCommands(t *testing.T) {
	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)
	bot.MustRegister(builder.New("look-at", builder.Target(primitives.NewRotation(45, 0), true)))

	_, err := bot.Execute("pause")
	require.NoError(t, err)
	require.NoError(t, rt.Step())

	res := bot.LastResolution()
	require.True(t, res.OK)
	assert.Equal(t, primitives.CommandRequestPause, res.Command.Type)
	assert.Equal(t, 0.0, world.Player().Yaw, "paused ticks do not steer")

	// Persists until resumed.
	require.NoError(t, rt.Step())
	assert.Equal(t, primitives.CommandRequestPause, bot.LastResolution().Command.Type)

	_, err = bot.Execute("resume")
	require.NoError(t, err)
	require.NoError(t, rt.Step())
	assert.Equal(t, "look-at", bot.LastResolution().Process.Name())
	assert.Equal(t, 45.0, world.Player().Yaw)
}

func TestPauseViaSubmit(t *testing.T) {
	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)
	require.NoError(t, rt.Submit(func() { _ = bot.Arbiter().RequestPause() }))
	require.NoError(t, rt.Step())
	assert.True(t, bot.Arbiter().Paused())
	assert.Equal(t, primitives.CommandRequestPause, bot.LastResolution().Command.Type)
}

func TestUnsafeWindowKeepsHolder(t *testing.T) {
	world := sim.NewWorld(sim.WithUnsafeWindow(2, 3))
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)

	urgent := false
	bot.MustRegister(builder.New("walk", builder.Target(primitives.NewRotation(1, 0), true)))
	bot.MustRegister(builder.New("flee",
		builder.Priority(5),
		builder.ActiveWhen(func() bool { return urgent }),
		builder.Target(primitives.NewRotation(180, 0), true)))

	var winners []string
	for i := 0; i < 4; i++ {
		if i == 1 {
			urgent = true
		}
		require.NoError(t, rt.Step())
		winners = append(winners, bot.LastResolution().Process.Name())
	}
	assert.Equal(t, []string{"walk", "walk", "walk", "flee"}, winners)
	assert.Equal(t, 180.0, world.Player().Yaw)
}

func TestDecisionFaultDoesNotAbortTick(t *testing.T) {
	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)
	bot.MustRegister(builder.New("broken", builder.Decide(func(bool, bool) (primitives.Command, error) {
		panic("bad state")
	})))

	err := rt.Step()
	var de *core.DecisionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "broken", de.Process)
	assert.Len(t, world.Observations(), 1, "post still delivered")
}

func TestMetricsWired(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewCollectors(reg)
	require.NoError(t, err)

	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world, arbiterx.WithMetrics(metrics))
	bot.MustRegister(builder.New("look-at", builder.Target(primitives.NewRotation(3, 0), true)))

	for i := 0; i < 3; i++ {
		require.NoError(t, rt.Step())
	}
	count, err := promtest.GatherAndCount(reg, "arbiterx_arbiter_ticks_total", "arbiterx_look_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewBotValidates(t *testing.T) {
	cfg := arbiterx.DefaultConfig()
	cfg.Look.PitchMin = 50
	_, err := arbiterx.NewBot(cfg, sim.NewWorld())
	require.Error(t, err)

	_, err = arbiterx.NewBot(arbiterx.DefaultConfig(), nil)
	require.Error(t, err)
}

func TestSnapshotReflectsTick(t *testing.T) {
	world := sim.NewWorld()
	bot, rt := newBot(t, arbiterx.DefaultConfig(), world)
	bot.MustRegister(builder.New("look-at", builder.Target(primitives.NewRotation(3, 0), true)))
	require.NoError(t, rt.Step())

	snap := bot.Snapshot()
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, "look-at", snap.InControl)
	assert.Len(t, snap.Processes, 2)
	assert.Equal(t, 3, bot.Dispatcher().Listeners())
}
