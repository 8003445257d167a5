package benchmarks

import (
	"testing"

	"github.com/comalice/arbiterx"
	"github.com/comalice/arbiterx/internal/sim"
)

func newTickBench(b *testing.B, conceal bool) func() error {
	b.Helper()
	cfg := arbiterx.DefaultConfig()
	cfg.Look.Conceal = conceal
	cfg.Look.JitterMagnitude = 1
	cfg.Look.Seed = 1
	world := sim.NewWorld(sim.WithJumpEvery(4))
	bot, err := arbiterx.NewBot(cfg, world, arbiterx.WithListener(world))
	if err != nil {
		b.Fatal(err)
	}
	for _, p := range GenProcesses(10) {
		bot.MustRegister(p)
	}
	return bot.NewRuntime(world).Step
}

func BenchmarkStep(b *testing.B) {
	for _, tc := range []struct {
		name    string
		conceal bool
	}{{"direct", false}, {"conceal", true}} {
		b.Run(tc.name, func(b *testing.B) {
			step := newTickBench(b, tc.conceal)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := step(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
