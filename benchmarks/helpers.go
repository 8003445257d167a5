// Package benchmarks measures arbitration and full-tick cost.
package benchmarks

import (
	"fmt"

	"github.com/comalice/arbiterx/builder"
	"github.com/comalice/arbiterx/internal/core"
	"github.com/comalice/arbiterx/internal/primitives"
)

// GenProcesses creates n always-active processes with spread priorities.
// They come in groups of three sharing a priority so ties are exercised.
func GenProcesses(n int) []core.Process {
	out := make([]core.Process, 0, n)
	for i := 0; i < n; i++ {
		prio := float64(i - i%3)
		target := primitives.NewRotation(float64(i), 0)
		out = append(out, builder.New(fmt.Sprintf("p%d", i),
			builder.Priority(prio),
			builder.Target(target, i%2 == 0)))
	}
	return out
}

// NewArbiter returns an arbiter with n generated processes.
func NewArbiter(n int) *core.Arbiter {
	a := core.NewArbiter()
	for _, p := range GenProcesses(n) {
		a.MustRegister(p)
	}
	return a
}
