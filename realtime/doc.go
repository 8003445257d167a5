// Package realtime drives the per-tick notification sequence that keeps the
// arbiter and the actuator synchronizer in lockstep with a simulation.
//
// Every tick is delivered in a fixed order:
//
//  1. OnTick to every listener (the arbiter-side listener first)
//  2. OnPlayerUpdate with PhasePre
//  3. zero or more OnRotationMove, while the simulation advances
//  4. OnPlayerUpdate with PhasePost
//
// The Dispatcher enforces that order and rejects out-of-sequence
// notifications with ErrTickSequence. The Runtime owns a fixed-rate ticker,
// asks the Simulation for its per-tick status and feeds the Dispatcher.
//
// # Example Usage
//
//	d := realtime.NewDispatcher(control, sync)
//	rt := realtime.NewRuntime(d, world, realtime.Config{
//		TickRate: 50 * time.Millisecond, // 20 ticks per second
//	})
//	rt.Start(ctx)
//	defer rt.Stop()
//	rt.Submit(func() { arbiter.RequestPause() })
//
// # Operator Ops
//
// Submit queues a function from any goroutine. Queued ops run on the tick
// goroutine at the start of the next tick, in submission order, before any
// listener is notified. That keeps registry and pause mutations off the
// decision path without locking the arbiter.
//
// Listeners are called on a single goroutine. They need no locking as long as
// they are only touched through Submit or from inside a notification.
package realtime
