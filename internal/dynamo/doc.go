// Package dynamo provides the run orchestration primitives shared by the
// state-advance engines.
//
// The engines themselves (gravity, pendulum) own their entities and mutate
// them in place; this package drives them:
//
//   - [State]: flattened snapshot of a system's state
//   - [System]: a stateful engine advanced by a fixed timestep
//   - [Observer]: per-step callback, used by renderers
//   - [Metric]: accumulating diagnostic
//   - [Simulator]: fixed-step run loop recording snapshots
//
// # Example
//
//	sys, _ := gravity.New(bodies)
//	s := dynamo.New(sys)
//	result, _ := s.Run(ctx, dynamo.Config{Dt: 1, Duration: 3600})
//
// # Thread Safety
//
// Systems and Simulator instances are NOT thread-safe. Each run must own its
// system exclusively; [Ensemble] builds one system per run.
package dynamo
