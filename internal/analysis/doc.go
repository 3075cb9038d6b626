// Package analysis provides post-processing for recorded runs and chaos
// diagnostics that drive a [dynamo.System] directly.
//
//   - [DominantFrequency] and [PowerSpectrum]: spectral content of a sampled signal
//   - [NewPhasePortrait]: 2D projection of recorded states
//   - [PoincareSection]: states sampled where one component crosses a level
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [Sweep]: distinct long-run values of one component across a family of systems
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(a, b, 1e-8, dt, duration)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
