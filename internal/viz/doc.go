// Package viz renders running simulations in the terminal.
//
// Drawing happens on a [Canvas] of Braille cells, each holding a 2×4 grid of
// sub-pixels. A [View] maps simulation space (y up) onto sub-pixel space
// (rows down). Per-entity look is kept in a [Theme], apart from the physics
// types, and [Trail] keeps a bounded history of past positions.
//
// [Model] is a Bubble Tea program that advances a system once per step on a
// frame tick and draws it through a [Drawer].
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Zoom in/out
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	Q     - Quit
package viz
