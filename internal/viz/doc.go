// Package viz draws the sandbox in the terminal.
//
// A [Canvas] packs 2x4 sub-pixels into each Braille cell; a [Viewport] maps
// world coordinates onto it with a uniform scale. The live [Model] is a
// Bubble Tea program that steps a world once per tick with the delta time
// reported by a clock.Pacer.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Reset the scene
//	Arrows - Push the controlled body (WASD works too)
//	Tab    - Control the next body
//	Click  - Spawn a body at the pointer
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
