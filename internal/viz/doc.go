// Package viz previews a live scene in the terminal.
//
// The preview runs on the Bubble Tea framework:
//
//   - [Model]: steps an engine.Scene on a frame timer and draws each frame
//   - [Canvas]: Braille dot canvas with per-cell colors
//   - [Renderer]: projects grid, streaks, particles, elements and label
//   - Theme selection with 3 built-in color schemes
//
// Mouse motion over the canvas drives the scene pointer and a left click
// activates the element under it. Each hit toggles an overlay.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	f/F    - Fog intensity down/up
//	s/S    - Fog speed down/up
//	v/V    - Vortex strength down/up
//	e/E    - Fewer/more elements
//	p/P    - Fewer/more particles
//	Arrows - Spring-smoothed keyboard pointer
//	Enter  - Activate under the pointer
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
