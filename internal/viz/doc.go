// Package viz renders launcher runs in the terminal.
//
//   - [Summary]: a lipgloss panel with the final state, sparklines and the
//     stage layout of a run
//   - [Replay]: a Bubble Tea program that plays stored records back along
//     the tube on a Braille [Canvas]
//
// # Replay keys
//
//	Space - Pause/Resume
//	[ ]   - Step back/forward while paused
//	+ -   - Playback speed
//	R     - Restart
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help
//	Q     - Quit
package viz
