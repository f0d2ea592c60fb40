// Package viz renders runs in the terminal: asciigraph plots of stored
// trajectories and a Bubble Tea live view that steps a system in process.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	Q     - Quit
package viz
