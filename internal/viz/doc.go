// Package viz renders evaluated designs in the terminal.
//
//   - [Summary]: lipgloss panels with the sizing results
//   - [PowerChart]: asciigraph plot of required and available power
//   - [Planform]: Braille top view of the installed aircraft
//
// Colours come from the current [Theme]; [SetTheme] switches scheme.
package viz
