// Package ui holds the styled output used outside the full-screen dashboard:
// one-shot snapshots, init prompts and health check spinners.
//
// # Color Scheme
//
// The palette matches the dashboard's neon theme:
//
//	ColorSuccess (green) - healthy, completed
//	ColorError   (red)   - failures
//	ColorWarning (amber) - warnings
//	ColorInfo    (cyan)  - informational
//	ColorMuted   (gray)  - secondary text, timing info
//
// Use DisableColors() to switch to plain output (for --no-color or pipes).
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Checking http://localhost:8080/actuator")
//	s.Start()
//	// ... check ...
//	s.Success() // or s.Fail() or s.Skip()
//
// # Sections
//
// RenderSections prints grouped label/value rows, one group per dashboard
// region, for terminals where the TUI isn't available.
package ui
