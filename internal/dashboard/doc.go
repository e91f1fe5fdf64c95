// Package dashboard implements the actuator dashboard: the refresh
// coordinator, the six metric groups it fans out to, and the Bubble Tea
// view that renders their regions.
//
// # Refresh cycle
//
// A Coordinator owns connectivity state and the auto-refresh ticker. Each
// refresh runs every Group concurrently through Join and waits for all of
// them:
//
//  1. Display.SetRefreshing(true)
//  2. every group fetches its endpoints and renders its Region
//  3. Join settles: connectivity online and banner cleared, or, if a group
//     panicked or the refresh deadline passed, offline with OfflineMessage
//  4. Display.SetRefreshing(false)
//
// Failures are handled at three levels:
//
//	endpoint - the value renders as "-" (or 0 for CPU, uptime, threads)
//	group    - the region renders as an ErrorRegion
//	refresh  - connectivity goes offline and the banner is shown
//
// A group error never reaches connectivity. There is no retry or backoff;
// the next tick is the retry.
//
// # Visibility
//
// Terminal focus stands in for page visibility. Model forwards
// tea.BlurMsg and tea.FocusMsg to Coordinator.SetVisible: losing focus
// stops the ticker, regaining it refreshes once and restarts the ticker.
// Ticks that arrive while hidden still refresh as long as the last refresh
// was online.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	p           - Pause / resume auto refresh
//	j/k, ↑/↓    - Scroll
//	?           - Toggle help overlay
//	Esc         - Close help
package dashboard
