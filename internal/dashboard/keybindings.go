package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyPause      = "p"
	KeyToggleHelp = "?"
	KeyClose      = "esc"
	KeyScrollUp   = "up"
	KeyScrollUpK  = "k"
	KeyScrollDown = "down"
	KeyScrollDnJ  = "j"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.coord.Stop()
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd()

	case KeyPause:
		m.paused = !m.paused
		if m.paused {
			m.coord.StopAutoRefresh()
		} else if m.focused {
			m.coord.SetVisible(true)
		}
		return true, nil

	case KeyScrollUp, KeyScrollUpK:
		m.body.LineUp(1)
		return true, nil

	case KeyScrollDown, KeyScrollDnJ:
		m.body.LineDown(1)
		return true, nil
	}

	return false, nil
}
