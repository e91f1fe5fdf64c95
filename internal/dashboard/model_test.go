package dashboard

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *Coordinator, *Recorder, *fakeClock) {
	t.Helper()
	c, rec, clock := newTestCoordinator(nil)
	t.Cleanup(c.Stop)
	m := NewModel(c, Options{BaseURL: "http://localhost:8080/actuator"})
	return m, c, rec, clock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m, c, _, _ := newTestModel(t)

	assert.Equal(t, c, m.coord)
	assert.Equal(t, DefaultThresholds, m.thresholds)
	assert.NotNil(t, m.regions)
	assert.False(t, m.connKnown)
	assert.NotNil(t, m.Init())
}

func TestModel_CoordinatorMessages(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return now }

	m, _ = update(t, m, refreshingMsg(true))
	assert.True(t, m.refreshing)

	m, _ = update(t, m, regionMsg{region: HealthRegion{Status: "UP"}})
	r, ok := m.Region(KindHealth)
	require.True(t, ok)
	assert.Equal(t, HealthRegion{Status: "UP"}, r)

	m, _ = update(t, m, connectivityMsg(false))
	m, _ = update(t, m, bannerMsg(OfflineMessage))
	assert.False(t, m.Online())
	assert.True(t, m.connKnown)
	assert.Equal(t, OfflineMessage, m.Banner())

	m, _ = update(t, m, refreshingMsg(false))
	assert.False(t, m.refreshing)
	assert.Equal(t, now, m.lastRefresh)

	m, _ = update(t, m, connectivityMsg(true))
	m, _ = update(t, m, bannerMsg(""))
	assert.True(t, m.Online())
	assert.Empty(t, m.Banner())
}

func TestModel_ErrorRegionReplacesItsKind(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	m, _ = update(t, m, regionMsg{region: ThreadRegion{Live: 4}})
	m, _ = update(t, m, regionMsg{region: ErrorRegion{Of: KindThreads, Message: "boom"}})

	r, _ := m.Region(KindThreads)
	assert.Equal(t, ErrorRegion{Of: KindThreads, Message: "boom"}, r)
}

func TestModel_FocusDrivesVisibility(t *testing.T) {
	m, c, _, clock := newTestModel(t)
	c.StartAutoRefresh()

	m, _ = update(t, m, tea.BlurMsg{})
	assert.False(t, c.Visible())
	assert.False(t, c.AutoRefreshing())
	assert.True(t, clock.last().stopped.Load())

	_, _ = update(t, m, tea.FocusMsg{})
	assert.True(t, c.Visible())
	assert.True(t, c.AutoRefreshing())
}

func TestModel_FocusIgnoredWhilePaused(t *testing.T) {
	m, c, _, _ := newTestModel(t)

	m, _ = update(t, m, key(KeyPause))
	require.True(t, m.Paused())

	_, _ = update(t, m, tea.FocusMsg{})
	assert.False(t, c.AutoRefreshing())
}

func TestModel_FocusWhilePausedIsRememberedOnResume(t *testing.T) {
	m, c, rec, clock := newTestModel(t)
	c.StartAutoRefresh()

	m, _ = update(t, m, key(KeyPause))
	m, _ = update(t, m, tea.BlurMsg{})
	assert.False(t, c.Visible())
	m, _ = update(t, m, tea.FocusMsg{})
	assert.True(t, c.Visible(), "focus is recorded while paused")
	assert.False(t, c.AutoRefreshing(), "but refreshing stays paused")

	_, _ = update(t, m, key(KeyPause))
	assert.True(t, c.Visible())
	assert.True(t, c.AutoRefreshing())

	// Resuming refreshes right away, and later ticks are not skipped.
	assert.Eventually(t, func() bool { return rec.Completed() >= 1 }, waitFor, pollEvery)
	fire(t, clock.last())
	assert.Eventually(t, func() bool { return rec.Completed() >= 2 }, waitFor, pollEvery)
}

func TestModel_ResumeWhileUnfocusedWaitsForFocus(t *testing.T) {
	m, c, _, _ := newTestModel(t)
	c.StartAutoRefresh()

	m, _ = update(t, m, key(KeyPause))
	m, _ = update(t, m, tea.BlurMsg{})
	m, _ = update(t, m, key(KeyPause))
	assert.False(t, m.Paused())
	assert.False(t, c.Visible())
	assert.False(t, c.AutoRefreshing())

	_, _ = update(t, m, tea.FocusMsg{})
	assert.True(t, c.Visible())
	assert.True(t, c.AutoRefreshing())
}

func TestModel_PauseResume(t *testing.T) {
	m, c, _, _ := newTestModel(t)
	c.StartAutoRefresh()

	m, _ = update(t, m, key(KeyPause))
	assert.True(t, m.Paused())
	assert.False(t, c.AutoRefreshing())

	m, _ = update(t, m, key(KeyPause))
	assert.False(t, m.Paused())
	assert.True(t, c.AutoRefreshing())
}

func TestModel_RefreshKey(t *testing.T) {
	m, _, rec, _ := newTestModel(t)

	_, cmd := update(t, m, key(KeyRefresh))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 1, rec.Completed())
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{KeyQuit, KeyQuitAlt} {
		t.Run(k, func(t *testing.T) {
			m, c, _, _ := newTestModel(t)
			c.StartAutoRefresh()

			m, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.True(t, m.quitting)
			assert.Empty(t, m.View())
			assert.False(t, c.AutoRefreshing())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	m, _ = update(t, m, key(KeyToggleHelp))
	assert.True(t, m.showHelp)

	m, _ = update(t, m, key(KeyClose))
	assert.False(t, m.showHelp)

	m, _ = update(t, m, key(KeyToggleHelp))
	m, _ = update(t, m, key(KeyToggleHelp))
	assert.False(t, m.showHelp)
}

func TestModel_UnhandledKey(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	handled, cmd := m.HandleKeyMsg(key("x"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 130, Height: 40})
	assert.True(t, m.bodyReady)
	assert.Equal(t, 130, m.body.Width)
	assert.Equal(t, 40-m.chromeHeight(), m.body.Height)
	assert.Equal(t, 3, m.columns())

	m, _ = update(t, m, bannerMsg(OfflineMessage))
	assert.Equal(t, 40-m.chromeHeight(), m.body.Height, "banner takes a row from the body")
}

func TestModel_StartCmdStartsCoordinator(t *testing.T) {
	m, c, rec, _ := newTestModel(t)
	m.ctx = context.Background()

	assert.Nil(t, m.startCmd()())
	assert.True(t, c.AutoRefreshing())
	require.Eventually(t, func() bool { return rec.Completed() == 1 }, waitFor, pollEvery)
}
