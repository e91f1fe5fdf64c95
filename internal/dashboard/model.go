package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clockInterval re-renders the header so "updated ... ago" stays current.
const clockInterval = time.Second

// Options configures a Model.
type Options struct {
	// BaseURL is shown in the header.
	BaseURL string

	// Thresholds color the heap and CPU gauges. Zero uses DefaultThresholds.
	Thresholds Thresholds

	// Context bounds every refresh. Nil means context.Background().
	Context context.Context
}

// Model is the Bubble Tea model for the dashboard. It only renders what the
// coordinator reports through ProgramDisplay; all fetching happens in the
// coordinator.
type Model struct {
	coord      *Coordinator
	ctx        context.Context
	baseURL    string
	thresholds Thresholds

	regions     map[Kind]Region
	online      bool
	connKnown   bool
	banner      string
	refreshing  bool
	lastRefresh time.Time

	spinner   spinner.Model
	body      viewport.Model
	bodyReady bool

	width    int
	height   int
	showHelp bool
	paused   bool
	focused  bool
	quitting bool

	now func() time.Time
}

// clockMsg drives the once-a-second header update.
type clockMsg time.Time

// NewModel creates a dashboard model driven by coord.
func NewModel(coord *Coordinator, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	thresholds := opts.Thresholds
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds
	}

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorGraph)),
	)

	return Model{
		coord:      coord,
		ctx:        ctx,
		baseURL:    opts.BaseURL,
		thresholds: thresholds,
		regions:    make(map[Kind]Region),
		spinner:    s,
		focused:    true,
		now:        time.Now,
	}
}

// Init starts the coordinator and the header clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd(),
		clockCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, keyCmd := m.HandleKeyMsg(msg)
		if handled {
			m.syncBody()
			return m, keyCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeBody()

	case tea.FocusMsg:
		m.setFocused(true)

	case tea.BlurMsg:
		m.setFocused(false)

	case regionMsg:
		m.regions[msg.region.Kind()] = msg.region

	case refreshingMsg:
		m.refreshing = bool(msg)
		if !m.refreshing {
			m.lastRefresh = m.now()
		}

	case connectivityMsg:
		m.online = bool(msg)
		m.connKnown = true

	case bannerMsg:
		m.banner = string(msg)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)

	case clockMsg:
		cmd = clockCmd()
	}

	m.syncBody()
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// setFocused passes terminal focus to the coordinator as visibility. While
// paused it is only recorded, so resuming starts from the right state.
func (m *Model) setFocused(focused bool) {
	m.focused = focused
	if m.paused {
		m.coord.NoteVisible(focused)
		return
	}
	m.coord.SetVisible(focused)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		m.coord.Start(m.ctx)
		return nil
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		m.coord.Refresh(m.ctx)
		return nil
	}
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Online reports the connectivity last shown.
func (m Model) Online() bool { return m.online }

// Banner returns the error banner text, or "".
func (m Model) Banner() string { return m.banner }

// Paused reports whether auto refresh was paused from the keyboard.
func (m Model) Paused() bool { return m.paused }

// Region returns the latest region of kind.
func (m Model) Region(kind Kind) (Region, bool) {
	r, ok := m.regions[kind]
	return r, ok
}

// resizeBody fits the scrollable region grid between header and footer.
func (m *Model) resizeBody() {
	height := m.height - m.chromeHeight()
	if height < 1 {
		height = 1
	}
	if !m.bodyReady {
		m.body = viewport.New(m.width, height)
		m.bodyReady = true
	} else {
		m.body.Width = m.width
		m.body.Height = height
	}
}

// syncBody refreshes the viewport content from the current regions.
func (m *Model) syncBody() {
	if !m.bodyReady {
		return
	}
	want := m.height - m.chromeHeight()
	if want >= 1 && want != m.body.Height {
		m.body.Height = want
	}
	m.body.SetContent(m.renderRegions())
}

// chromeHeight is the number of rows taken by header, banner and footer.
func (m Model) chromeHeight() int {
	h := 3 // header, blank line, footer
	if m.banner != "" {
		h++
	}
	return h
}
