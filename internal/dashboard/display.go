package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages ProgramDisplay sends to the running Model.
type (
	regionMsg       struct{ region Region }
	refreshingMsg   bool
	connectivityMsg bool
	bannerMsg       string
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramDisplay forwards coordinator output to a Bubble Tea program as
// messages. Output sent before Attach is dropped.
type ProgramDisplay struct {
	mu     sync.RWMutex
	sender Sender
}

// NewProgramDisplay returns a display with no program attached.
func NewProgramDisplay() *ProgramDisplay {
	return &ProgramDisplay{}
}

// Attach sets the program that receives messages.
func (d *ProgramDisplay) Attach(s Sender) {
	d.mu.Lock()
	d.sender = s
	d.mu.Unlock()
}

func (d *ProgramDisplay) send(msg tea.Msg) {
	d.mu.RLock()
	s := d.sender
	d.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

func (d *ProgramDisplay) RenderRegion(r Region)         { d.send(regionMsg{region: r}) }
func (d *ProgramDisplay) SetRefreshing(refreshing bool) { d.send(refreshingMsg(refreshing)) }
func (d *ProgramDisplay) SetConnectivity(online bool)   { d.send(connectivityMsg(online)) }
func (d *ProgramDisplay) ShowError(msg string)          { d.send(bannerMsg(msg)) }
func (d *ProgramDisplay) ClearError()                   { d.send(bannerMsg("")) }

// Recorder is a Display that keeps the latest output in memory. It backs
// one-shot snapshots and tests.
type Recorder struct {
	mu         sync.Mutex
	regions    map[Kind]Region
	online     bool
	known      bool
	banner     string
	refreshing bool
	completed  int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{regions: make(map[Kind]Region)}
}

func (r *Recorder) RenderRegion(region Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[region.Kind()] = region
}

func (r *Recorder) SetRefreshing(refreshing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refreshing && !refreshing {
		r.completed++
	}
	r.refreshing = refreshing
}

func (r *Recorder) SetConnectivity(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online = online
	r.known = true
}

func (r *Recorder) ShowError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banner = msg
}

func (r *Recorder) ClearError() {
	r.ShowError("")
}

// Region returns the latest region of kind.
func (r *Recorder) Region(kind Kind) (Region, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	region, ok := r.regions[kind]
	return region, ok
}

// Regions returns the latest regions in display order.
func (r *Recorder) Regions() []Region {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Region, 0, len(r.regions))
	for _, k := range Kinds {
		if region, ok := r.regions[k]; ok {
			out = append(out, region)
		}
	}
	return out
}

// Online returns the last connectivity reported, and whether any was.
func (r *Recorder) Online() (online, known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online, r.known
}

// Banner returns the error banner, or "" when cleared.
func (r *Recorder) Banner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.banner
}

// Refreshing reports whether the refreshing affordance is on.
func (r *Recorder) Refreshing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshing
}

// Completed counts how many times the refreshing affordance turned off.
func (r *Recorder) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}
