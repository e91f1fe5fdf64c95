package dashboard

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *captureSender) Send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func TestProgramDisplay_DropsBeforeAttach(t *testing.T) {
	d := NewProgramDisplay()
	assert.NotPanics(t, func() { d.SetRefreshing(true) })

	s := &captureSender{}
	d.Attach(s)
	d.SetRefreshing(true)
	d.RenderRegion(ThreadRegion{Live: 3})
	d.SetConnectivity(false)
	d.ShowError(OfflineMessage)
	d.ClearError()
	d.SetRefreshing(false)

	assert.Equal(t, []tea.Msg{
		refreshingMsg(true),
		regionMsg{region: ThreadRegion{Live: 3}},
		connectivityMsg(false),
		bannerMsg(OfflineMessage),
		bannerMsg(""),
		refreshingMsg(false),
	}, s.msgs)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	_, known := r.Online()
	assert.False(t, known)

	r.SetRefreshing(true)
	r.RenderRegion(GCRegion{})
	r.RenderRegion(HealthRegion{Status: "UP"})
	r.SetConnectivity(true)
	r.ShowError("boom")
	r.SetRefreshing(false)

	online, known := r.Online()
	assert.True(t, online)
	assert.True(t, known)
	assert.Equal(t, "boom", r.Banner())
	assert.Equal(t, 1, r.Completed())

	regions := r.Regions()
	if assert.Len(t, regions, 2) {
		assert.Equal(t, KindHealth, regions[0].Kind(), "display order")
		assert.Equal(t, KindGC, regions[1].Kind())
	}

	r.ClearError()
	assert.Empty(t, r.Banner())
}
