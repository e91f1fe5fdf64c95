package actuator

import (
	"sort"
	"strings"
)

// Health is the body of GET {base}/health.
type Health struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components,omitempty"`
}

// Component is one entry of Health.Components. Status may be empty when the
// application hides component details.
type Component struct {
	Status  string         `json:"status,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ComponentNames returns the component keys in sorted order.
func (h *Health) ComponentNames() []string {
	names := make([]string, 0, len(h.Components))
	for name := range h.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metric is the body of GET {base}/metrics/{name}.
type Metric struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	BaseUnit      string         `json:"baseUnit,omitempty"`
	Measurements  []Measurement  `json:"measurements"`
	AvailableTags []AvailableTag `json:"availableTags,omitempty"`
}

// Measurement is a single statistic of a metric (VALUE, COUNT, TOTAL_TIME, ...).
type Measurement struct {
	Statistic string  `json:"statistic"`
	Value     float64 `json:"value"`
}

// AvailableTag lists the values a tag takes across the metric's series.
type AvailableTag struct {
	Tag    string   `json:"tag"`
	Values []string `json:"values"`
}

// First returns the value of the first measurement, or 0 when there is none.
func (m *Metric) First() float64 {
	if m == nil || len(m.Measurements) == 0 {
		return 0
	}
	return m.Measurements[0].Value
}

// TagValues returns the values of every availableTags entry named tag, in
// order, or nil.
func (m *Metric) TagValues(tag string) []string {
	if m == nil {
		return nil
	}
	var values []string
	for _, t := range m.AvailableTags {
		if t.Tag == tag {
			values = append(values, t.Values...)
		}
	}
	return values
}

// Catalog is the body of GET {base}/metrics.
type Catalog struct {
	Names []string `json:"names"`
}

// Filter returns the names containing substr, in catalog order.
func (c *Catalog) Filter(substr string) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, name := range c.Names {
		if strings.Contains(name, substr) {
			out = append(out, name)
		}
	}
	return out
}

// Tag narrows a metric query to one dimension, e.g. area:heap.
type Tag struct {
	Key   string
	Value string
}

// String renders the tag in the key:value form the metrics endpoint expects.
func (t Tag) String() string {
	return t.Key + ":" + t.Value
}

// T is shorthand for Tag{Key: key, Value: value}.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}
