package dashboard

import "fmt"

// Field is one unstyled label/value pair of a region.
type Field struct {
	Label string
	Value string
}

// Fields flattens a region into the same labels and formatted values the
// cards show, without styling. Used for plain-text snapshots.
func Fields(region Region) []Field {
	switch r := region.(type) {
	case ErrorRegion:
		label := "Error"
		switch r.Of {
		case KindHealth:
			label = "Status"
		case KindGC:
			label = "GC Info"
		}
		if r.Message == "" {
			return []Field{{label, "Error"}}
		}
		return []Field{{label, "Error: " + r.Message}}
	case HealthRegion:
		out := []Field{{"Status", r.Status}}
		for _, c := range r.Components {
			out = append(out, Field{c.Name, c.Status})
		}
		return out
	case MemoryRegion:
		used := FormatBytes(r.HeapUsed)
		if _, ok := r.HeapPercent(); ok {
			used += " (" + FormatPercentage(r.HeapUsed.Value, r.HeapMax.Value) + ")"
		}
		return []Field{
			{"Heap used", used},
			{"Heap max", FormatBytes(r.HeapMax)},
			{"Non-heap used", FormatBytes(r.NonHeapUsed)},
		}
	case SystemRegion:
		return []Field{
			{"CPU", fmt.Sprintf("%.1f%%", r.CPUPercent())},
			{"Uptime", FormatDuration(Value(r.Uptime))},
			{"Processors", FormatCount(Value(r.Processors))},
		}
	case HTTPRegion:
		count := func(n int) string {
			if !r.Available {
				return Placeholder
			}
			return FormatCount(Value(float64(n)))
		}
		return []Field{
			{"Status codes seen", count(r.Total)},
			{"2xx", count(r.Success)},
			{"4xx", count(r.ClientError)},
			{"5xx", count(r.ServerError)},
		}
	case ThreadRegion:
		return []Field{
			{"Live", FormatCount(Value(r.Live))},
			{"Peak", FormatCount(Value(r.Peak))},
			{"Daemon", FormatCount(Value(r.Daemon))},
		}
	case GCRegion:
		if len(r.Rows) == 0 {
			return []Field{{"GC Info", "Not available"}}
		}
		out := make([]Field, 0, len(r.Rows))
		for _, row := range r.Rows {
			out = append(out, Field{row.Name, FormatBytes(Value(row.Bytes))})
		}
		return out
	}
	return nil
}
