package dashboard

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/actop/internal/actuator"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
)

// Source is the subset of the actuator client the groups need.
type Source interface {
	Health(ctx context.Context) (*actuator.Health, error)
	Metric(ctx context.Context, name string, tags ...actuator.Tag) (*actuator.Metric, error)
	Catalog(ctx context.Context) (*actuator.Catalog, error)
}

// Group is one independent fetch-and-render sub-task. Run absorbs
// per-endpoint failures into placeholder values; a returned error means
// the whole region failed and is shown as an error marker.
type Group struct {
	Kind Kind
	Run  func(ctx context.Context) (Region, error)
}

// Name returns the group's short name.
func (g Group) Name() string { return g.Kind.String() }

// gcMetricLimit caps how many GC metrics are fetched per refresh.
const gcMetricLimit = 3

// DefaultGroups returns the six groups in display order. Their requests
// count toward the refresh's reachability, so a batch in which none of them
// got a response takes the dashboard offline.
func DefaultGroups(src Source, log logger.Logger) []Group {
	if log == nil {
		log = logger.Noop()
	}
	src = trackedSource{src: src}
	return []Group{
		HealthGroup(src, log),
		MemoryGroup(src, log),
		SystemGroup(src, log),
		HTTPGroup(src, log),
		ThreadGroup(src, log),
		GCGroup(src, log),
	}
}

// HealthGroup renders the health document. A failed fetch or a document
// without a status fails the region.
func HealthGroup(src Source, log logger.Logger) Group {
	return Group{Kind: KindHealth, Run: func(ctx context.Context) (Region, error) {
		h, err := src.Health(ctx)
		if err != nil {
			return nil, err
		}
		if h.Status == "" {
			return nil, errors.New(errors.ErrDecode, "health response has no status", "")
		}

		region := HealthRegion{Status: h.Status}
		for _, name := range h.ComponentNames() {
			status := h.Components[name].Status
			if status == "" {
				status = "Unknown"
			}
			region.Components = append(region.Components, ComponentStatus{Name: name, Status: status})
		}
		log.Debug("health: %s (%d components)", h.Status, len(region.Components))
		return region, nil
	}}
}

// MemoryGroup fetches heap used, heap max and non-heap used one after the
// other. A failed fetch leaves that reading absent.
func MemoryGroup(src Source, log logger.Logger) Group {
	fetch := func(ctx context.Context, name, area string) Reading {
		m, err := src.Metric(ctx, name, actuator.T("area", area))
		if err != nil {
			log.Warn("could not fetch %s?tag=area:%s: %s", name, area, errors.Short(err))
			return Absent
		}
		return Value(m.First())
	}

	return Group{Kind: KindMemory, Run: func(ctx context.Context) (Region, error) {
		var r MemoryRegion
		r.HeapUsed = fetch(ctx, "jvm.memory.used", "heap")
		r.HeapMax = fetch(ctx, "jvm.memory.max", "heap")
		r.NonHeapUsed = fetch(ctx, "jvm.memory.used", "nonheap")
		return r, nil
	}}
}

// firstOrZero fetches name and returns its first measurement, or 0 when the
// fetch fails.
func firstOrZero(ctx context.Context, src Source, log logger.Logger, name string) float64 {
	m, err := src.Metric(ctx, name)
	if err != nil {
		log.Debug("could not fetch %s: %s", name, errors.Short(err))
		return 0
	}
	return m.First()
}

// SystemGroup fetches CPU usage, uptime and processor count concurrently.
func SystemGroup(src Source, log logger.Logger) Group {
	return Group{Kind: KindSystem, Run: func(ctx context.Context) (Region, error) {
		var r SystemRegion
		var g errgroup.Group
		g.Go(func() error { r.CPUUsage = firstOrZero(ctx, src, log, "system.cpu.usage"); return nil })
		g.Go(func() error { r.Uptime = firstOrZero(ctx, src, log, "process.uptime"); return nil })
		g.Go(func() error { r.Processors = firstOrZero(ctx, src, log, "system.cpu.count"); return nil })
		_ = g.Wait()
		return r, nil
	}}
}

// HTTPGroup classifies the distinct values of the status tag on
// http.server.requests. It counts status codes that have been seen, not
// request volume.
func HTTPGroup(src Source, log logger.Logger) Group {
	return Group{Kind: KindHTTP, Run: func(ctx context.Context) (Region, error) {
		m, err := src.Metric(ctx, "http.server.requests")
		if err != nil {
			log.Debug("could not fetch http.server.requests: %s", errors.Short(err))
			return HTTPRegion{}, nil
		}
		return classifyStatuses(m.TagValues("status")), nil
	}}
}

func classifyStatuses(statuses []string) HTTPRegion {
	r := HTTPRegion{Available: true}
	for _, s := range statuses {
		if code, err := strconv.Atoi(leadingDigits(s)); err == nil {
			switch {
			case code >= 200 && code < 300:
				r.Success++
			case code >= 400 && code < 500:
				r.ClientError++
			case code >= 500:
				r.ServerError++
			}
		}
		r.Total++
	}
	return r
}

// leadingDigits returns the optionally signed digit prefix of s after
// surrounding spaces, so "200 OK" and "+200" classify as 200 and "UNKNOWN"
// does not classify at all.
func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return s[:end]
}

// ThreadGroup fetches live, peak and daemon thread counts concurrently.
func ThreadGroup(src Source, log logger.Logger) Group {
	return Group{Kind: KindThreads, Run: func(ctx context.Context) (Region, error) {
		var r ThreadRegion
		var g errgroup.Group
		g.Go(func() error { r.Live = firstOrZero(ctx, src, log, "jvm.threads.live"); return nil })
		g.Go(func() error { r.Peak = firstOrZero(ctx, src, log, "jvm.threads.peak"); return nil })
		g.Go(func() error { r.Daemon = firstOrZero(ctx, src, log, "jvm.threads.daemon"); return nil })
		_ = g.Wait()
		return r, nil
	}}
}

// GCGroup discovers GC byte metrics from the catalog and fetches the first
// few one after the other. Failed fetches are left out.
func GCGroup(src Source, log logger.Logger) Group {
	return Group{Kind: KindGC, Run: func(ctx context.Context) (Region, error) {
		cat, err := src.Catalog(ctx)
		if err != nil {
			log.Debug("could not fetch metric catalog: %s", errors.Short(err))
			cat = &actuator.Catalog{}
		}

		var r GCRegion
		for _, name := range selectGCMetrics(cat.Filter("jvm.gc.")) {
			m, err := src.Metric(ctx, name)
			if err != nil {
				log.Warn("could not fetch %s: %s", name, errors.Short(err))
				continue
			}
			r.Rows = append(r.Rows, GCRow{Metric: name, Name: GCDisplayName(name), Bytes: m.First()})
		}
		return r, nil
	}}
}

func selectGCMetrics(names []string) []string {
	var out []string
	for _, name := range names {
		if strings.Contains(name, "jvm.gc.memory.allocated") || strings.Contains(name, "jvm.gc.max.data.size") {
			out = append(out, name)
			if len(out) == gcMetricLimit {
				break
			}
		}
	}
	return out
}

// GCDisplayName drops the first "jvm.gc." and turns the next dot into a
// space: "jvm.gc.memory.allocated" -> "memory allocated".
func GCDisplayName(name string) string {
	name = strings.Replace(name, "jvm.gc.", "", 1)
	return strings.Replace(name, ".", " ", 1)
}
