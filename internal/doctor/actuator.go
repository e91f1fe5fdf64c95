package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/actop/internal/actuator"
	"github.com/rileyhilliard/actop/internal/errors"
)

// Source is the part of the actuator client the checks use.
type Source interface {
	Health(ctx context.Context) (*actuator.Health, error)
	Catalog(ctx context.Context) (*actuator.Catalog, error)
}

// DashboardMetrics are the catalog names the dashboard regions read.
var DashboardMetrics = []string{
	"jvm.memory.used",
	"jvm.memory.max",
	"system.cpu.usage",
	"process.uptime",
	"system.cpu.count",
	"http.server.requests",
	"jvm.threads.live",
	"jvm.threads.peak",
	"jvm.threads.daemon",
}

// HealthCheck fetches the health document and reports its status.
type HealthCheck struct {
	Source  Source
	BaseURL string
	now     func() time.Time
}

func (c *HealthCheck) Name() string     { return "actuator_health" }
func (c *HealthCheck) Category() string { return "ACTUATOR" }

func (c *HealthCheck) Run(ctx context.Context) CheckResult {
	now := c.now
	if now == nil {
		now = time.Now
	}

	start := now()
	h, err := c.Source.Health(ctx)
	latency := now().Sub(start)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s/health unreachable: %s", c.BaseURL, errors.Short(err)),
			Suggestion: suggestionFor(err),
		}
	}

	msg := fmt.Sprintf("Health %s (%s)", h.Status, latency.Round(time.Millisecond))
	switch {
	case h.Status == "":
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Health response has no status",
			Suggestion: "Point base_url at the actuator root, e.g. http://localhost:8080/actuator",
		}
	case h.Status != "UP":
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    msg,
			Suggestion: downComponents(h),
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: msg}
}

func downComponents(h *actuator.Health) string {
	var down []string
	for _, name := range h.ComponentNames() {
		if s := h.Components[name].Status; s != "UP" {
			down = append(down, name+"="+s)
		}
	}
	if len(down) == 0 {
		return ""
	}
	return "Components not UP: " + strings.Join(down, ", ")
}

// MetricsCheck verifies the metrics endpoint is exposed and carries the
// metrics the dashboard reads.
type MetricsCheck struct {
	Source Source
}

func (c *MetricsCheck) Name() string     { return "actuator_metrics" }
func (c *MetricsCheck) Category() string { return "ACTUATOR" }

func (c *MetricsCheck) Run(ctx context.Context) CheckResult {
	cat, err := c.Source.Catalog(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Metrics endpoint unavailable: " + errors.Short(err),
			Suggestion: "Expose it with management.endpoints.web.exposure.include=health,metrics",
		}
	}

	have := make(map[string]bool, len(cat.Names))
	for _, name := range cat.Names {
		have[name] = true
	}
	var missing []string
	for _, name := range DashboardMetrics {
		if !have[name] {
			missing = append(missing, name)
		}
	}

	gc := len(cat.Filter("jvm.gc."))
	if len(missing) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%d metrics, %d the dashboard reads are missing", len(cat.Names), len(missing)),
			Suggestion: "Missing: " + strings.Join(missing, ", ") + "\nThose cards will show '-' until the metrics appear",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d metrics exposed (%d GC)", len(cat.Names), gc),
	}
}

func suggestionFor(err error) string {
	if errors.IsCode(err, errors.ErrDecode) {
		return "Point base_url at the actuator root, e.g. http://localhost:8080/actuator"
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Suggestion != "" {
		return e.Suggestion
	}
	return "Check that the application is running and the management port is reachable"
}

// NewActuatorChecks creates the checks that talk to the actuator.
func NewActuatorChecks(src Source, baseURL string) []Check {
	return []Check{
		&HealthCheck{Source: src, BaseURL: baseURL},
		&MetricsCheck{Source: src},
	}
}
