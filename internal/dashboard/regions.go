package dashboard

// Kind identifies one of the six dashboard regions.
type Kind int

const (
	KindHealth Kind = iota
	KindMemory
	KindSystem
	KindHTTP
	KindThreads
	KindGC
)

// Kinds lists every region in display order.
var Kinds = []Kind{KindHealth, KindMemory, KindSystem, KindHTTP, KindThreads, KindGC}

// String returns the region's short name.
func (k Kind) String() string {
	switch k {
	case KindHealth:
		return "health"
	case KindMemory:
		return "memory"
	case KindSystem:
		return "system"
	case KindHTTP:
		return "http"
	case KindThreads:
		return "threads"
	case KindGC:
		return "gc"
	default:
		return "unknown"
	}
}

// Title returns the card heading for the region.
func (k Kind) Title() string {
	switch k {
	case KindHealth:
		return "Application Health"
	case KindMemory:
		return "Memory"
	case KindSystem:
		return "System"
	case KindHTTP:
		return "HTTP Requests"
	case KindThreads:
		return "Threads"
	case KindGC:
		return "Garbage Collection"
	default:
		return "Unknown"
	}
}

// Region is the rendered result of one metric group. Each group owns
// exactly one region, so concurrent groups never write the same one.
type Region interface {
	Kind() Kind
}

// HealthRegion is the overall health status and its components.
type HealthRegion struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components"`
}

// ComponentStatus is one health component. Status is "Unknown" when the
// application did not report one.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (HealthRegion) Kind() Kind { return KindHealth }

// MemoryRegion holds heap and non-heap usage in bytes.
type MemoryRegion struct {
	HeapUsed    Reading `json:"heap_used"`
	HeapMax     Reading `json:"heap_max"`
	NonHeapUsed Reading `json:"non_heap_used"`
}

func (MemoryRegion) Kind() Kind { return KindMemory }

// HeapPercent returns used/max*100. ok is false unless both readings are
// present and max is positive.
func (r MemoryRegion) HeapPercent() (percent float64, ok bool) {
	if !r.HeapUsed.Valid || !r.HeapMax.Valid || r.HeapMax.Value <= 0 {
		return 0, false
	}
	return r.HeapUsed.Value / r.HeapMax.Value * 100, true
}

// SystemRegion holds process CPU, uptime and processor count. Failed
// fetches read as zero.
type SystemRegion struct {
	// CPUUsage is the raw 0..1 ratio reported by system.cpu.usage.
	CPUUsage   float64 `json:"cpu_usage"`
	Uptime     float64 `json:"uptime_seconds"`
	Processors float64 `json:"processors"`
}

func (SystemRegion) Kind() Kind { return KindSystem }

// CPUPercent returns CPUUsage scaled to 0..100.
func (r SystemRegion) CPUPercent() float64 {
	return r.CPUUsage * 100
}

// HTTPRegion counts distinct status codes seen by http.server.requests,
// bucketed by class. Available is false when the metric could not be
// fetched, in which case every count renders as "-".
type HTTPRegion struct {
	Available   bool `json:"available"`
	Total       int  `json:"total"`
	Success     int  `json:"success"`
	ClientError int  `json:"client_error"`
	ServerError int  `json:"server_error"`
}

func (HTTPRegion) Kind() Kind { return KindHTTP }

// ThreadRegion holds JVM thread counts. Failed fetches read as zero.
type ThreadRegion struct {
	Live   float64 `json:"live"`
	Peak   float64 `json:"peak"`
	Daemon float64 `json:"daemon"`
}

func (ThreadRegion) Kind() Kind { return KindThreads }

// GCRegion lists up to three garbage-collection byte metrics.
type GCRegion struct {
	Rows []GCRow `json:"rows"`
}

// GCRow is one GC metric with its display name.
type GCRow struct {
	Metric string  `json:"metric"`
	Name   string  `json:"name"`
	Bytes  float64 `json:"bytes"`
}

func (GCRegion) Kind() Kind { return KindGC }

// ErrorRegion replaces a region whose group failed as a whole.
type ErrorRegion struct {
	Of      Kind   `json:"-"`
	Message string `json:"error"`
}

func (r ErrorRegion) Kind() Kind { return r.Of }
