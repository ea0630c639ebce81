package stats

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"
)

// ringSize bounds the in-memory request log; older entries fall off.
const ringSize = 100

// Snapshot is the admin dashboard payload. Fields are best-effort: an
// unreachable backend yields ok=false rather than an error.
type Snapshot struct {
	TS        int64          `json:"ts"`
	UptimeSec int64          `json:"uptime_sec"`
	GoVersion string         `json:"go_version"`
	Process   ProcessInfo    `json:"process"`
	Runtime   RuntimeInfo    `json:"runtime"`
	Backend   BackendInfo    `json:"backend"`
	Requests  []RequestEntry `json:"requests"`
}

type ProcessInfo struct {
	PID int `json:"pid"`
}

type RuntimeInfo struct {
	Goroutines     int    `json:"goroutines"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	NumCPU         int    `json:"num_cpu"`
	NumGC          uint32 `json:"num_gc"`
}

type BackendInfo struct {
	OK          bool   `json:"ok"`
	Host        string `json:"host"`
	Model       string `json:"model_name"`
	ModelsCount int    `json:"models_count"`
}

// RequestEntry is one observed HTTP request.
type RequestEntry struct {
	TS         int64  `json:"ts"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMS int64  `json:"duration_ms"`
}

// Prober reports whether the model backend answers its catalog
// endpoint, and with how many installed models.
type Prober interface {
	Tags(ctx context.Context) (int, error)
}

// Service collects host and process telemetry for the admin dashboard.
// The request ring is the only shared mutable state in the process and
// is guarded by a single mutex; everything else is read fresh per
// snapshot.
type Service struct {
	started time.Time
	host    string
	model   string
	prober  Prober

	mu    sync.Mutex
	ring  [ringSize]RequestEntry
	count int
}

// NewService starts the uptime clock. prober may be nil.
func NewService(host, model string, prober Prober) *Service {
	return &Service{
		started: time.Now(),
		host:    host,
		model:   model,
		prober:  prober,
	}
}

// Observe appends one request to the bounded ring. Safe for concurrent
// callers; once full, each new entry evicts the oldest.
func (s *Service) Observe(entry RequestEntry) {
	s.mu.Lock()
	s.ring[s.count%ringSize] = entry
	s.count++
	s.mu.Unlock()
}

// Recent returns the retained request entries, oldest first.
func (s *Service) Recent() []RequestEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count
	if n > ringSize {
		n = ringSize
	}
	out := make([]RequestEntry, 0, n)
	for i := s.count - n; i < s.count; i++ {
		out = append(out, s.ring[i%ringSize])
	}
	return out
}

// Snapshot gathers the current telemetry view.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	backend := BackendInfo{Host: s.host, Model: s.model}
	if s.prober != nil {
		if count, err := s.prober.Tags(ctx); err == nil {
			backend.OK = true
			backend.ModelsCount = count
		}
	}

	return Snapshot{
		TS:        time.Now().Unix(),
		UptimeSec: int64(time.Since(s.started).Seconds()),
		GoVersion: runtime.Version(),
		Process:   ProcessInfo{PID: os.Getpid()},
		Runtime: RuntimeInfo{
			Goroutines:     runtime.NumGoroutine(),
			HeapAllocBytes: mem.HeapAlloc,
			SysBytes:       mem.Sys,
			NumCPU:         runtime.NumCPU(),
			NumGC:          mem.NumGC,
		},
		Backend:  backend,
		Requests: s.Recent(),
	}
}
