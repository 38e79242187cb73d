// Package trace persists the immutable, ordered step log of every turn. It
// is a side channel: the orchestration graph writes to it but never reads
// it back, and a persistence error never fails the turn (it is swallowed
// and surfaced through metrics only). The on-disk format is one JSON object
// per line per session file; it is consumed by an external viewer and must
// stay stable and human-readable.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/campusops/adminflow/logging"
	"github.com/campusops/adminflow/metrics"
)

// Entry is one write-once record of a turn step.
type Entry struct {
	Step          int       `json:"step"`
	Owner         string    `json:"owner"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	Visualization bool      `json:"visualization"`
}

// Recorder appends entries and reads a session's full history back for
// inspection tooling. Record must be safe for concurrent writers across
// sessions and must never return an error to the caller.
type Recorder interface {
	Record(sessionID string, e Entry)
	ReadAll(sessionID string) ([]Entry, error)
}

// FileRecorder persists one JSONL file per session under a directory.
type FileRecorder struct {
	dir     string
	mu      sync.Mutex
	logger  logging.Logger
	metrics *metrics.Collector
}

// NewFileRecorder creates dir if needed and returns a recorder writing into
// it. logger and collector may be nil.
func NewFileRecorder(dir string, logger logging.Logger, collector *metrics.Collector) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &FileRecorder{dir: dir, logger: logger, metrics: collector}, nil
}

func (r *FileRecorder) path(sessionID string) string {
	// Session ids are opaque caller input; keep only a safe subset for
	// the filename.
	safe := make([]rune, 0, len(sessionID))
	for _, c := range sessionID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			safe = append(safe, c)
		default:
			safe = append(safe, '_')
		}
	}
	return filepath.Join(r.dir, "trace_"+string(safe)+".jsonl")
}

// Record implements Recorder. Errors are logged and counted, never returned.
func (r *FileRecorder) Record(sessionID string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path(sessionID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		r.dropped(sessionID, err)
		return
	}
	defer f.Close()

	line, err := json.Marshal(e)
	if err != nil {
		r.dropped(sessionID, err)
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		r.dropped(sessionID, err)
	}
}

func (r *FileRecorder) dropped(sessionID string, err error) {
	if r.metrics != nil {
		r.metrics.TraceWriteFailures.Inc()
	}
	r.logger.Warn("trace entry dropped", "session_id", sessionID, "error", err.Error())
}

// ReadAll implements Recorder.
func (r *FileRecorder) ReadAll(sessionID string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trace for %s: %w", sessionID, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parse trace line for %s: %w", sessionID, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace for %s: %w", sessionID, err)
	}
	return entries, nil
}

// MemoryRecorder keeps entries in process memory. Used by tests and the
// examples; also handy as a ring buffer for debugging endpoints.
type MemoryRecorder struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemoryRecorder constructs an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{entries: make(map[string][]Entry)}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(sessionID string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[sessionID] = append(r.entries[sessionID], e)
}

// ReadAll implements Recorder.
func (r *MemoryRecorder) ReadAll(sessionID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries[sessionID]))
	copy(out, r.entries[sessionID])
	return out, nil
}
