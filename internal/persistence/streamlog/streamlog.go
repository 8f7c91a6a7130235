// Package streamlog records the terrain streamer's advisory telemetry:
// chunk loads with generation timings, evictions (including how much mutable
// state the eviction throws away), and updates that blow the soft frame
// budget. Entries are JSONL compressed with zstd, one file per UTC day.
package streamlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	EventLoad       = "load"
	EventEvict      = "evict"
	EventSlowUpdate = "slow_update"
	EventDispose    = "dispose"
)

// Event is one telemetry record. Only the fields relevant to the Kind are
// populated.
type Event struct {
	Time string `json:"time"`
	Kind string `json:"kind"`
	Tick uint64 `json:"tick"`

	ChunkIndex int64   `json:"chunk_index,omitempty"`
	ReferenceX float64 `json:"reference_x,omitempty"`
	Resident   int     `json:"resident,omitempty"`

	GenMillis    float64 `json:"gen_ms,omitempty"`
	UpdateMillis float64 `json:"update_ms,omitempty"`
	BudgetMillis float64 `json:"budget_ms,omitempty"`

	// Eviction drops chunk-local mutable state; regeneration will resurrect
	// destroyed obstacles and unused spawn points. These counts make that
	// loss observable.
	DestroyedObstacles int  `json:"destroyed_obstacles,omitempty"`
	UsedSpawns         int  `json:"used_spawns,omitempty"`
	Capacity           bool `json:"capacity,omitempty"`
}

// Writer appends events to <dir>/<prefix>-YYYY-MM-DD.jsonl.zst, rotating at
// UTC day boundaries. Safe for use from multiple goroutines, though the
// terrain core itself writes from a single one.
type Writer struct {
	dir    string
	prefix string

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	buf    *bufio.Writer

	now func() time.Time // test hook
}

func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

func (w *Writer) Write(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := w.now().UTC()
	day := ts.Format("2006-01-02")
	if day != w.curDay {
		if err := w.rotateLocked(day); err != nil {
			return err
		}
	}
	if ev.Time == "" {
		ev.Time = ts.Format(time.RFC3339Nano)
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(b); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(day string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForDay(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.buf = bufio.NewWriterSize(enc, 64*1024)
	w.curDay = day
	return nil
}

func (w *Writer) closeLocked() error {
	var errEnc error
	if w.buf != nil {
		_ = w.buf.Flush()
	}
	if w.enc != nil {
		errEnc = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.buf = nil
	w.curDay = ""
	return errEnc
}

func (w *Writer) pathForDay(day string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, day))
}

// ReadFile decodes every event from one log file. Used by tooling and tests.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return out, fmt.Errorf("line %d: %w", len(out)+1, err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return out, err
	}
	return out, nil
}
