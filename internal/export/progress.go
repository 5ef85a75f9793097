package export

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// weekendGap is Friday 16:00 to Monday 09:00.
const weekendGap = 2*24*time.Hour + 17*time.Hour

// ProgressEntry is the last exported window of one ticker/view.
type ProgressEntry struct {
	WindowStart int64 `json:"window_start"`
	WindowEnd   int64 `json:"window_end"`
	ExportedAt  int64 `json:"exported_at"`
	Bars        int   `json:"bars"`
}

// final reports whether the entry was exported after its window closed and the
// next session has not opened yet.
func (e ProgressEntry) final(now time.Time) bool {
	if e.ExportedAt <= e.WindowEnd {
		return false
	}
	return now.UnixMilli() < e.WindowEnd+weekendGap.Milliseconds()
}

// ProgressUpdate is sent when a job export succeeds
type ProgressUpdate struct {
	Key   string
	Entry ProgressEntry
}

func loadProgress(path string) map[string]ProgressEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]ProgressEntry)
	}
	var m map[string]ProgressEntry
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]ProgressEntry)
	}
	return m
}

// RunProgressWriter receives updates and persists to file (run as goroutine)
func RunProgressWriter(path string, updates <-chan ProgressUpdate) {
	m := loadProgress(path)
	for u := range updates {
		m[u.Key] = u.Entry
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			slog.Warn("progress marshal error", "error", err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Warn("progress write error", "error", err)
		}
	}
}
