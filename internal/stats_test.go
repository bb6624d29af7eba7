package internal

import (
	"testing"
	"time"
)

func TestLoadStats_Defaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing", raw: ""},
		{name: "corrupt", raw: "{{{"},
		{name: "wrong type", raw: `"a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			if tt.raw != "" {
				if err := SetValue(db, KeyStats, tt.raw); err != nil {
					t.Fatalf("SetValue() error = %v", err)
				}
			}

			stats := LoadStats(db)
			data := stats.Snapshot()

			if data.TotalMessages != 0 || data.ResponsesCompleted != 0 {
				t.Errorf("counters = %+v, want zeroes", data)
			}
			if data.ModelUsage == nil {
				t.Error("ModelUsage map not initialized")
			}
		})
	}
}

func TestStats_RecordAndReload(t *testing.T) {
	db := newTestDB(t)
	stats := LoadStats(db)

	stats.RecordMessage()
	stats.RecordMessage()
	stats.RecordModelUsage("llama3.2")
	stats.RecordResponseTime(1500 * time.Millisecond)
	stats.SetTotalSessions(3)

	reloaded := LoadStats(db).Snapshot()
	if reloaded.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", reloaded.TotalMessages)
	}
	if reloaded.ModelUsage["llama3.2"] != 1 {
		t.Errorf("ModelUsage = %v", reloaded.ModelUsage)
	}
	if reloaded.TotalResponseTimeMs != 1500 {
		t.Errorf("TotalResponseTimeMs = %d, want 1500", reloaded.TotalResponseTimeMs)
	}
	if reloaded.ResponsesCompleted != 1 {
		t.Errorf("ResponsesCompleted = %d, want 1", reloaded.ResponsesCompleted)
	}
	if reloaded.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", reloaded.TotalSessions)
	}
}

func TestStats_ResetKeepsSessionCount(t *testing.T) {
	db := newTestDB(t)
	stats := LoadStats(db)
	stats.RecordMessage()
	stats.RecordModelUsage("llama3.2")
	stats.SetTotalSessions(5)

	stats.Reset()

	data := stats.Snapshot()
	if data.TotalMessages != 0 || len(data.ModelUsage) != 0 {
		t.Errorf("Reset() left counters: %+v", data)
	}
	if data.TotalSessions != 5 {
		t.Errorf("TotalSessions = %d, want live count kept", data.TotalSessions)
	}
}

func TestStats_SnapshotIsACopy(t *testing.T) {
	db := newTestDB(t)
	stats := LoadStats(db)
	stats.RecordModelUsage("llama3.2")

	snapshot := stats.Snapshot()
	snapshot.ModelUsage["llama3.2"] = 99

	if stats.Snapshot().ModelUsage["llama3.2"] != 1 {
		t.Error("Snapshot() shares its map with the live counters")
	}
}
