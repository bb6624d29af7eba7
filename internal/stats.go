package internal

import (
	"database/sql"
	"encoding/json"
	"time"
)

// StatsData holds the lifetime usage counters.
type StatsData struct {
	SchemaVersion       int            `json:"schemaVersion"`
	TotalMessages       int            `json:"totalMessages"`
	TotalSessions       int            `json:"totalSessions"`
	ModelUsage          map[string]int `json:"modelUsage"`
	TotalResponseTimeMs int64          `json:"totalResponseTimeMs"`
	ResponsesCompleted  int            `json:"responsesCompleted"`
}

// Stats tracks usage counters and persists them in the KV table. Every
// record call writes through; persistence failures are logged and
// otherwise ignored, counters are best-effort bookkeeping.
type Stats struct {
	db   *sql.DB
	data StatsData
}

// LoadStats reads the persisted counters, falling back to zeroes on
// anything unreadable.
func LoadStats(db *sql.DB) *Stats {
	s := &Stats{db: db, data: defaultStats()}

	raw, err := GetValue(db, KeyStats)
	if err != nil {
		LogWarn("load stats: %v", err)
		return s
	}
	if raw == "" {
		return s
	}

	var data StatsData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		LogDebug("discarding unreadable stats record")
		return s
	}
	if data.ModelUsage == nil {
		data.ModelUsage = make(map[string]int)
	}
	data.SchemaVersion = schemaVersion
	s.data = data
	return s
}

func defaultStats() StatsData {
	return StatsData{
		SchemaVersion: schemaVersion,
		ModelUsage:    make(map[string]int),
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsData {
	out := s.data
	out.ModelUsage = make(map[string]int, len(s.data.ModelUsage))
	for model, count := range s.data.ModelUsage {
		out.ModelUsage[model] = count
	}
	return out
}

// RecordMessage counts one non-system message appended to a session.
func (s *Stats) RecordMessage() {
	s.data.TotalMessages++
	s.persist()
}

// RecordModelUsage counts one exchange served by the given model.
func (s *Stats) RecordModelUsage(model string) {
	if model == "" {
		return
	}
	s.data.ModelUsage[model]++
	s.persist()
}

// RecordResponseTime accumulates the wall-clock duration of one
// completed exchange.
func (s *Stats) RecordResponseTime(d time.Duration) {
	s.data.TotalResponseTimeMs += d.Milliseconds()
	s.data.ResponsesCompleted++
	s.persist()
}

// SetTotalSessions records the current session count.
func (s *Stats) SetTotalSessions(n int) {
	s.data.TotalSessions = n
	s.persist()
}

// Reset zeroes all counters except the session count, which reflects
// the live collection.
func (s *Stats) Reset() {
	total := s.data.TotalSessions
	s.data = defaultStats()
	s.data.TotalSessions = total
	s.persist()
}

func (s *Stats) persist() {
	encoded, err := json.Marshal(s.data)
	if err != nil {
		LogWarn("encode stats: %v", err)
		return
	}
	if err := SetValue(s.db, KeyStats, string(encoded)); err != nil {
		LogWarn("persist stats: %v", err)
	}
}
