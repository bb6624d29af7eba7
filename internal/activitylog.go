package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxLogEntries caps the activity log at the most recent entries.
const maxLogEntries = 300

// LogEntry is one line of the client activity log: who said or did
// what, and when (Unix milliseconds).
type LogEntry struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ActivityLog records user, assistant, system, and error events for the
// diagnostic surface. It persists to the KV table on every append and
// caps itself at maxLogEntries.
type ActivityLog struct {
	db      *sql.DB
	entries []LogEntry
}

// LoadActivityLog reads the persisted log, dropping malformed entries
// and falling back to an empty log on anything unreadable.
func LoadActivityLog(db *sql.DB) *ActivityLog {
	l := &ActivityLog{db: db}

	raw, err := GetValue(db, KeyLogs)
	if err != nil {
		LogWarn("load activity log: %v", err)
		return l
	}
	if raw == "" {
		return l
	}

	var stored []LogEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		LogDebug("discarding unreadable activity log")
		return l
	}
	for _, entry := range stored {
		if entry.Author == "" || entry.Content == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.Timestamp == 0 {
			entry.Timestamp = time.Now().UnixMilli()
		}
		l.entries = append(l.entries, entry)
	}
	return l
}

// Add appends an entry and persists the log. Blank authors or contents
// are ignored.
func (l *ActivityLog) Add(author, content string) {
	if author == "" || content == "" {
		return
	}
	l.entries = append(l.entries, LogEntry{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
	l.persist()
}

// Entries returns a copy of the log entries in insertion order.
func (l *ActivityLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *ActivityLog) Clear() {
	l.entries = nil
	l.persist()
}

// Export renders the log sorted by timestamp, one block per entry.
func (l *ActivityLog) Export() string {
	entries := l.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		stamp := time.UnixMilli(entry.Timestamp).Format("2006-01-02 15:04:05")
		blocks = append(blocks, fmt.Sprintf("[%s] %s: %s", stamp, entry.Author, entry.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func (l *ActivityLog) persist() {
	encoded, err := json.Marshal(l.entries)
	if err != nil {
		LogWarn("encode activity log: %v", err)
		return
	}
	if err := SetValue(l.db, KeyLogs, string(encoded)); err != nil {
		LogWarn("persist activity log: %v", err)
	}
}
