package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
)

// newTestDB opens a throwaway state database in a temp directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// decodeJSONBody decodes a request body for payload assertions.
func decodeJSONBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// alternatingConversation builds a system message followed by n
// alternating user/assistant turns.
func alternatingConversation(n int) []Message {
	msgs := []Message{{Role: RoleSystem, Content: DefaultSystemPrompt}}
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msgs = append(msgs, Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return msgs
}
