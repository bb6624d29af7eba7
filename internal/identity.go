package internal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnsureClientID returns the durable per-install client identifier,
// generating and persisting one on first use. The backend scopes its
// per-client state (session resets, usage) by this id. If storage is
// unavailable the client still works: a time-derived id is returned for
// this run only.
func EnsureClientID(db *sql.DB) string {
	stored, err := GetValue(db, KeyClientID)
	if err == nil && stored != "" {
		return stored
	}
	if err != nil {
		LogWarn("read client id: %v", err)
	}

	generated := uuid.NewString()
	if err := SetValue(db, KeyClientID, generated); err != nil {
		LogWarn("persist client id: %v", err)
		return fmt.Sprintf("client-%d", time.Now().UnixMilli())
	}
	return generated
}
