package internal

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Storage keys. The browser build kept the same records in
// localStorage; here each one is a row in the clientKV table holding a
// JSON document.
const (
	KeyClientID      = "clientId"
	KeySessions      = "sessions"
	KeyActiveSession = "activeSessionId"
	KeyLogs          = "logs"
	KeyStats         = "stats"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS clientKV (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenDatabase opens the client state database, creating it and its
// schema on first use.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Key: path, Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Key: path, Op: "open", Err: err}
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, &StorageError{Key: path, Op: "migrate", Err: err}
	}

	return db, nil
}

// GetValue returns the stored value for key, or "" when the key is
// absent.
func GetValue(db *sql.DB, key string) (string, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM clientKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Key: key, Op: "read", Err: err}
	}
	if !value.Valid {
		return "", nil
	}
	return value.String, nil
}

// SetValue stores value under key, replacing any previous value.
func SetValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO clientKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Key: key, Op: "write", Err: err}
	}
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM clientKV WHERE key = ?", key); err != nil {
		return &StorageError{Key: key, Op: "write", Err: err}
	}
	return nil
}
