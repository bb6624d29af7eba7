package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/willay-edu/willay-cli/internal"
)

// JSONExporter exports a session as one indented JSON document
type JSONExporter struct{}

// Export writes the session as indented JSON
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(session); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
