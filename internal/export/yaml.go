package export

import (
	"fmt"
	"io"

	"github.com/willay-edu/willay-cli/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports a session as a YAML document
type YAMLExporter struct{}

// Export writes the session as YAML
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	doc := struct {
		ID        string             `yaml:"id"`
		Title     string             `yaml:"title"`
		CreatedAt string             `yaml:"created_at"`
		UpdatedAt string             `yaml:"updated_at"`
		Messages  []internal.Message `yaml:"messages"`
	}{
		ID:        session.ID,
		Title:     session.Title,
		CreatedAt: formatStamp(session.CreatedAt),
		UpdatedAt: formatStamp(session.UpdatedAt),
		Messages:  session.Messages,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
