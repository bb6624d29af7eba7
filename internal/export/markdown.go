package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/willay-edu/willay-cli/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export writes the session as a Markdown transcript
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Created:** %s  \n", formatStamp(session.CreatedAt))
	_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", formatStamp(session.UpdatedAt))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", msg.Role, escapeMarkdown(msg.Content))
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

func formatStamp(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Format(time.RFC3339)
}

// escapeMarkdown keeps transcript content from being interpreted as
// heading markup.
func escapeMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			lines[i] = "\\" + line
		}
	}
	return strings.Join(lines, "\n")
}
