package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

// StreamState tracks where a streaming exchange is in its lifecycle.
type StreamState int

const (
	StateIdle StreamState = iota
	StateRequesting
	StateStreaming
	StateCompleted
	StateFailed
)

func (s StreamState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChatPayload is the request body for POST /chat/stream. Messages is
// the already-trimmed context window, role and content only. UseRag and
// RagNResults are optional extensions consumed by the server-side
// retrieval collaborator.
type ChatPayload struct {
	ClientID    string    `json:"clientId"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
	UseRag      bool      `json:"useRag,omitempty"`
	RagNResults int       `json:"ragNResults,omitempty"`
}

// Consumer drives one streaming exchange: it issues the request, pulls
// raw chunks as they arrive, and delivers decoded text increments to
// the caller before accumulating the final reply. A Consumer is good
// for a single call to Run.
type Consumer struct {
	client *http.Client
	url    string
	state  StreamState
}

// State reports the consumer's position in the
// idle/requesting/streaming/completed/failed lifecycle.
func (c *Consumer) State() StreamState {
	return c.state
}

// Run performs the exchange and blocks until it completes or fails.
// Each non-empty decoded increment is handed to onDelta before the next
// chunk is pulled; increments are for live display only and carry no
// durability promise. Chunk boundaries are arbitrary, so a partial
// multi-byte rune at the end of one chunk is held back until the bytes
// completing it arrive.
//
// An exchange that reaches end-of-stream with no accumulated text
// fails: an empty reply is indistinguishable from a silently broken
// backend and must not be committed as a message.
func (c *Consumer) Run(ctx context.Context, payload ChatPayload, onDelta func(string)) (string, error) {
	c.state = StateRequesting

	body, err := json.Marshal(payload)
	if err != nil {
		c.state = StateFailed
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.state = StateFailed
		return "", &TransportError{Endpoint: "/chat/stream", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.state = StateFailed
		return "", &TransportError{Endpoint: "/chat/stream", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.state = StateFailed
		return "", &TransportError{
			Endpoint: "/chat/stream",
			Status:   resp.StatusCode,
			Detail:   decodeErrorDetail(resp.Body),
		}
	}

	c.state = StateStreaming

	var text strings.Builder
	var decoder streamDecoder
	buf := make([]byte, 4096)

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if chunk := decoder.decode(buf[:n]); chunk != "" {
				text.WriteString(chunk)
				if onDelta != nil {
					onDelta(chunk)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			c.state = StateFailed
			return "", &TransportError{Endpoint: "/chat/stream", Err: err}
		}
	}

	if tail := decoder.flush(); tail != "" {
		text.WriteString(tail)
		if onDelta != nil {
			onDelta(tail)
		}
	}

	if text.Len() == 0 {
		c.state = StateFailed
		return "", &StreamError{Reason: "stream ended with no content"}
	}

	c.state = StateCompleted
	return text.String(), nil
}

// streamDecoder reassembles UTF-8 text from arbitrarily split byte
// chunks. A trailing partial rune is held back until the bytes that
// complete it arrive in the next chunk.
type streamDecoder struct {
	pending []byte
}

func (d *streamDecoder) decode(p []byte) string {
	b := p
	if len(d.pending) > 0 {
		b = append(d.pending, p...)
		d.pending = nil
	}

	cut := len(b)
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			break
		}
		if c&0xC0 == 0xC0 {
			// Lead byte of a multi-byte rune. Hold the sequence back
			// unless it is already complete.
			if !utf8.FullRune(b[i:]) {
				cut = i
			}
			break
		}
		// Continuation byte; keep scanning for the lead.
	}

	if cut < len(b) {
		d.pending = append([]byte(nil), b[cut:]...)
	}
	return string(b[:cut])
}

// flush returns whatever is still held back. Bytes that never became a
// complete rune decode as replacement characters rather than being
// dropped.
func (d *streamDecoder) flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	tail := string(bytes.ToValidUTF8(d.pending, []byte("�")))
	d.pending = nil
	return tail
}
