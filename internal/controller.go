package internal

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"
)

// Controller-level rejections. Both are non-fatal: they leave every
// session untouched and are surfaced as status text.
var (
	// ErrEmptyMessage rejects blank input before any state changes.
	ErrEmptyMessage = errors.New("empty message")

	// ErrStreamInFlight rejects actions that would overlap a running
	// exchange.
	ErrStreamInFlight = errors.New("a response is still streaming")
)

// SendOptions carries the sampling parameters for one exchange.
type SendOptions struct {
	Model       string
	Temperature float64
	UseRag      bool
	RagNResults int
}

// Controller orchestrates one full exchange: append the user turn,
// bound the transmitted context, stream the reply, and commit it. At
// most one exchange runs at a time, guarded by a single flag — there is
// no parallelism to lock against, the flag exists to stop logically
// overlapping requests such as submitting while a reply still streams.
type Controller struct {
	store    *Store
	client   *Client
	stats    *Stats
	log      *ActivityLog
	clientID string

	status    func(string)
	streaming atomic.Bool
}

// NewController wires the controller to its collaborators.
func NewController(store *Store, client *Client, stats *Stats, log *ActivityLog, clientID string) *Controller {
	return &Controller{
		store:    store,
		client:   client,
		stats:    stats,
		log:      log,
		clientID: clientID,
		status:   func(string) {},
	}
}

// SetStatusFunc installs the callback that receives short status
// strings for display.
func (c *Controller) SetStatusFunc(fn func(string)) {
	if fn == nil {
		fn = func(string) {}
	}
	c.status = fn
}

// Streaming reports whether an exchange is in flight.
func (c *Controller) Streaming() bool {
	return c.streaming.Load()
}

// ClientID returns the durable client identifier this controller sends
// with every request.
func (c *Controller) ClientID() string {
	return c.clientID
}

// Send runs one exchange against the active session. Each decoded text
// increment reaches onDelta for live display before the next chunk is
// pulled; increments are ephemeral and never persisted on their own.
// The assistant reply is committed to the session only when the stream
// completes with content. On any failure nothing is appended beyond the
// user turn, and the partial text already shown stays a display
// artifact of the terminated stream.
func (c *Controller) Send(ctx context.Context, input string, opts SendOptions, onDelta func(string)) (Message, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		c.status(StatusMessage(ErrEmptyMessage))
		return Message{}, ErrEmptyMessage
	}
	if !c.streaming.CompareAndSwap(false, true) {
		c.status(StatusMessage(ErrStreamInFlight))
		return Message{}, ErrStreamInFlight
	}
	defer c.streaming.Store(false)

	c.status("Enviando...")

	session, err := c.store.Append(c.store.ActiveID(), Message{Role: RoleUser, Content: text})
	if err != nil {
		// The active pointer is a store invariant; this only happens if
		// the store is corrupted mid-run.
		LogError("append user message: %v", err)
		c.status(genericErrorText)
		return Message{}, err
	}
	c.log.Add("Usuario", text)
	c.stats.RecordMessage()

	payload := ChatPayload{
		ClientID:    c.clientID,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		Messages:    TrimContext(session.History(), MaxContext),
	}
	if opts.UseRag {
		payload.UseRag = true
		payload.RagNResults = opts.RagNResults
	}

	start := time.Now()
	reply, err := c.client.NewConsumer().Run(ctx, payload, onDelta)
	if err != nil {
		c.log.Add("Error", StatusMessage(err))
		c.status(StatusMessage(err))
		return Message{}, err
	}

	assistant := Message{Role: RoleAssistant, Content: reply}
	if _, err := c.store.Append(session.ID, assistant); err != nil {
		LogWarn("append assistant message: %v", err)
	}
	c.log.Add("Willay", reply)
	c.stats.RecordMessage()
	c.stats.RecordModelUsage(opts.Model)
	c.stats.RecordResponseTime(time.Since(start))

	c.status("Listo")
	return assistant, nil
}

// NewConversation creates and activates a fresh session. Prior sessions
// are kept. The backend reset notification is best-effort: its failure
// is reported as status text and never blocks the local switch.
func (c *Controller) NewConversation(ctx context.Context) (Session, error) {
	if c.streaming.Load() {
		c.status(StatusMessage(ErrStreamInFlight))
		return Session{}, ErrStreamInFlight
	}

	session := c.store.Create(true)
	c.stats.SetTotalSessions(c.store.Len())
	c.log.Add("Sistema", "Sesión reiniciada")
	c.status("Nuevo chat listo")

	c.notifyReset(ctx)
	return session, nil
}

// SwitchSession makes the given session active and reloads its history.
// Rejected while a stream is in flight.
func (c *Controller) SwitchSession(ctx context.Context, id string) (Session, error) {
	if c.streaming.Load() {
		c.status(StatusMessage(ErrStreamInFlight))
		return Session{}, ErrStreamInFlight
	}

	if err := c.store.SetActive(id); err != nil {
		return Session{}, err
	}
	session, _ := c.store.Get(id)
	c.status("Sesión cargada")

	c.notifyReset(ctx)
	return session, nil
}

func (c *Controller) notifyReset(ctx context.Context) {
	if err := c.client.NotifyReset(ctx, c.clientID); err != nil {
		LogDebug("reset notification: %v", err)
		c.status("Servidor sin respuesta, intenta de nuevo")
	}
}

// StatusMessage converts any failure from this subsystem into the short
// human-readable text shown to the user. Nothing propagates past the
// controller as an unhandled fault.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return "No recibí ningún mensaje"
	case errors.Is(err, ErrStreamInFlight):
		return "Espera a que termine la respuesta actual"
	case errors.Is(err, context.DeadlineExceeded):
		return "Tiempo de espera superado"
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.UserMessage()
	}
	var stream *StreamError
	if errors.As(err, &stream) {
		return stream.UserMessage()
	}
	return genericErrorText
}
