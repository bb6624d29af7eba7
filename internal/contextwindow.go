package internal

// MaxContext bounds the message sequence transmitted per exchange,
// counting the pinned system prompt at index 0.
const MaxContext = 20

// TrimContext returns a bounded copy of msgs suitable for model input.
// The system prompt at index 0 is always retained. Older turns are
// evicted from the front in user/assistant pairs so an assistant reply
// is never left in context without the question it answers; when the
// two oldest turns share a role (retries, errors) only the oldest one
// goes, and the pair check runs again.
//
// The input is never mutated, and re-trimming an already bounded
// sequence is a no-op.
func TrimContext(msgs []Message, max int) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)

	for len(out) > max {
		if len(out) <= 2 {
			return out[:1]
		}
		if out[1].Role != out[2].Role {
			out = append(out[:1], out[3:]...)
		} else {
			out = append(out[:1], out[2:]...)
		}
	}
	return out
}
