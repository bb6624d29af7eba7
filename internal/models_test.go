package internal

import (
	"strings"
	"testing"
)

func TestNewSession(t *testing.T) {
	s := NewSession()

	if s.ID == "" {
		t.Error("NewSession() id is empty")
	}
	if s.Title != PlaceholderTitle {
		t.Errorf("NewSession() title = %q, want placeholder", s.Title)
	}
	if s.CreatedAt == 0 || s.UpdatedAt != s.CreatedAt {
		t.Errorf("NewSession() timestamps = %d/%d", s.CreatedAt, s.UpdatedAt)
	}
	if len(s.Messages) != 0 {
		t.Errorf("NewSession() has %d messages, want 0", len(s.Messages))
	}
}

func TestSession_Append_TitleFromFirstUserMessage(t *testing.T) {
	s := NewSession()

	s.Append(Message{Role: RoleUser, Content: "Explain recursion"})
	if s.Title != "Explain recursion" {
		t.Errorf("title after first user message = %q", s.Title)
	}

	s.Append(Message{Role: RoleAssistant, Content: "Recursion is..."})
	s.Append(Message{Role: RoleUser, Content: "A different question"})
	if s.Title != "Explain recursion" {
		t.Errorf("title changed on later message: %q", s.Title)
	}
}

func TestSession_Append_AssistantNeverSetsTitle(t *testing.T) {
	s := NewSession()
	s.Append(Message{Role: RoleAssistant, Content: "unsolicited"})

	if s.Title != PlaceholderTitle {
		t.Errorf("assistant message set the title: %q", s.Title)
	}
}

func TestSession_Append_UpdatesTimestamp(t *testing.T) {
	s := NewSession()
	s.CreatedAt = 1000
	s.UpdatedAt = 1000

	s.Append(Message{Role: RoleUser, Content: "hello"})

	if s.UpdatedAt < s.CreatedAt {
		t.Errorf("UpdatedAt = %d < CreatedAt = %d", s.UpdatedAt, s.CreatedAt)
	}
	if s.UpdatedAt == 1000 {
		t.Error("UpdatedAt not refreshed on append")
	}
}

func TestTitleFromMessage(t *testing.T) {
	long := "Explain recursion in twenty words or fewer, please, thanks"

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short", text: "hola", want: "hola"},
		{name: "trimmed", text: "  hola  ", want: "hola"},
		{name: "blank", text: "   ", want: PlaceholderTitle},
		{name: "long gets ellipsis", text: long, want: long[:57] + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromMessage(tt.text); got != tt.want {
				t.Errorf("TitleFromMessage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTitleFromMessage_MultibyteBoundary(t *testing.T) {
	text := strings.Repeat("ñ", 80)
	got := TitleFromMessage(text)

	want := strings.Repeat("ñ", 57) + "..."
	if got != want {
		t.Errorf("TitleFromMessage() = %q, want %q", got, want)
	}
}

func TestSession_History(t *testing.T) {
	s := NewSession()
	s.Append(Message{Role: RoleUser, Content: "hello"})

	history := s.History()

	if len(history) != 2 {
		t.Fatalf("History() length = %d, want 2", len(history))
	}
	if history[0].Role != RoleSystem || history[0].Content != DefaultSystemPrompt {
		t.Errorf("History()[0] = %v, want the system prompt", history[0])
	}
}

func TestDecodeSessions_FailSoft(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "not json", raw: "corrupt{{{"},
		{name: "wrong type", raw: `{"foo": 1}`},
		{name: "number", raw: "42"},
		{name: "object without sessions", raw: `{"schemaVersion": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeSessions(tt.raw)
			if got == nil {
				t.Fatal("DecodeSessions() returned nil")
			}
			if len(got) != 0 {
				t.Errorf("DecodeSessions(%q) = %v, want empty", tt.raw, got)
			}
		})
	}
}

func TestDecodeSessions_RepairsRecords(t *testing.T) {
	raw := `{"schemaVersion":1,"sessions":[
		{"title":"kept","createdAt":200,"updatedAt":100,"messages":[
			{"role":"user","content":"hi"},
			{"role":"","content":"dropped"},
			{"role":"assistant","content":""}
		]}
	]}`

	got := DecodeSessions(raw)

	if len(got) != 1 {
		t.Fatalf("DecodeSessions() length = %d, want 1", len(got))
	}
	s := got[0]
	if s.ID == "" {
		t.Error("missing id not regenerated")
	}
	if s.UpdatedAt != s.CreatedAt {
		t.Errorf("UpdatedAt = %d, want clamped to CreatedAt %d", s.UpdatedAt, s.CreatedAt)
	}
	if len(s.Messages) != 1 || s.Messages[0].Content != "hi" {
		t.Errorf("messages = %v, want only the valid one", s.Messages)
	}
}

func TestDecodeSessions_LegacyArray(t *testing.T) {
	raw := `[{"id":"a","title":"old","createdAt":1,"updatedAt":2,"messages":[]}]`

	got := DecodeSessions(raw)

	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("DecodeSessions() = %v, want the legacy session", got)
	}
}

func TestEncodeDecodeSessions_RoundTrip(t *testing.T) {
	s := NewSession()
	s.Append(Message{Role: RoleUser, Content: "hola"})
	s.Append(Message{Role: RoleAssistant, Content: "¿en qué te ayudo?"})

	encoded, err := EncodeSessions([]Session{s})
	if err != nil {
		t.Fatalf("EncodeSessions() error = %v", err)
	}
	decoded := DecodeSessions(encoded)

	if len(decoded) != 1 {
		t.Fatalf("decoded %d sessions, want 1", len(decoded))
	}
	if decoded[0].ID != s.ID || decoded[0].Title != s.Title {
		t.Errorf("round trip changed the session: %+v", decoded[0])
	}
	if len(decoded[0].Messages) != 2 {
		t.Errorf("round trip lost messages: %v", decoded[0].Messages)
	}
}
