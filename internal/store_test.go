package internal

import (
	"testing"
)

func TestOpenStore_EmptyCreatesFirstSession(t *testing.T) {
	db := newTestDB(t)

	store := OpenStore(db)

	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	if store.ActiveID() == "" {
		t.Fatal("no active session after first open")
	}
	active := store.Active()
	if active.Title != PlaceholderTitle || len(active.Messages) != 0 {
		t.Errorf("first session = %+v, want empty placeholder", active)
	}
}

func TestOpenStore_CorruptCollectionDegradesToEmpty(t *testing.T) {
	db := newTestDB(t)
	if err := SetValue(db, KeySessions, "][not json"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	store := OpenStore(db)

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want a single fresh session", store.Len())
	}
}

func TestOpenStore_RestoresActivePointer(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	second := store.Create(true)

	reopened := OpenStore(db)

	if reopened.ActiveID() != second.ID {
		t.Errorf("ActiveID() = %s, want %s", reopened.ActiveID(), second.ID)
	}
}

func TestOpenStore_StalePointerFallsBackToMostRecent(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	kept := store.Create(false)
	if err := SetValue(db, KeyActiveSession, "gone"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	reopened := OpenStore(db)

	if reopened.ActiveID() != kept.ID {
		t.Errorf("ActiveID() = %s, want most recent %s", reopened.ActiveID(), kept.ID)
	}
}

func TestStore_SessionsOrderedByRecency(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	first := store.Active()
	store.Create(false)

	// Touching the first session makes it the most recent again.
	if _, err := store.Append(first.ID, Message{Role: RoleUser, Content: "hola"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	sessions := store.Sessions()
	if sessions[0].ID != first.ID {
		t.Errorf("Sessions()[0].ID = %s, want most recently updated %s", sessions[0].ID, first.ID)
	}

	// The ordering must survive a reload: it is part of the stored form.
	reopened := OpenStore(db)
	if reopened.Sessions()[0].ID != first.ID {
		t.Error("recency ordering lost across reload")
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	a := store.Active()
	b := store.Create(false)

	if _, err := store.Append(a.ID, Message{Role: RoleUser, Content: "for A only"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	gotB, _ := store.Get(b.ID)
	if len(gotB.Messages) != 0 {
		t.Errorf("session B picked up messages: %v", gotB.Messages)
	}

	// Switching away and back reproduces A unchanged.
	if err := store.SetActive(b.ID); err != nil {
		t.Fatalf("SetActive(b) error = %v", err)
	}
	if err := store.SetActive(a.ID); err != nil {
		t.Fatalf("SetActive(a) error = %v", err)
	}
	gotA := store.Active()
	if len(gotA.Messages) != 1 || gotA.Messages[0].Content != "for A only" {
		t.Errorf("session A changed across switches: %v", gotA.Messages)
	}
}

func TestStore_DeleteActiveCreatesReplacement(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	doomed := store.ActiveID()

	if err := store.Delete(doomed); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.ActiveID() == "" || store.ActiveID() == doomed {
		t.Fatalf("ActiveID() = %q after deleting active session", store.ActiveID())
	}
	active := store.Active()
	if len(active.Messages) != 0 {
		t.Errorf("replacement session is not empty: %v", active.Messages)
	}
}

func TestStore_DeleteInactiveKeepsActive(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	active := store.ActiveID()
	other := store.Create(false)

	if err := store.Delete(other.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.ActiveID() != active {
		t.Errorf("ActiveID() = %s, want unchanged %s", store.ActiveID(), active)
	}
}

func TestStore_DeleteUnknown(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)

	if err := store.Delete("missing"); err == nil {
		t.Error("Delete(missing) returned nil error")
	}
}

func TestStore_AppendSetsTitleOnce(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	id := store.ActiveID()

	session, err := store.Append(id, Message{Role: RoleUser, Content: "primera pregunta"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if session.Title != "primera pregunta" {
		t.Errorf("title = %q, want first user message", session.Title)
	}

	session, _ = store.Append(id, Message{Role: RoleUser, Content: "segunda"})
	if session.Title != "primera pregunta" {
		t.Errorf("title reassigned: %q", session.Title)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	db := newTestDB(t)
	store := OpenStore(db)
	id := store.ActiveID()
	if _, err := store.Append(id, Message{Role: RoleUser, Content: "hola"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := store.Append(id, Message{Role: RoleAssistant, Content: "buenas"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	reopened := OpenStore(db)
	session, ok := reopened.Get(id)
	if !ok {
		t.Fatal("session lost across reopen")
	}
	if len(session.Messages) != 2 {
		t.Errorf("messages = %v, want both turns", session.Messages)
	}
}
