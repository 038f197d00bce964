package session

import (
	"errors"
	"testing"

	"github.com/goliatone/go-content-sync/records"
	"github.com/google/uuid"
)

func TestSessionHappyPath(t *testing.T) {
	sess := New()

	if sess.State() != StateIdle || sess.Active() {
		t.Fatal("new session must be idle")
	}

	id := uuid.New()
	draft := records.NewDraft("en")
	draft.RecordID = &id
	draft.Values["title"] = "Apple"
	draft.Order = 1

	if err := sess.Begin(draft); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if sess.State() != StateEditing || !sess.Active() {
		t.Fatal("expected editing state")
	}
	if got, ok := sess.RecordID(); !ok || got != id {
		t.Fatalf("expected record id %s, got %s ok=%v", id, got, ok)
	}

	submitted, err := sess.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Values["title"] != "Apple" {
		t.Fatal("submit must hand back the draft")
	}
	if sess.State() != StateSaving {
		t.Fatal("expected saving state")
	}

	if err := sess.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if sess.State() != StateIdle || sess.Draft() != nil {
		t.Fatal("complete must reset the session")
	}
}

func TestSessionFailurePreservesDraft(t *testing.T) {
	sess := New()
	draft := records.NewDraft("ko")
	draft.Values["title"] = "사과"

	if err := sess.Begin(draft); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := sess.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := sess.Fail(); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if sess.State() != StateEditing {
		t.Fatal("failed save must return to editing")
	}
	kept := sess.Draft()
	if kept == nil || kept.Values["title"] != "사과" {
		t.Fatal("draft must survive a failed save")
	}

	// Retry path: Editing -> Saving -> Idle.
	if _, err := sess.Submit(); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if err := sess.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestSessionCancelDiscardsDraft(t *testing.T) {
	sess := New()
	if err := sess.Begin(records.NewDraft("en")); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := sess.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if sess.State() != StateIdle || sess.Draft() != nil {
		t.Fatal("cancel must reset the session")
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	sess := New()

	t.Run("submit before begin", func(t *testing.T) {
		if _, err := sess.Submit(); !errors.Is(err, ErrNotEditing) {
			t.Fatalf("expected ErrNotEditing, got %v", err)
		}
	})

	t.Run("complete before submit", func(t *testing.T) {
		if err := sess.Complete(); !errors.Is(err, ErrNotSaving) {
			t.Fatalf("expected ErrNotSaving, got %v", err)
		}
	})

	t.Run("double begin", func(t *testing.T) {
		if err := sess.Begin(records.NewDraft("en")); err != nil {
			t.Fatalf("begin: %v", err)
		}
		if err := sess.Begin(records.NewDraft("en")); !errors.Is(err, ErrNotIdle) {
			t.Fatalf("expected ErrNotIdle, got %v", err)
		}
	})

	t.Run("nil draft", func(t *testing.T) {
		if err := New().Begin(nil); !errors.Is(err, ErrDraftRequired) {
			t.Fatalf("expected ErrDraftRequired, got %v", err)
		}
	})

	t.Run("draft is copied in", func(t *testing.T) {
		fresh := New()
		draft := records.NewDraft("en")
		draft.Values["title"] = "before"
		if err := fresh.Begin(draft); err != nil {
			t.Fatalf("begin: %v", err)
		}
		draft.Values["title"] = "after"
		if got := fresh.Draft().Values["title"]; got != "before" {
			t.Fatalf("session draft must not alias caller's draft, got %v", got)
		}
	})
}
