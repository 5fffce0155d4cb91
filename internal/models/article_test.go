// ABOUTME: Test suite for the Article model and its save state machine
// ABOUTME: Ensures idempotent setters, legal transitions, rollback flags and single ownership

package models

import (
	"errors"
	"testing"
)

func newTestArticle() *Article {
	return NewArticle(Fields{
		Keyword:     "rust",
		Title:       "Rust 2.0 released",
		Summary:     "A summary",
		PublishedAt: "2024-05-01T08:00:00Z",
		Source:      "Example News",
		URL:         "https://example.com/rust",
	})
}

func TestNewArticle(t *testing.T) {
	a := newTestArticle()

	if a.LocalID == "" {
		t.Error("expected LocalID to be generated, got empty string")
	}
	if a.RemoteID() != "" {
		t.Errorf("expected empty RemoteID, got %q", a.RemoteID())
	}
	if a.Saved() || a.State() != Unsaved {
		t.Errorf("expected unsaved article, got state %s", a.State())
	}
	if a.PublishedAt == nil || a.PublishedAt.Year() != 2024 {
		t.Errorf("expected PublishedAt to be parsed, got %v", a.PublishedAt)
	}

	other := newTestArticle()
	if other.LocalID == a.LocalID {
		t.Error("expected distinct LocalIDs for distinct articles")
	}
}

func TestNewArticle_BadDate(t *testing.T) {
	a := NewArticle(Fields{PublishedAt: "not a date"})
	if a.PublishedAt != nil {
		t.Errorf("expected nil PublishedAt, got %v", a.PublishedAt)
	}
	if a.RawPublishedAt != "not a date" {
		t.Errorf("expected raw date to be kept, got %q", a.RawPublishedAt)
	}
}

func TestNewSavedArticle(t *testing.T) {
	a := NewSavedArticle("abc", Fields{Title: "x"})
	if !a.Saved() || a.RemoteID() != "abc" {
		t.Errorf("expected saved article with remote id abc, got %s/%q", a.State(), a.RemoteID())
	}
}

func TestSetSaved_Idempotent(t *testing.T) {
	a := newTestArticle()
	calls := 0
	a.Changes().Subscribe(func(Transition) { calls++ })

	if err := a.SetSaved(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no notification for unchanged value, got %d", calls)
	}

	if err := a.SetSaved(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.SetSaved(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly one notification, got %d", calls)
	}
}

func TestSetSaved_TransitionsAndRollback(t *testing.T) {
	a := newTestArticle()
	var got []Transition
	a.Changes().Subscribe(func(tr Transition) { got = append(got, tr) })

	if err := a.SetSaved(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Saved() || !a.Busy() {
		t.Errorf("expected optimistic saved+busy, got %s", a.State())
	}

	cause := errors.New("server down")
	if err := a.FailSave(cause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Saved() || a.Busy() {
		t.Errorf("expected rollback to unsaved, got %s", a.State())
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(got))
	}
	if got[0].From != Unsaved || got[0].To != Saving || got[0].Rollback() {
		t.Errorf("unexpected first transition %+v", got[0])
	}
	if got[1].To != Unsaved || !got[1].Rollback() || !errors.Is(got[1].Err, cause) {
		t.Errorf("unexpected rollback transition %+v", got[1])
	}
}

func TestSetSaved_BusyToggleRejected(t *testing.T) {
	a := newTestArticle()
	_ = a.SetSaved(true)

	err := a.SetSaved(false)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition while saving, got %v", err)
	}

	_ = a.ConfirmSave("42")
	_ = a.SetSaved(false)
	if err := a.SetSaved(true); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition while deleting, got %v", err)
	}
}

func TestCompletion_RemoteIDLifecycle(t *testing.T) {
	a := newTestArticle()
	_ = a.SetSaved(true)

	if err := a.ConfirmSave("42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.RemoteID() != "42" || a.State() != Saved {
		t.Errorf("expected saved with id 42, got %s/%q", a.State(), a.RemoteID())
	}

	if err := a.ConfirmSave("43"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition for double confirm, got %v", err)
	}

	_ = a.SetSaved(false)
	if err := a.FailDelete(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.State() != Saved || a.RemoteID() != "42" {
		t.Errorf("expected delete rollback to keep record, got %s/%q", a.State(), a.RemoteID())
	}

	_ = a.SetSaved(false)
	if err := a.ConfirmDelete(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.State() != Unsaved || a.RemoteID() != "" {
		t.Errorf("expected unsaved without id, got %s/%q", a.State(), a.RemoteID())
	}
}

func TestMarkSaved(t *testing.T) {
	a := newTestArticle()
	if err := a.MarkSaved("r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.State() != Saved || a.RemoteID() != "r1" {
		t.Errorf("expected saved r1, got %s/%q", a.State(), a.RemoteID())
	}
	if err := a.MarkSaved("r2"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestAdopt_SingleOwner(t *testing.T) {
	a := newTestArticle()
	calls := 0

	if err := a.Adopt("repo-1", func(Transition) { calls++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Adopt("repo-1", func(Transition) { calls++ }); err != nil {
		t.Fatalf("re-adopt by same owner should be a no-op, got %v", err)
	}
	if err := a.Adopt("repo-2", func(Transition) {}); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned, got %v", err)
	}

	_ = a.SetSaved(true)
	if calls != 1 {
		t.Errorf("expected owner handler to run once, got %d", calls)
	}

	a.Cleanup()
	if a.Owner() != "" {
		t.Errorf("expected no owner after cleanup, got %q", a.Owner())
	}
	_ = a.FailSave(nil)
	if calls != 1 {
		t.Errorf("expected no notifications after cleanup, got %d", calls)
	}
	if err := a.Adopt("repo-2", func(Transition) {}); err != nil {
		t.Errorf("expected adopt after cleanup to succeed, got %v", err)
	}
}

func TestSaveState_String(t *testing.T) {
	if Deleting.String() != "deleting" {
		t.Errorf("expected deleting, got %q", Deleting.String())
	}
	if SaveState(9).String() != "SaveState(9)" {
		t.Errorf("unexpected string %q", SaveState(9).String())
	}
}
