package service

import (
	"context"
	"errors"
	"testing"
)

func TestReactions(t *testing.T) {
	gdb := testDB(t)
	svc := NewFeedbackService(gdb, nil)

	owner := seedUser(t, gdb, "owner", "owner@example.com")
	reactor := seedUser(t, gdb, "reactor", "reactor@example.com")
	project := seedProject(t, gdb, owner.ID, "Project P", true)
	fb, err := svc.Create(context.Background(), project.ID, reactor.ID, "nice work")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.AddReaction(fb.ID, reactor.ID, "LIKE"); err != nil {
		t.Fatalf("AddReaction() error = %v", err)
	}
	// Same type again conflicts.
	if _, err := svc.AddReaction(fb.ID, reactor.ID, "LIKE"); !errors.Is(err, ErrReactionExists) {
		t.Errorf("AddReaction() repeat = %v, want ErrReactionExists", err)
	}
	// A different type replaces the row rather than adding a second one.
	if _, err := svc.AddReaction(fb.ID, reactor.ID, "FIRE"); err != nil {
		t.Fatalf("AddReaction() retype error = %v", err)
	}

	list, err := svc.ListReactions(fb.ID)
	if err != nil {
		t.Fatalf("ListReactions() error = %v", err)
	}
	if len(list.Reactions) != 1 {
		t.Errorf("reaction rows = %d, want 1", len(list.Reactions))
	}
	if list.Counts["FIRE"] != 1 || list.Counts["LIKE"] != 0 {
		t.Errorf("counts = %v, want FIRE:1 only", list.Counts)
	}

	if err := svc.RemoveReaction(fb.ID, reactor.ID); err != nil {
		t.Fatalf("RemoveReaction() error = %v", err)
	}
	// Absence is a not-found, never a silent success.
	if err := svc.RemoveReaction(fb.ID, reactor.ID); !errors.Is(err, ErrReactionNotFound) {
		t.Errorf("RemoveReaction() absent = %v, want ErrReactionNotFound", err)
	}
}

func TestListReactions_UnknownFeedback(t *testing.T) {
	gdb := testDB(t)
	svc := NewFeedbackService(gdb, nil)

	if _, err := svc.ListReactions(12345); !errors.Is(err, ErrFeedbackNotFound) {
		t.Errorf("ListReactions() unknown id = %v, want ErrFeedbackNotFound", err)
	}
}
