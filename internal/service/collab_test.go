package service

import (
	"context"
	"errors"
	"testing"

	"technestia/internal/models"
)

func TestAcceptInvite(t *testing.T) {
	gdb := testDB(t)
	svc := NewCollabService(gdb, nil)

	owner := seedUser(t, gdb, "owner", "owner@example.com")
	invitee := seedUser(t, gdb, "invitee", "invitee@example.com")
	project := seedProject(t, gdb, owner.ID, "Project P", true)
	mustCreate(t, gdb, &models.Collaboration{
		UserID: invitee.ID, ProjectID: project.ID,
		Status: models.CollabPending, InvitedBy: &owner.ID, AccessLevel: models.AccessRead,
	})

	collab, err := svc.AcceptInvite(project.ID, invitee.ID)
	if err != nil {
		t.Fatalf("AcceptInvite() error = %v", err)
	}
	if collab.Status != models.CollabAccepted {
		t.Errorf("AcceptInvite() status = %v, want ACCEPTED", collab.Status)
	}

	var logs []models.ActivityLog
	if err := gdb.Where("project_id = ?", project.ID).Find(&logs).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("activity rows = %d, want exactly 1", len(logs))
	}
	if logs[0].ActionType != models.ActionApproveCollab {
		t.Errorf("activity action = %q, want %q", logs[0].ActionType, models.ActionApproveCollab)
	}
}

func TestDeclineInvite_EndToEnd(t *testing.T) {
	gdb := testDB(t)
	svc := NewCollabService(gdb, nil)

	userA := seedUser(t, gdb, "a", "a@example.com")
	userB := seedUser(t, gdb, "b", "b@example.com")
	project := seedProject(t, gdb, userA.ID, "Project P", true)
	mustCreate(t, gdb, &models.Collaboration{
		UserID: userB.ID, ProjectID: project.ID,
		Status: models.CollabPending, InvitedBy: &userA.ID, AccessLevel: models.AccessRead,
	})

	if _, err := svc.DeclineInvite(project.ID, userB.ID); err != nil {
		t.Fatalf("DeclineInvite() error = %v", err)
	}

	var row models.Collaboration
	if err := gdb.Where("project_id = ? AND user_id = ?", project.ID, userB.ID).First(&row).Error; err != nil {
		t.Fatalf("load collaboration: %v", err)
	}
	if row.Status != models.CollabRejected {
		t.Errorf("status = %v, want REJECTED", row.Status)
	}

	var logs []models.ActivityLog
	if err := gdb.Where("project_id = ? AND action_type = ?", project.ID, models.ActionRejectCollab).Find(&logs).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("REJECT_COLLABORATION rows = %d, want exactly 1", len(logs))
	}

	// The row is terminal now; a later accept must be a not-found.
	if _, err := svc.AcceptInvite(project.ID, userB.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("AcceptInvite() after decline = %v, want ErrInviteNotFound", err)
	}
}

func TestAcceptInvite_NotActionable(t *testing.T) {
	gdb := testDB(t)
	svc := NewCollabService(gdb, nil)

	owner := seedUser(t, gdb, "owner", "owner@example.com")
	requester := seedUser(t, gdb, "requester", "requester@example.com")
	project := seedProject(t, gdb, owner.ID, "Project P", true)

	// A join request (InvitedBy nil) is not an invite and must not be
	// acceptable through the invite endpoint.
	mustCreate(t, gdb, &models.Collaboration{
		UserID: requester.ID, ProjectID: project.ID,
		Status: models.CollabPending, AccessLevel: models.AccessRead,
	})
	if _, err := svc.AcceptInvite(project.ID, requester.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("AcceptInvite() on join request = %v, want ErrInviteNotFound", err)
	}

	// No row at all.
	if _, err := svc.AcceptInvite(project.ID, 9999); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("AcceptInvite() with no row = %v, want ErrInviteNotFound", err)
	}
}

func TestInvite(t *testing.T) {
	gdb := testDB(t)
	svc := NewCollabService(gdb, nil)

	owner := seedUser(t, gdb, "owner", "owner@example.com")
	member := seedUser(t, gdb, "member", "member@example.com")
	outsider := seedUser(t, gdb, "outsider", "outsider@example.com")
	project := seedProject(t, gdb, owner.ID, "Project P", true)

	collab, err := svc.Invite(context.Background(), project.ID, owner.ID, member.ID, models.AccessFull)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if collab.Status != models.CollabPending {
		t.Errorf("Invite() status = %v, want PENDING", collab.Status)
	}
	if collab.InvitedBy == nil || *collab.InvitedBy != owner.ID {
		t.Errorf("Invite() InvitedBy = %v, want %d", collab.InvitedBy, owner.ID)
	}

	// A second active row for the same pair is blocked.
	if _, err := svc.Invite(context.Background(), project.ID, owner.ID, member.ID, models.AccessRead); !errors.Is(err, ErrCollabExists) {
		t.Errorf("Invite() duplicate = %v, want ErrCollabExists", err)
	}

	// A non-owner without FULL access cannot invite.
	if _, err := svc.Invite(context.Background(), project.ID, outsider.ID, member.ID, models.AccessRead); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("Invite() by outsider = %v, want ErrNotPermitted", err)
	}
}

func TestRemoveCollaborator(t *testing.T) {
	gdb := testDB(t)
	svc := NewCollabService(gdb, nil)

	owner := seedUser(t, gdb, "owner", "owner@example.com")
	fullA := seedUser(t, gdb, "fulla", "fulla@example.com")
	fullB := seedUser(t, gdb, "fullb", "fullb@example.com")
	project := seedProject(t, gdb, owner.ID, "Project P", true)
	mustCreate(t, gdb, &models.Collaboration{UserID: fullA.ID, ProjectID: project.ID, Status: models.CollabAccepted, AccessLevel: models.AccessFull})
	mustCreate(t, gdb, &models.Collaboration{UserID: fullB.ID, ProjectID: project.ID, Status: models.CollabAccepted, AccessLevel: models.AccessFull})

	// Full-access members cannot remove each other.
	if err := svc.RemoveCollaborator(project.ID, fullA.ID, fullB.ID); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("RemoveCollaborator(full, full) = %v, want ErrNotPermitted", err)
	}

	// The owner can.
	if err := svc.RemoveCollaborator(project.ID, owner.ID, fullB.ID); err != nil {
		t.Fatalf("RemoveCollaborator(owner, full) error = %v", err)
	}
	var count int64
	gdb.Model(&models.Collaboration{}).Where("project_id = ? AND user_id = ?", project.ID, fullB.ID).Count(&count)
	if count != 0 {
		t.Errorf("collaboration rows after removal = %d, want 0", count)
	}
	var logs []models.ActivityLog
	gdb.Where("project_id = ? AND action_type = ?", project.ID, models.ActionRemoveCollaborator).Find(&logs)
	if len(logs) != 1 {
		t.Errorf("REMOVE_COLLABORATOR rows = %d, want 1", len(logs))
	}
}
