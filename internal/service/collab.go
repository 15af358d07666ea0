package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"technestia/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Notifier hands off email notifications; delivery happens out of band and
// must never fail the originating request.
type Notifier interface {
	InviteCreated(ctx context.Context, inviteeEmail, inviterName, projectTitle string) error
	FeedbackCreated(ctx context.Context, ownerEmail, authorName, projectTitle string) error
}

// CollabService owns the invite/request state machine on Collaboration rows.
type CollabService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewCollabService builds a CollabService. notifier may be nil.
func NewCollabService(db *gorm.DB, notifier Notifier) *CollabService {
	return &CollabService{db: db, notifier: notifier}
}

// Invite creates a PENDING invite row for targetUserID. The actor must be the
// owner or hold an ACCEPTED FULL collaboration. An active (PENDING or
// ACCEPTED) row for the pair blocks a second one; this is a handler-level
// convention, not a store constraint.
func (s *CollabService) Invite(ctx context.Context, projectID, actorID, targetUserID uint, level models.AccessLevel) (*models.Collaboration, error) {
	var project models.Project
	if err := s.db.Preload("Collaborations").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if !canManageCollaborators(&project, actorID) {
		return nil, ErrNotPermitted
	}
	if targetUserID == project.UserID {
		return nil, ErrCollabExists
	}
	var target models.User
	if err := s.db.First(&target, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	var count int64
	if err := s.db.Model(&models.Collaboration{}).
		Where("user_id = ? AND project_id = ? AND status IN ?", targetUserID, projectID,
			[]models.CollabStatus{models.CollabPending, models.CollabAccepted}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCollabExists
	}
	if level == "" {
		level = models.AccessRead
	}
	actor := actorID
	collab := models.Collaboration{
		UserID:        targetUserID,
		ProjectID:     projectID,
		Status:        models.CollabPending,
		InvitedBy:     &actor,
		AccessLevel:   level,
		LastUpdatedAt: time.Now(),
	}
	if err := s.db.Create(&collab).Error; err != nil {
		return nil, err
	}
	if s.notifier != nil {
		var inviter models.User
		inviterName := ""
		if err := s.db.First(&inviter, actorID).Error; err == nil {
			inviterName = inviter.Name
			if inviterName == "" {
				inviterName = inviter.Username
			}
		}
		if err := s.notifier.InviteCreated(ctx, target.Email, inviterName, project.Title); err != nil {
			log.Warn().Err(err).Uint("project_id", projectID).Uint("user_id", targetUserID).Msg("enqueue invite notification")
		}
	}
	return &collab, nil
}

// RequestJoin creates a PENDING join request (InvitedBy nil) for a public
// project.
func (s *CollabService) RequestJoin(projectID, userID uint) (*models.Collaboration, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if !project.IsPublic {
		return nil, ErrProjectNotFound
	}
	if project.UserID == userID {
		return nil, ErrCollabExists
	}
	var count int64
	if err := s.db.Model(&models.Collaboration{}).
		Where("user_id = ? AND project_id = ? AND status IN ?", userID, projectID,
			[]models.CollabStatus{models.CollabPending, models.CollabAccepted}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCollabExists
	}
	collab := models.Collaboration{
		UserID:        userID,
		ProjectID:     projectID,
		Status:        models.CollabPending,
		AccessLevel:   models.AccessRead,
		LastUpdatedAt: time.Now(),
	}
	if err := s.db.Create(&collab).Error; err != nil {
		return nil, err
	}
	return &collab, nil
}

// AcceptInvite moves a pending invite for (projectID, userID) to ACCEPTED.
// The row is refetched scoped to {PENDING, invited_by NOT NULL} so only the
// invitee of a still-actionable invite can transition it; a miss is a
// not-found, never a silent success. The status update and its audit entry
// commit in one transaction.
func (s *CollabService) AcceptInvite(projectID, userID uint) (*models.Collaboration, error) {
	return s.resolveInvite(projectID, userID, models.CollabAccepted, models.ActionApproveCollab, "accepted a collaboration invite")
}

// DeclineInvite moves a pending invite to REJECTED under the same scoping and
// atomicity rules as AcceptInvite.
func (s *CollabService) DeclineInvite(projectID, userID uint) (*models.Collaboration, error) {
	return s.resolveInvite(projectID, userID, models.CollabRejected, models.ActionRejectCollab, "declined a collaboration invite")
}

func (s *CollabService) resolveInvite(projectID, userID uint, to models.CollabStatus, action, description string) (*models.Collaboration, error) {
	var collab models.Collaboration
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ? AND status = ? AND invited_by IS NOT NULL",
			projectID, userID, models.CollabPending).First(&collab).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		collab.Status = to
		collab.LastUpdatedAt = time.Now()
		if err := tx.Model(&models.Collaboration{}).Where("id = ?", collab.ID).
			Updates(map[string]interface{}{"status": to, "last_updated_at": collab.LastUpdatedAt}).Error; err != nil {
			return err
		}
		entry := models.ActivityLog{
			UserID:      userID,
			ProjectID:   projectID,
			ActionType:  action,
			Description: description,
			TargetID:    collab.ID,
			TargetType:  "collaboration",
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &collab, nil
}

// RemoveCollaborator deletes targetUserID's collaboration after the
// CheckPermission predicate allows it.
func (s *CollabService) RemoveCollaborator(projectID, actorID, targetUserID uint) error {
	var project models.Project
	if err := s.db.Preload("Collaborations").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !CheckPermission(&project, actorID, targetUserID) {
		return ErrNotPermitted
	}
	var collab models.Collaboration
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).First(&collab).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollabNotFound
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Collaboration{}, collab.ID).Error; err != nil {
			return err
		}
		entry := models.ActivityLog{
			UserID:      actorID,
			ProjectID:   projectID,
			ActionType:  models.ActionRemoveCollaborator,
			Description: fmt.Sprintf("removed collaborator %d", targetUserID),
			TargetID:    targetUserID,
			TargetType:  "user",
		}
		return tx.Create(&entry).Error
	})
}

// CollaboratorDTO pairs a collaboration with the member's public identity.
type CollaboratorDTO struct {
	models.PublicUser
	Status      models.CollabStatus `json:"status"`
	AccessLevel models.AccessLevel  `json:"access_level"`
	InvitedBy   *uint               `json:"invited_by"`
}

// ListCollaborators returns accepted members of a project.
func (s *CollabService) ListCollaborators(projectID uint) ([]CollaboratorDTO, error) {
	return s.listByStatus(projectID, models.CollabAccepted)
}

// ListPendingInvites returns pending invite rows; the handler gates access to
// the owner.
func (s *CollabService) ListPendingInvites(projectID uint) ([]CollaboratorDTO, error) {
	return s.listByStatus(projectID, models.CollabPending)
}

func (s *CollabService) listByStatus(projectID uint, status models.CollabStatus) ([]CollaboratorDTO, error) {
	var collabs []models.Collaboration
	if err := s.db.Preload("User").Where("project_id = ? AND status = ?", projectID, status).Find(&collabs).Error; err != nil {
		return nil, err
	}
	out := make([]CollaboratorDTO, 0, len(collabs))
	for _, c := range collabs {
		out = append(out, CollaboratorDTO{
			PublicUser:  c.User.Public(),
			Status:      c.Status,
			AccessLevel: c.AccessLevel,
			InvitedBy:   c.InvitedBy,
		})
	}
	return out, nil
}

// canManageCollaborators allows the owner and ACCEPTED FULL members to send
// invites.
func canManageCollaborators(project *models.Project, userID uint) bool {
	if project.UserID == userID {
		return true
	}
	for _, collab := range project.Collaborations {
		if collab.UserID == userID && collab.Status == models.CollabAccepted && collab.AccessLevel == models.AccessFull {
			return true
		}
	}
	return false
}
