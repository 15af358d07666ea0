package service

import (
	"context"
	"errors"

	"technestia/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FeedbackService owns project feedback and its reactions.
type FeedbackService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewFeedbackService(db *gorm.DB, notifier Notifier) *FeedbackService {
	return &FeedbackService{db: db, notifier: notifier}
}

func (s *FeedbackService) Create(ctx context.Context, projectID, userID uint, content string) (*models.Feedback, error) {
	var project models.Project
	if err := s.db.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	fb := models.Feedback{ProjectID: projectID, UserID: userID, Content: content}
	if err := s.db.Create(&fb).Error; err != nil {
		return nil, err
	}
	if s.notifier != nil && project.UserID != userID {
		var author models.User
		authorName := ""
		if err := s.db.First(&author, userID).Error; err == nil {
			authorName = author.Name
			if authorName == "" {
				authorName = author.Username
			}
		}
		if err := s.notifier.FeedbackCreated(ctx, project.Owner.Email, authorName, project.Title); err != nil {
			log.Warn().Err(err).Uint("project_id", projectID).Msg("enqueue feedback notification")
		}
	}
	return &fb, nil
}

// FeedbackDTO pairs feedback with its author's public identity.
type FeedbackDTO struct {
	models.Feedback
	Author models.PublicUser `json:"author"`
}

func (s *FeedbackService) ListByProject(projectID uint) ([]FeedbackDTO, error) {
	var rows []models.Feedback
	if err := s.db.Preload("User").Where("project_id = ?", projectID).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]FeedbackDTO, 0, len(rows))
	for _, fb := range rows {
		out = append(out, FeedbackDTO{Feedback: fb, Author: fb.User.Public()})
	}
	return out, nil
}

// AddReaction keeps at most one reaction per (feedback, user): a repeat of the
// same type conflicts, a different type replaces the existing row.
func (s *FeedbackService) AddReaction(feedbackID, userID uint, reactionType string) (*models.FeedbackReaction, error) {
	var count int64
	if err := s.db.Model(&models.Feedback{}).Where("id = ?", feedbackID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrFeedbackNotFound
	}
	var existing models.FeedbackReaction
	err := s.db.Where("feedback_id = ? AND user_id = ?", feedbackID, userID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Type == reactionType {
			return nil, ErrReactionExists
		}
		if err := s.db.Model(&models.FeedbackReaction{}).Where("id = ?", existing.ID).Update("type", reactionType).Error; err != nil {
			return nil, err
		}
		existing.Type = reactionType
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := models.FeedbackReaction{FeedbackID: feedbackID, UserID: userID, Type: reactionType}
		if err := s.db.Create(&reaction).Error; err != nil {
			return nil, err
		}
		return &reaction, nil
	default:
		return nil, err
	}
}

// RemoveReaction deletes the caller's own reaction; absence is a not-found,
// not a no-op success.
func (s *FeedbackService) RemoveReaction(feedbackID, userID uint) error {
	var reaction models.FeedbackReaction
	if err := s.db.Where("feedback_id = ? AND user_id = ?", feedbackID, userID).First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReactionNotFound
		}
		return err
	}
	return s.db.Delete(&models.FeedbackReaction{}, reaction.ID).Error
}

// ReactionDTO pairs a reaction with the reactor's public identity.
type ReactionDTO struct {
	ID      uint              `json:"id"`
	Type    string            `json:"type"`
	Reactor models.PublicUser `json:"reactor"`
}

// ReactionList is the raw rows plus an aggregate count per reaction type.
type ReactionList struct {
	Reactions []ReactionDTO  `json:"reactions"`
	Counts    map[string]int `json:"counts"`
}

func (s *FeedbackService) ListReactions(feedbackID uint) (*ReactionList, error) {
	var count int64
	if err := s.db.Model(&models.Feedback{}).Where("id = ?", feedbackID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrFeedbackNotFound
	}
	var rows []models.FeedbackReaction
	if err := s.db.Preload("User").Where("feedback_id = ?", feedbackID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := ReactionList{Reactions: make([]ReactionDTO, 0, len(rows)), Counts: make(map[string]int)}
	for _, r := range rows {
		out.Reactions = append(out.Reactions, ReactionDTO{ID: r.ID, Type: r.Type, Reactor: r.User.Public()})
		out.Counts[r.Type]++
	}
	return &out, nil
}
