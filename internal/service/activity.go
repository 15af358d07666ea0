package service

import (
	"errors"

	"technestia/internal/models"

	"gorm.io/gorm"
)

// ActivityService reads the append-only audit trail. Writes happen inside the
// mutating services' transactions.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// ListForProject returns the project's audit trail, newest first. Only the
// owner and accepted collaborators may read it.
func (s *ActivityService) ListForProject(projectID, userID uint, limit int) ([]models.ActivityLog, error) {
	var project models.Project
	if err := s.db.Preload("Collaborations").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	allowed := project.UserID == userID
	if !allowed {
		for _, collab := range project.Collaborations {
			if collab.UserID == userID && collab.Status == models.CollabAccepted {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, ErrNotPermitted
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.ActivityLog
	if err := s.db.Where("project_id = ?", projectID).Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
