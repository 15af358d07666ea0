package service

import (
	"errors"
	"fmt"

	"technestia/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectService owns project CRUD and the owner-only delete rule.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectInput struct {
	Title       string
	Description string
	Status      models.ProjectStatus
	IsPublic    bool
	TechStack   datatypes.JSON
	Tags        datatypes.JSON
	Screenshots datatypes.JSON
}

func (s *ProjectService) Create(ownerID uint, in ProjectInput) (*models.Project, error) {
	if in.Status == "" {
		in.Status = models.ProjectIdea
	}
	project := models.Project{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		IsPublic:    in.IsPublic,
		TechStack:   in.TechStack,
		Tags:        in.Tags,
		Screenshots: in.Screenshots,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Get loads a project with its collaborations. Private projects are only
// visible to the owner and accepted collaborators; viewerID 0 is anonymous.
func (s *ProjectService) Get(projectID, viewerID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Collaborations").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.IsPublic || project.UserID == viewerID {
		return &project, nil
	}
	for _, collab := range project.Collaborations {
		if collab.UserID == viewerID && collab.Status == models.CollabAccepted {
			return &project, nil
		}
	}
	// Hide existence of private projects from outsiders.
	return nil, ErrProjectNotFound
}

func (s *ProjectService) ListPublic(limit int) ([]models.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var projects []models.Project
	if err := s.db.Where("is_public = ?", true).Order("id desc").Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) ListOwn(userID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Where("user_id = ?", userID).Order("id desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project. Only the owner may delete; the removal and its
// audit entry commit in one transaction.
func (s *ProjectService) Delete(projectID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.UserID != userID {
		return ErrNotOwner
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Project{}, projectID).Error; err != nil {
			return err
		}
		entry := models.ActivityLog{
			UserID:      userID,
			ProjectID:   projectID,
			ActionType:  models.ActionDeleteProject,
			Description: fmt.Sprintf("deleted project %q", project.Title),
			TargetID:    projectID,
			TargetType:  "project",
		}
		return tx.Create(&entry).Error
	})
}
