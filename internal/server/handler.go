package server

import (
	"technestia/internal/config"
	"technestia/internal/service"
	"technestia/internal/upload"
)

// Handler aggregates the HTTP handlers; services are injected.
type Handler struct {
	cfg         config.Config
	userSvc     *service.UserService
	projectSvc  *service.ProjectService
	collabSvc   *service.CollabService
	feedbackSvc *service.FeedbackService
	chatSvc     *service.ChatService
	activitySvc *service.ActivityService
	uploader    upload.Uploader
}

func NewHandler(
	cfg config.Config,
	userSvc *service.UserService,
	projectSvc *service.ProjectService,
	collabSvc *service.CollabService,
	feedbackSvc *service.FeedbackService,
	chatSvc *service.ChatService,
	activitySvc *service.ActivityService,
	uploader upload.Uploader,
) *Handler {
	return &Handler{
		cfg:         cfg,
		userSvc:     userSvc,
		projectSvc:  projectSvc,
		collabSvc:   collabSvc,
		feedbackSvc: feedbackSvc,
		chatSvc:     chatSvc,
		activitySvc: activitySvc,
		uploader:    uploader,
	}
}
