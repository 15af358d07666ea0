package server

import (
	"technestia/internal/auth"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateFeedback(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" validate:"required,max=5000"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	fb, err := h.feedbackSvc.Create(c.Request.Context(), projectID, auth.GetUserID(c), req.Content)
	if err != nil {
		respondServiceError(c, err, "create feedback")
		return
	}
	respondOK(c, "feedback created", gin.H{"feedback": fb})
}

func (h *Handler) ListFeedback(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	feedback, err := h.feedbackSvc.ListByProject(projectID)
	if err != nil {
		respondServiceError(c, err, "list feedback")
		return
	}
	respondOK(c, "feedback fetched", gin.H{"feedback": feedback})
}

func (h *Handler) AddReaction(c *gin.Context) {
	feedbackID, ok := paramID(c, "feedbackId")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type" validate:"required,max=32"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	reaction, err := h.feedbackSvc.AddReaction(feedbackID, auth.GetUserID(c), req.Type)
	if err != nil {
		respondServiceError(c, err, "add reaction")
		return
	}
	respondOK(c, "reaction saved", gin.H{"reaction": reaction})
}

// RemoveReaction deletes the caller's own reaction; absence is a 404.
func (h *Handler) RemoveReaction(c *gin.Context) {
	feedbackID, ok := paramID(c, "feedbackId")
	if !ok {
		return
	}
	if err := h.feedbackSvc.RemoveReaction(feedbackID, auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "remove reaction")
		return
	}
	respondOK(c, "reaction removed", nil)
}

// ListReactions is public: raw rows plus per-type counts under "data".
func (h *Handler) ListReactions(c *gin.Context) {
	feedbackID, ok := paramID(c, "feedbackId")
	if !ok {
		return
	}
	list, err := h.feedbackSvc.ListReactions(feedbackID)
	if err != nil {
		respondServiceError(c, err, "list reactions")
		return
	}
	respondOK(c, "reactions fetched", gin.H{"data": list})
}
