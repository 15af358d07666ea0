package server

import (
	"technestia/internal/auth"
	"technestia/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) InviteCollaborator(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	var req struct {
		UserID      uint   `json:"user_id" validate:"required"`
		AccessLevel string `json:"access_level" validate:"omitempty,oneof=READ EDIT FULL"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	collab, err := h.collabSvc.Invite(c.Request.Context(), projectID, auth.GetUserID(c), req.UserID, models.AccessLevel(req.AccessLevel))
	if err != nil {
		respondServiceError(c, err, "invite collaborator")
		return
	}
	respondOK(c, "invite sent", gin.H{"collaboration": collab})
}

func (h *Handler) RequestJoin(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	collab, err := h.collabSvc.RequestJoin(projectID, auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "request join")
		return
	}
	respondOK(c, "join request sent", gin.H{"collaboration": collab})
}

// AcceptInvite handles PATCH /api/project/join-invite/:projectId; only the
// invitee of a still-pending invite succeeds.
func (h *Handler) AcceptInvite(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	collab, err := h.collabSvc.AcceptInvite(projectID, auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "accept invite")
		return
	}
	respondOK(c, "invite accepted", gin.H{"collaboration": collab})
}

func (h *Handler) DeclineInvite(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	if _, err := h.collabSvc.DeclineInvite(projectID, auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "decline invite")
		return
	}
	respondOK(c, "invite declined", nil)
}

func (h *Handler) RemoveCollaborator(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.collabSvc.RemoveCollaborator(projectID, auth.GetUserID(c), req.UserID); err != nil {
		respondServiceError(c, err, "remove collaborator")
		return
	}
	respondOK(c, "collaborator removed", nil)
}

func (h *Handler) ListCollaborators(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	collaborators, err := h.collabSvc.ListCollaborators(projectID)
	if err != nil {
		respondServiceError(c, err, "list collaborators")
		return
	}
	respondOK(c, "collaborators fetched", gin.H{"collaborators": collaborators})
}

// ListPendingInvites is owner-only.
func (h *Handler) ListPendingInvites(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	project, err := h.projectSvc.Get(projectID, auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "list pending invites")
		return
	}
	if project.UserID != auth.GetUserID(c) {
		respondErr(c, 403, "only the project owner may do this")
		return
	}
	invites, err := h.collabSvc.ListPendingInvites(projectID)
	if err != nil {
		respondServiceError(c, err, "list pending invites")
		return
	}
	respondOK(c, "pending invites fetched", gin.H{"invites": invites})
}
