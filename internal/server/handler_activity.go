package server

import (
	"strconv"

	"technestia/internal/auth"

	"github.com/gin-gonic/gin"
)

// ListProjectActivity returns the audit trail for owners and accepted
// collaborators.
func (h *Handler) ListProjectActivity(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.activitySvc.ListForProject(projectID, auth.GetUserID(c), limit)
	if err != nil {
		respondServiceError(c, err, "list activity")
		return
	}
	respondOK(c, "activity fetched", gin.H{"activity": entries})
}
