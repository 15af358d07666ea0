package server

import (
	"errors"
	"net/http"

	"technestia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondOK writes the uniform success envelope, merging payload keys into the
// top level: {"success": true, "message": ..., <payload>}.
func respondOK(c *gin.Context, message string, payload gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondErr(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondFieldErrors is the 400 shape for validation failures: a field-level
// error map under "errors".
func respondFieldErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "validation failed", "errors": fields})
}

// respondServiceError maps business errors to status codes. Anything
// unrecognized is logged with context and surfaced as a generic 500 so no
// internal detail leaks.
func respondServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondErr(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotPermitted),
		errors.Is(err, service.ErrNotParticipant):
		respondErr(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrCollabNotFound),
		errors.Is(err, service.ErrFeedbackNotFound),
		errors.Is(err, service.ErrReactionNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		respondErr(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrCollabExists),
		errors.Is(err, service.ErrReactionExists):
		respondErr(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("requestID")).Msg(logMsg)
		respondErr(c, http.StatusInternalServerError, "something went wrong")
	}
}
