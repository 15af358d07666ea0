package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"technestia/internal/auth"
	"technestia/internal/service"
	"technestia/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Register creates an account; the username is generated from the email.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=128"`
		Name     string `json:"name" validate:"max=128"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	result, err := h.userSvc.Register(req.Email, req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		respondServiceError(c, err, "register")
		return
	}
	respondOK(c, "account created", gin.H{"user": result})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.userSvc.Login(strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}
	respondOK(c, "logged in", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User.Public(),
	})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.userSvc.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh token")
		respondErr(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	respondOK(c, "tokens refreshed", gin.H{"access_token": result.AccessToken, "refresh_token": result.RefreshToken})
}

// GetProfile is the public profile endpoint.
func (h *Handler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	user, err := h.userSvc.GetByUsername(username)
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}
	respondOK(c, "profile fetched", gin.H{"user": gin.H{
		"id":                 user.ID,
		"username":           user.Username,
		"name":               user.Name,
		"bio":                user.Bio,
		"links":              user.Links,
		"image_url":          user.ImageURL,
		"achievement_points": user.AchievementPoints,
		"is_verified":        user.IsVerified,
	}})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name  *string        `json:"name" validate:"omitempty,max=128"`
		Bio   *string        `json:"bio" validate:"omitempty,max=2000"`
		Links datatypes.JSON `json:"links"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	upd := service.ProfileUpdate{Name: req.Name, Bio: req.Bio, Links: req.Links}
	if err := h.userSvc.UpdateProfile(auth.GetUserID(c), upd); err != nil {
		respondServiceError(c, err, "update profile")
		return
	}
	respondOK(c, "profile updated", nil)
}

func (h *Handler) UpdateUsername(c *gin.Context) {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=64"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if err := h.userSvc.UpdateUsername(auth.GetUserID(c), username); err != nil {
		respondServiceError(c, err, "update username")
		return
	}
	respondOK(c, "username updated", nil)
}

func (h *Handler) SetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.userSvc.SetPassword(auth.GetUserID(c), req.Password); err != nil {
		respondServiceError(c, err, "set password")
		return
	}
	respondOK(c, "password set", nil)
}

// UploadImage validates the buffer before anything reaches the media host.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondErr(c, http.StatusBadRequest, "image file is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		respondErr(c, http.StatusBadRequest, "unreadable file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.cfg.UploadMaxBytes+1))
	if err != nil {
		respondErr(c, http.StatusBadRequest, "unreadable file")
		return
	}
	if err := upload.Validate(data, h.cfg.UploadMaxBytes); err != nil {
		if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrUnsupportedType) {
			respondErr(c, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(c, err, "upload image")
		return
	}
	result, err := h.uploader.Upload(data, upload.NewPublicID())
	if err != nil {
		respondServiceError(c, err, "upload image")
		return
	}
	if err := h.userSvc.UpdateImage(auth.GetUserID(c), result.URL, result.PublicID); err != nil {
		respondServiceError(c, err, "upload image save")
		return
	}
	respondOK(c, "image uploaded", gin.H{"image": result})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.userSvc.DeleteAccount(auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "delete account")
		return
	}
	respondOK(c, "account deleted", nil)
}

// SearchUsers is public: verified users only, capped, leaderboard-ordered.
func (h *Handler) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	users, err := h.userSvc.SearchVerified(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "search users")
		return
	}
	respondOK(c, "users fetched", gin.H{"data": users})
}
