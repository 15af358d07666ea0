package server

import (
	"strconv"

	"technestia/internal/auth"
	"technestia/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateDirectRoom(c *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := h.chatSvc.CreateDirectRoom(auth.GetUserID(c), req.UserID)
	if err != nil {
		respondServiceError(c, err, "create direct room")
		return
	}
	respondOK(c, "chat room ready", gin.H{"room": room})
}

func (h *Handler) CreateGroupRoom(c *gin.Context) {
	var req struct {
		Name      string `json:"name" validate:"required,max=128"`
		MemberIDs []uint `json:"member_ids"`
		ProjectID *uint  `json:"project_id"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := h.chatSvc.CreateGroupRoom(auth.GetUserID(c), req.Name, req.MemberIDs, req.ProjectID)
	if err != nil {
		respondServiceError(c, err, "create group room")
		return
	}
	respondOK(c, "chat room created", gin.H{"room": room})
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.chatSvc.ListRooms(auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "list rooms")
		return
	}
	respondOK(c, "rooms fetched", gin.H{"rooms": rooms})
}

// FetchParticipants rejects non-members with 403; admins sort first, the rest
// alphabetically.
func (h *Handler) FetchParticipants(c *gin.Context) {
	roomID, ok := paramID(c, "chatroomId")
	if !ok {
		return
	}
	participants, err := h.chatSvc.Participants(roomID, auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "fetch participants")
		return
	}
	respondOK(c, "participants fetched", gin.H{"participants": participants})
}

func (h *Handler) SendMessage(c *gin.Context) {
	roomID, ok := paramID(c, "chatroomId")
	if !ok {
		return
	}
	var req struct {
		Content     string `json:"content" validate:"required,max=10000"`
		MessageType string `json:"message_type" validate:"omitempty,oneof=TEXT IMAGE FILE LINK"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.chatSvc.SendMessage(roomID, auth.GetUserID(c), req.Content, models.MessageType(req.MessageType))
	if err != nil {
		respondServiceError(c, err, "send message")
		return
	}
	respondOK(c, "message sent", gin.H{"chat_message": msg})
}

// FetchMessages pages with an opaque before-id cursor and returns unreadInfo
// alongside; clients poll this on a fixed interval.
func (h *Handler) FetchMessages(c *gin.Context) {
	roomID, ok := paramID(c, "chatroomId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	var cursor uint
	if v, err := strconv.ParseUint(c.Query("cursor"), 10, 64); err == nil {
		cursor = uint(v)
	}
	page, err := h.chatSvc.ListMessages(roomID, auth.GetUserID(c), limit, cursor)
	if err != nil {
		respondServiceError(c, err, "fetch messages")
		return
	}
	respondOK(c, "messages fetched", gin.H{
		"messages":    page.Messages,
		"next_cursor": page.NextCursor,
		"unread_info": page.Unread,
	})
}

func (h *Handler) EditMessage(c *gin.Context) {
	messageID, ok := paramID(c, "messageId")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" validate:"required,max=10000"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.chatSvc.EditMessage(messageID, auth.GetUserID(c), req.Content); err != nil {
		respondServiceError(c, err, "edit message")
		return
	}
	respondOK(c, "message edited", nil)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	messageID, ok := paramID(c, "messageId")
	if !ok {
		return
	}
	if err := h.chatSvc.DeleteMessage(messageID, auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "delete message")
		return
	}
	respondOK(c, "message deleted", nil)
}

// MarkRead sets the caller's watermark; non-participants get 403, never a
// silent no-op.
func (h *Handler) MarkRead(c *gin.Context) {
	roomID, ok := paramID(c, "chatroomId")
	if !ok {
		return
	}
	if err := h.chatSvc.MarkRead(roomID, auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "mark read")
		return
	}
	respondOK(c, "marked read", nil)
}
