package service

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"technestia/internal/metrics"
	"technestia/internal/models"
	"technestia/internal/ws"

	"gorm.io/gorm"
)

// ChatService owns rooms, membership, messages and the unread watermark.
type ChatService struct {
	db  *gorm.DB
	hub *ws.Hub
}

// NewChatService builds a ChatService. hub may be nil when push delivery is
// not wired (tests).
func NewChatService(db *gorm.DB, hub *ws.Hub) *ChatService {
	return &ChatService{db: db, hub: hub}
}

// participant returns the caller's non-left participant row, or
// ErrNotParticipant. A row with HasLeft set counts as absent.
func (s *ChatService) participant(roomID, userID uint) (*models.ChatParticipant, error) {
	var p models.ChatParticipant
	err := s.db.Where("chat_room_id = ? AND user_id = ? AND has_left = ?", roomID, userID, false).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	return &p, nil
}

// CreateDirectRoom returns the existing direct room between the two users, or
// creates one with both as participants.
func (s *ChatService) CreateDirectRoom(userID, otherID uint) (*models.ChatRoom, error) {
	if userID == otherID {
		return nil, ErrUserNotFound
	}
	var other models.User
	if err := s.db.First(&other, otherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Reuse an existing direct room that both users are still members of.
	var existing models.ChatRoom
	err := s.db.Raw(`
		SELECT cr.* FROM chat_rooms cr
		JOIN chat_participants a ON a.chat_room_id = cr.id AND a.user_id = ? AND a.has_left = ?
		JOIN chat_participants b ON b.chat_room_id = cr.id AND b.user_id = ? AND b.has_left = ?
		WHERE cr.is_group = ?
		LIMIT 1`, userID, false, otherID, false, false).Scan(&existing).Error
	if err == nil && existing.ID != 0 {
		return &existing, nil
	}

	var room models.ChatRoom
	err = s.db.Transaction(func(tx *gorm.DB) error {
		room = models.ChatRoom{IsGroup: false, CreatedBy: userID}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		parts := []models.ChatParticipant{
			{ChatRoomID: room.ID, UserID: userID},
			{ChatRoomID: room.ID, UserID: otherID},
		}
		return tx.Create(&parts).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateGroupRoom creates a group room with the creator as admin. projectID
// ties the room to a project team chat when non-nil.
func (s *ChatService) CreateGroupRoom(creatorID uint, name string, memberIDs []uint, projectID *uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.db.Transaction(func(tx *gorm.DB) error {
		room = models.ChatRoom{Name: name, IsGroup: true, ProjectID: projectID, CreatedBy: creatorID}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		parts := []models.ChatParticipant{{ChatRoomID: room.ID, UserID: creatorID, IsAdmin: true}}
		seen := map[uint]struct{}{creatorID: {}}
		for _, id := range memberIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			parts = append(parts, models.ChatParticipant{ChatRoomID: room.ID, UserID: id})
		}
		return tx.Create(&parts).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UnreadInfo reports how many messages in the room were authored by others
// after the caller's watermark.
type UnreadInfo struct {
	Count      int64      `json:"count"`
	LastSeenAt *time.Time `json:"last_seen_at"`
}

// Unread computes the unread count for an already-verified participant row.
// The epoch stands in for a never-set watermark.
func (s *ChatService) Unread(p *models.ChatParticipant) (*UnreadInfo, error) {
	since := time.Time{}
	if p.LastSeenAt != nil {
		since = *p.LastSeenAt
	}
	var count int64
	err := s.db.Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND sender_id <> ? AND created_at > ?", p.ChatRoomID, p.UserID, since).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	return &UnreadInfo{Count: count, LastSeenAt: p.LastSeenAt}, nil
}

// RoomDTO is a room plus the caller's unread info.
type RoomDTO struct {
	models.ChatRoom
	Unread UnreadInfo `json:"unread_info"`
}

// ListRooms returns the rooms the user is a current member of, with unread
// counts.
func (s *ChatService) ListRooms(userID uint) ([]RoomDTO, error) {
	var parts []models.ChatParticipant
	if err := s.db.Where("user_id = ? AND has_left = ?", userID, false).Find(&parts).Error; err != nil {
		return nil, err
	}
	out := make([]RoomDTO, 0, len(parts))
	for i := range parts {
		var room models.ChatRoom
		if err := s.db.First(&room, parts[i].ChatRoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		unread, err := s.Unread(&parts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, RoomDTO{ChatRoom: room, Unread: *unread})
	}
	return out, nil
}

// ParticipantDTO is a member's public identity plus room-level flags.
type ParticipantDTO struct {
	models.PublicUser
	IsAdmin    bool       `json:"is_admin"`
	LastSeenAt *time.Time `json:"last_seen_at"`
}

// Participants lists current members of a room, admins first then
// case-insensitive alphabetical by display name. Non-members get
// ErrNotParticipant.
func (s *ChatService) Participants(roomID, userID uint) ([]ParticipantDTO, error) {
	if _, err := s.participant(roomID, userID); err != nil {
		return nil, err
	}
	var parts []models.ChatParticipant
	if err := s.db.Preload("User").Where("chat_room_id = ? AND has_left = ?", roomID, false).Find(&parts).Error; err != nil {
		return nil, err
	}
	out := make([]ParticipantDTO, 0, len(parts))
	for _, p := range parts {
		out = append(out, ParticipantDTO{PublicUser: p.User.Public(), IsAdmin: p.IsAdmin, LastSeenAt: p.LastSeenAt})
	}
	SortParticipants(out)
	return out, nil
}

// SortParticipants orders admins first, then alphabetically by display name,
// case-insensitive.
func SortParticipants(parts []ParticipantDTO) {
	sort.SliceStable(parts, func(i, j int) bool {
		if parts[i].IsAdmin != parts[j].IsAdmin {
			return parts[i].IsAdmin
		}
		return strings.ToLower(displayName(parts[i])) < strings.ToLower(displayName(parts[j]))
	})
}

func displayName(p ParticipantDTO) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

// MessageDTO is the wire shape for a chat message. Deleted messages keep
// their row but carry no content.
type MessageDTO struct {
	ID          uint               `json:"id"`
	ChatRoomID  uint               `json:"chat_room_id"`
	Sender      models.PublicUser  `json:"sender"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
	IsEdited    bool               `json:"is_edited"`
	IsDeleted   bool               `json:"is_deleted"`
	CreatedAt   time.Time          `json:"created_at"`
}

func messageDTO(m models.ChatMessage, sender models.PublicUser) MessageDTO {
	content := m.Content
	if m.IsDeleted {
		content = ""
	}
	return MessageDTO{
		ID:          m.ID,
		ChatRoomID:  m.ChatRoomID,
		Sender:      sender,
		Content:     content,
		MessageType: m.MessageType,
		IsEdited:    m.IsEdited,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt,
	}
}

// SendMessage persists a message from a current participant and pushes it to
// connected websocket clients.
func (s *ChatService) SendMessage(roomID, senderID uint, content string, msgType models.MessageType) (*MessageDTO, error) {
	if _, err := s.participant(roomID, senderID); err != nil {
		return nil, err
	}
	if msgType == "" {
		msgType = models.MessageText
	}
	msg := models.ChatMessage{ChatRoomID: roomID, SenderID: senderID, Content: content, MessageType: msgType}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	var sender models.User
	if err := s.db.First(&sender, senderID).Error; err != nil {
		return nil, err
	}
	dto := messageDTO(msg, sender.Public())
	metrics.ChatMessagesTotal.Inc()
	if s.hub != nil {
		if b, err := json.Marshal(map[string]interface{}{"type": "message", "message": dto}); err == nil {
			s.hub.Broadcast(roomID, b)
		}
	}
	return &dto, nil
}

// EditMessage updates the caller's own message content and marks it edited.
func (s *ChatService) EditMessage(messageID, userID uint, content string) error {
	var msg models.ChatMessage
	if err := s.db.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != userID || msg.IsDeleted {
		return ErrMessageNotFound
	}
	return s.db.Model(&models.ChatMessage{}).Where("id = ?", messageID).
		Updates(map[string]interface{}{"content": content, "is_edited": true}).Error
}

// DeleteMessage soft-deletes the caller's own message.
func (s *ChatService) DeleteMessage(messageID, userID uint) error {
	var msg models.ChatMessage
	if err := s.db.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != userID {
		return ErrMessageNotFound
	}
	return s.db.Model(&models.ChatMessage{}).Where("id = ?", messageID).Update("is_deleted", true).Error
}

// MessagePage is one page of messages plus the caller's unread info.
type MessagePage struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor uint         `json:"next_cursor,omitempty"`
	Unread     UnreadInfo   `json:"unread_info"`
}

// ListMessages fetches a cursor-paginated page (beforeID opaque cursor, 0 for
// latest), returned ascending, with unread info alongside. Polling this
// endpoint is the primary near-real-time mechanism.
func (s *ChatService) ListMessages(roomID, userID uint, limit int, beforeID uint) (*MessagePage, error) {
	p, err := s.participant(roomID, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := s.db.Where("chat_room_id = ?", roomID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var msgs []models.ChatMessage
	if err := q.Order("id desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	senders, err := s.resolveSenders(msgs)
	if err != nil {
		return nil, err
	}
	page := MessagePage{Messages: make([]MessageDTO, 0, len(msgs))}
	for _, m := range msgs {
		page.Messages = append(page.Messages, messageDTO(m, senders[m.SenderID]))
	}
	if len(msgs) == limit {
		page.NextCursor = msgs[0].ID
	}
	unread, err := s.Unread(p)
	if err != nil {
		return nil, err
	}
	page.Unread = *unread
	return &page, nil
}

func (s *ChatService) resolveSenders(msgs []models.ChatMessage) (map[uint]models.PublicUser, error) {
	seen := make(map[uint]struct{}, len(msgs))
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		ids = append(ids, m.SenderID)
	}
	out := make(map[uint]models.PublicUser, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.Select("id", "username", "name", "image_url").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			out[u.ID] = u.Public()
		}
	}
	return out, nil
}

// MarkRead advances the caller's watermark to now. A non-participant is
// rejected rather than silently ignored.
func (s *ChatService) MarkRead(roomID, userID uint) error {
	p, err := s.participant(roomID, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.Model(&models.ChatParticipant{}).Where("id = ?", p.ID).Update("last_seen_at", &now).Error
}

// IsParticipant reports whether userID is a current member of roomID. Used by
// the websocket endpoint to gate upgrades.
func (s *ChatService) IsParticipant(roomID, userID uint) bool {
	_, err := s.participant(roomID, userID)
	return err == nil
}
