package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectIdea       ProjectStatus = "IDEA"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
)

type CollabStatus string

const (
	CollabPending  CollabStatus = "PENDING"
	CollabAccepted CollabStatus = "ACCEPTED"
	CollabRejected CollabStatus = "REJECTED"
)

type AccessLevel string

const (
	AccessRead AccessLevel = "READ"
	AccessEdit AccessLevel = "EDIT"
	AccessFull AccessLevel = "FULL"
)

type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
	MessageFile  MessageType = "FILE"
	MessageLink  MessageType = "LINK"
)

// ActivityLog action types written as side effects of mutating operations.
const (
	ActionDeleteProject      = "DELETE_PROJECT"
	ActionApproveCollab      = "APPROVE_COLLABORATION"
	ActionRejectCollab       = "REJECT_COLLABORATION"
	ActionRemoveCollaborator = "REMOVE_COLLABORATOR"
)

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Username          string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email             string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name              string         `gorm:"size:128" json:"name"`
	Bio               string         `gorm:"type:text" json:"bio"`
	Links             datatypes.JSON `json:"links"`
	ImageURL          string         `gorm:"size:512" json:"image_url"`
	ImagePublicID     string         `gorm:"size:128" json:"-"`
	AchievementPoints int            `gorm:"not null;default:0;index" json:"achievement_points"`
	IsVerified        bool           `gorm:"not null;default:false" json:"is_verified"`
	PasswordHash      *string        `gorm:"size:128" json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PublicUser is the identity shape exposed on unauthenticated surfaces.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Name: u.Name, ImageURL: u.ImageURL}
}

type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ProjectStatus  `gorm:"size:16;not null;default:'IDEA'" json:"status"`
	IsPublic    bool           `gorm:"not null;default:true" json:"is_public"`
	TechStack   datatypes.JSON `json:"tech_stack"`
	Tags        datatypes.JSON `json:"tags"`
	Screenshots datatypes.JSON `json:"screenshots"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Owner          User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Collaborations []Collaboration `gorm:"foreignKey:ProjectID" json:"collaborations,omitempty"`
}

// Collaboration links a user to a project. InvitedBy nil means the row is a
// join request from the user; non-nil means an invite sent to the user.
type Collaboration struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"not null;index:idx_collab_user_project" json:"user_id"`
	ProjectID     uint         `gorm:"not null;index:idx_collab_user_project" json:"project_id"`
	Status        CollabStatus `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	InvitedBy     *uint        `json:"invited_by"`
	AccessLevel   AccessLevel  `gorm:"size:16;not null;default:'READ'" json:"access_level"`
	LastUpdatedAt time.Time    `json:"last_updated_at"`
	CreatedAt     time.Time    `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []FeedbackReaction `gorm:"foreignKey:FeedbackID" json:"reactions,omitempty"`
}

type FeedbackReaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FeedbackID uint      `gorm:"not null;index:idx_reaction_feedback_user" json:"feedback_id"`
	UserID     uint      `gorm:"not null;index:idx_reaction_feedback_user" json:"user_id"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128" json:"name"`
	IsGroup   bool      `gorm:"not null;default:false" json:"is_group"`
	ProjectID *uint     `gorm:"index" json:"project_id"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatParticipant carries the per-member unread watermark (LastSeenAt).
type ChatParticipant struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ChatRoomID uint       `gorm:"not null;index:idx_participant_room_user" json:"chat_room_id"`
	UserID     uint       `gorm:"not null;index:idx_participant_room_user" json:"user_id"`
	IsAdmin    bool       `gorm:"not null;default:false" json:"is_admin"`
	HasLeft    bool       `gorm:"not null;default:false" json:"has_left"`
	LastSeenAt *time.Time `json:"last_seen_at"`
	JoinedAt   time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatMessage struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ChatRoomID  uint        `gorm:"index:idx_msg_room;not null" json:"chat_room_id"`
	SenderID    uint        `gorm:"index;not null" json:"sender_id"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"size:16;not null;default:'TEXT'" json:"message_type"`
	IsEdited    bool        `gorm:"not null;default:false" json:"is_edited"`
	IsDeleted   bool        `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Sender User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}

// ActivityLog rows are append-only; nothing in the application updates or
// deletes them.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	ActionType  string    `gorm:"size:64;not null" json:"action_type"`
	Description string    `gorm:"type:text" json:"description"`
	TargetID    uint      `json:"target_id"`
	TargetType  string    `gorm:"size:32" json:"target_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
