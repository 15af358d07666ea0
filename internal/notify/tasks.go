package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq queue.
const (
	TypeInviteEmail   = "notify:invite"
	TypeFeedbackEmail = "notify:feedback"
)

type InviteEmailPayload struct {
	To           string `json:"to"`
	InviterName  string `json:"inviter_name"`
	ProjectTitle string `json:"project_title"`
}

type FeedbackEmailPayload struct {
	To           string `json:"to"`
	AuthorName   string `json:"author_name"`
	ProjectTitle string `json:"project_title"`
}

func NewInviteEmailTask(p InviteEmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInviteEmail, b), nil
}

func NewFeedbackEmailTask(p FeedbackEmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFeedbackEmail, b), nil
}
