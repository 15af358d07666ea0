package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Worker consumes notification tasks and delivers them via the Mailer.
type Worker struct {
	mailer Mailer
}

func NewWorker(mailer Mailer) *Worker {
	return &Worker{mailer: mailer}
}

// Mux returns the asynq handler mux with every notification type registered.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInviteEmail, w.handleInvite)
	mux.HandleFunc(TypeFeedbackEmail, w.handleFeedback)
	return mux
}

func (w *Worker) handleInvite(ctx context.Context, t *asynq.Task) error {
	var p InviteEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invite payload: %w", err)
	}
	subject := fmt.Sprintf("%s invited you to collaborate on %q", p.InviterName, p.ProjectTitle)
	body := fmt.Sprintf("%s invited you to collaborate on the project %q.\n\nOpen Technestia to accept or decline the invite.\n", p.InviterName, p.ProjectTitle)
	if err := w.mailer.Send(p.To, subject, body); err != nil {
		return err
	}
	log.Info().Str("to", p.To).Msg("invite email delivered")
	return nil
}

func (w *Worker) handleFeedback(ctx context.Context, t *asynq.Task) error {
	var p FeedbackEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("feedback payload: %w", err)
	}
	subject := fmt.Sprintf("New feedback on %q", p.ProjectTitle)
	body := fmt.Sprintf("%s left feedback on your project %q.\n", p.AuthorName, p.ProjectTitle)
	if err := w.mailer.Send(p.To, subject, body); err != nil {
		return err
	}
	log.Info().Str("to", p.To).Msg("feedback email delivered")
	return nil
}
