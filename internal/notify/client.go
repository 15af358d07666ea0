package notify

import (
	"context"

	"technestia/internal/metrics"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Client enqueues notification tasks. It satisfies service.Notifier.
type Client struct {
	asynq *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{asynq: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (c *Client) Close() error { return c.asynq.Close() }

func (c *Client) InviteCreated(ctx context.Context, inviteeEmail, inviterName, projectTitle string) error {
	task, err := NewInviteEmailTask(InviteEmailPayload{To: inviteeEmail, InviterName: inviterName, ProjectTitle: projectTitle})
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) FeedbackCreated(ctx context.Context, ownerEmail, authorName, projectTitle string) error {
	task, err := NewFeedbackEmailTask(FeedbackEmailPayload{To: ownerEmail, AuthorName: authorName, ProjectTitle: projectTitle})
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.asynq.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return err
	}
	metrics.NotificationsEnqueued.Inc()
	log.Debug().Str("task_id", info.ID).Str("type", task.Type()).Msg("notification enqueued")
	return nil
}
