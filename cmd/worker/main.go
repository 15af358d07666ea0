package main

import (
	"technestia/internal/config"
	clog "technestia/internal/log"
	"technestia/internal/notify"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// The worker consumes notification tasks the API server enqueues. Email
// delivery failures are retried by asynq and never reach the original
// request.
func main() {
	cfg := config.Load()
	clog.Init(cfg.Env)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{Concurrency: 5},
	)
	worker := notify.NewWorker(&notify.SMTPMailer{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom})
	if err := srv.Run(worker.Mux()); err != nil {
		log.Fatal().Err(err).Msg("worker run")
	}
}
