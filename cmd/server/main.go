package main

import (
	"technestia/internal/config"
	"technestia/internal/db"
	clog "technestia/internal/log"
	"technestia/internal/notify"
	"technestia/internal/server"
	"technestia/internal/service"
	"technestia/internal/upload"
	"technestia/internal/ws"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	notifier := notify.NewClient(cfg.RedisAddr)
	defer notifier.Close()

	hub := ws.NewHub()
	userSvc := service.NewUserService(gdb, cfg, rdb)
	projectSvc := service.NewProjectService(gdb)
	collabSvc := service.NewCollabService(gdb, notifier)
	feedbackSvc := service.NewFeedbackService(gdb, notifier)
	chatSvc := service.NewChatService(gdb, hub)
	activitySvc := service.NewActivityService(gdb)

	h := server.NewHandler(cfg, userSvc, projectSvc, collabSvc, feedbackSvc, chatSvc, activitySvc, upload.DiscardUploader{})
	r := server.SetupRouter(cfg, gdb, hub, h)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
