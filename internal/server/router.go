package server

import (
	"net/http"
	"time"

	"technestia/internal/auth"
	"technestia/internal/config"
	"technestia/internal/metrics"
	"technestia/internal/mw"
	"technestia/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter wires middleware, the REST surface, and the websocket endpoint.
func SetupRouter(cfg config.Config, db *gorm.DB, hub *ws.Hub, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.RefreshToken)

	// Public surface.
	api.GET("/profile/:username", h.GetProfile)
	api.GET("/search/users", h.SearchUsers)
	api.GET("/project/all", h.ListPublicProjects)
	api.GET("/project/feedback/get-all/:projectId", h.ListFeedback)
	api.GET("/project/feedback-reaction/get-all/:feedbackId", h.ListReactions)

	// Project detail allows anonymous viewers for public projects.
	api.GET("/project/get/:projectId", auth.Optional(cfg, db), h.GetProject)

	authed := api.Group("")
	authed.Use(auth.Middleware(cfg, db))

	authed.PUT("/profile/update", h.UpdateProfile)
	authed.PUT("/profile/update/username", h.UpdateUsername)
	authed.PUT("/profile/set-password", h.SetPassword)
	authed.PUT("/profile/image", h.UploadImage)
	authed.DELETE("/profile/delete", h.DeleteAccount)

	authed.POST("/project/create", h.CreateProject)
	authed.GET("/project/my", h.ListMyProjects)
	authed.DELETE("/project/delete/:projectId", h.DeleteProject)

	authed.POST("/project/invite/:projectId", h.InviteCollaborator)
	authed.POST("/project/request-join/:projectId", h.RequestJoin)
	authed.PATCH("/project/join-invite/:projectId", h.AcceptInvite)
	authed.PATCH("/project/decline-invite/:projectId", h.DeclineInvite)
	authed.DELETE("/project/remove-collaborator/:projectId", h.RemoveCollaborator)
	authed.GET("/project/collaborators/:projectId", h.ListCollaborators)
	authed.GET("/project/pending-invites/:projectId", h.ListPendingInvites)

	authed.POST("/project/feedback/create/:projectId", h.CreateFeedback)
	authed.POST("/project/feedback-reaction/add/:feedbackId", h.AddReaction)
	authed.DELETE("/project/feedback-reaction/remove/:feedbackId", h.RemoveReaction)

	authed.POST("/chat/create-direct", h.CreateDirectRoom)
	authed.POST("/chat/create-group", h.CreateGroupRoom)
	authed.GET("/chat/rooms", h.ListRooms)
	authed.GET("/chat/participants/fetch/:chatroomId", h.FetchParticipants)
	authed.POST("/chat/messages/send/:chatroomId", h.SendMessage)
	authed.GET("/chat/messages/fetch/:chatroomId", h.FetchMessages)
	authed.PATCH("/chat/messages/edit/:messageId", h.EditMessage)
	authed.DELETE("/chat/messages/delete/:messageId", h.DeleteMessage)
	authed.PATCH("/chat/mark-read/:chatroomId", h.MarkRead)

	authed.GET("/activity/:projectId", h.ListProjectActivity)

	r.GET("/ws", ws.Serve(hub, db, cfg))

	return r
}
