package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/config"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/http/middleware"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/handler"
)

// Handlers — набор HTTP-хэндлеров приложения.
type Handlers struct {
	Project      *handler.ProjectHandler
	Proposal     *handler.ProposalHandler
	Payment      *handler.PaymentHandler
	Dispute      *handler.DisputeHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
	WS           *handler.WSHandler
	Health       *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}

	api := r.Group("/api")
	limit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	id := middleware.IDParam("id")

	// Публичные маршруты
	api.GET("/projects", h.Project.ListProjects)
	api.GET("/projects/:id", id, h.Project.GetProject)
	api.GET("/projects/:id/reviews", id, h.Review.ListProjectReviews)
	api.GET("/users/:id/reviews", id, h.Review.ListUserReviews)
	if h.WS != nil {
		api.GET("/ws", h.WS.Handle)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.POST("/projects", limit, h.Project.CreateProject)
		protected.GET("/projects/my", h.Project.ListMyProjects)
		protected.PUT("/projects/:id", id, limit, h.Project.UpdateProject)
		protected.DELETE("/projects/:id", id, limit, h.Project.DeleteProject)
		protected.PATCH("/projects/:id/status", id, limit, h.Project.UpdateProjectStatus)
		protected.PUT("/projects/:id/progress", id, limit, h.Project.ReportProgress)
		protected.GET("/projects/:id/progress", id, h.Project.GetProgressTracking)

		protected.POST("/projects/:id/proposals", id, limit, h.Proposal.CreateProposal)
		protected.GET("/projects/:id/proposals", id, h.Proposal.ListProposals)
		protected.GET("/proposals/my", h.Proposal.ListMyProposals)
		protected.GET("/proposals/:id", id, h.Proposal.GetProposal)
		protected.POST("/proposals/:id/accept", id, limit, h.Proposal.AcceptProposal)
		protected.POST("/proposals/:id/reject", id, limit, h.Proposal.RejectProposal)

		protected.GET("/projects/:id/payments/quote", id, h.Payment.GetQuote)
		protected.POST("/projects/:id/payments/order", id, limit, h.Payment.CreateOrder)
		protected.POST("/payments/verify", limit, h.Payment.VerifyPayment)
		protected.GET("/payments/history", h.Payment.History)
		protected.GET("/payments/earnings", h.Payment.Earnings)

		protected.POST("/projects/:id/disputes", id, limit, h.Dispute.RaiseDispute)
		protected.GET("/projects/:id/disputes", id, h.Dispute.ListProjectDisputes)
		protected.GET("/disputes/:id", id, h.Dispute.GetDispute)

		protected.POST("/projects/:id/reviews", id, limit, h.Review.SubmitReview)

		protected.GET("/notifications", h.Notification.ListNotifications)
		protected.PATCH("/notifications/:id/read", id, h.Notification.MarkAsRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(valueobject.RoleAdmin))
	{
		admin.GET("/payments", h.Admin.ListPayments)
		admin.GET("/payments/export", h.Admin.ExportPayments)
		admin.GET("/payments/:id", id, h.Admin.GetPayment)
		admin.POST("/payments/:id/refund", id, h.Admin.RefundPayment)
		admin.GET("/disputes", h.Admin.ListDisputes)
		admin.GET("/disputes/:id", id, h.Admin.GetDispute)
		admin.POST("/disputes/:id/resolve", id, h.Admin.ResolveDispute)
	}

	return r
}
