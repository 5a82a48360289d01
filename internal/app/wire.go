package app

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/http/middleware"
	"github.com/ignatzorin/projexhub-backend/internal/http/router"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/handler"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/dispute"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/project"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/proposal"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/review"
	"github.com/ignatzorin/projexhub-backend/internal/ws"
)

type Repositories struct {
	Projects      repository.ProjectRepository
	Proposals     repository.ProposalRepository
	Payments      repository.PaymentRepository
	Progress      repository.ProgressRepository
	Disputes      repository.DisputeRepository
	Reviews       repository.ReviewRepository
	Notifications repository.NotificationRepository
}

// Deps — всё, что нужно для сборки HTTP-слоя.
type Deps struct {
	Repos          Repositories
	Gateway        repository.PaymentGateway
	Locker         repository.Locker
	Notifier       repository.Notifier
	NotifyTimeout  time.Duration
	Payments       payment.Settings
	SheetWriter    payment.PaymentSheetWriter
	Tokens         middleware.TokenParser
	Hub            *ws.Hub
	AllowedOrigins []string
	HealthChecks   map[string]handler.Pinger
}

// BuildHandlers собирает use cases и хэндлеры поверх переданных зависимостей.
func BuildHandlers(d Deps) router.Handlers {
	r := d.Repos
	emitter := notification.NewEmitter(d.Notifier, d.NotifyTimeout)

	h := router.Handlers{
		Project: handler.NewProjectHandler(
			project.NewCreateProjectUseCase(r.Projects),
			project.NewGetProjectUseCase(r.Projects),
			project.NewListProjectsUseCase(r.Projects),
			project.NewListMyProjectsUseCase(r.Projects),
			project.NewUpdateProjectUseCase(r.Projects),
			project.NewUpdateProjectStatusUseCase(r.Projects),
			project.NewDeleteProjectUseCase(r.Projects),
			project.NewReportProgressUseCase(r.Projects, r.Progress, emitter),
			project.NewGetProgressTrackingUseCase(r.Projects, r.Progress),
		),
		Proposal: handler.NewProposalHandler(
			proposal.NewSubmitProposalUseCase(r.Proposals, r.Projects, emitter),
			proposal.NewAcceptProposalUseCase(r.Proposals, r.Projects, emitter),
			proposal.NewRejectProposalUseCase(r.Proposals, r.Projects),
			proposal.NewGetProposalUseCase(r.Proposals, r.Projects),
			proposal.NewListProjectProposalsUseCase(r.Proposals, r.Projects),
			proposal.NewListMyProposalsUseCase(r.Proposals),
		),
		Payment: handler.NewPaymentHandler(
			payment.NewQuoteUseCase(r.Projects, r.Payments, d.Payments),
			payment.NewCreateOrderUseCase(r.Projects, r.Payments, d.Gateway, d.Locker, d.Payments),
			payment.NewConfirmPaymentUseCase(r.Payments, d.Gateway, emitter),
			payment.NewPaymentHistoryUseCase(r.Payments),
			payment.NewEarningsUseCase(r.Payments),
		),
		Dispute: handler.NewDisputeHandler(
			dispute.NewRaiseDisputeUseCase(r.Disputes, r.Projects, emitter),
			dispute.NewGetDisputeUseCase(r.Disputes, r.Projects),
			dispute.NewListProjectDisputesUseCase(r.Disputes, r.Projects),
		),
		Review: handler.NewReviewHandler(
			review.NewSubmitReviewUseCase(r.Reviews, r.Projects, emitter),
			review.NewListUserReviewsUseCase(r.Reviews),
			review.NewListProjectReviewsUseCase(r.Reviews, r.Projects),
		),
		Notification: handler.NewNotificationHandler(
			notification.NewListNotificationsUseCase(r.Notifications),
			notification.NewMarkNotificationReadUseCase(r.Notifications),
		),
		Admin: handler.NewAdminHandler(
			payment.NewListPaymentsUseCase(r.Payments),
			payment.NewGetPaymentDetailsUseCase(r.Payments),
			payment.NewRefundPaymentUseCase(r.Payments),
			payment.NewExportPaymentsUseCase(r.Payments, d.SheetWriter),
			dispute.NewListDisputesUseCase(r.Disputes),
			dispute.NewGetDisputeUseCase(r.Disputes, r.Projects),
			dispute.NewResolveDisputeUseCase(r.Disputes, r.Projects, emitter),
		),
		Health: handler.NewHealthHandler(d.HealthChecks),
	}
	if d.Hub != nil {
		h.WS = handler.NewWSHandler(d.Hub, d.Tokens, d.AllowedOrigins)
	}
	return h
}
