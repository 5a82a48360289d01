package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type PaymentRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPaymentRepositoryAdapter(db *sqlx.DB) *PaymentRepositoryAdapter {
	return &PaymentRepositoryAdapter{db: db}
}

const paymentColumns = `
	pm.id, pm.project_id, pm.student_id, pm.developer_id, pm.amount, pm.commission_amount, pm.net_amount,
	pm.payment_method, pm.payment_type, pm.milestone_percentage, pm.gateway_order_id,
	pm.gateway_payment_id, pm.gateway_signature, pm.status, pm.created_at, pm.updated_at
`

const paymentSelect = `SELECT ` + paymentColumns + `, COALESCE(p.title, '') AS project_title
	FROM payments pm
	LEFT JOIN projects p ON p.id = pm.project_id
`

func (r *PaymentRepositoryAdapter) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (project_id, student_id, developer_id, amount, commission_amount, net_amount,
		payment_method, payment_type, milestone_percentage, gateway_order_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		payment.ProjectID, payment.StudentID, payment.DeveloperID, payment.Amount,
		payment.CommissionAmount, payment.NetAmount, payment.PaymentMethod,
		string(payment.PaymentType), payment.MilestonePercentage, payment.GatewayOrderID,
		string(payment.Status), payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return apperror.Database(err, "не удалось создать платёж")
	}
	return nil
}

func (r *PaymentRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	return r.findOne(ctx, r.db, paymentSelect+` WHERE pm.id = $1`, id)
}

func (r *PaymentRepositoryAdapter) FindByProject(ctx context.Context, projectID int64, status *valueobject.PaymentStatus) ([]*entity.Payment, error) {
	var w whereBuilder
	w.add("pm.project_id = ?", projectID)
	if status != nil {
		w.add("pm.status = ?", string(*status))
	}
	return r.findMany(ctx, paymentSelect+w.String()+` ORDER BY pm.created_at DESC, pm.id DESC`, w.args...)
}

func (r *PaymentRepositoryAdapter) FindByUser(ctx context.Context, userID int64, role valueobject.Role) ([]*entity.Payment, error) {
	column := "pm.student_id"
	if role == valueobject.RoleDeveloper {
		column = "pm.developer_id"
	}
	return r.findMany(ctx, paymentSelect+` WHERE `+column+` = $1 ORDER BY pm.created_at DESC, pm.id DESC`, userID)
}

// Confirm завершает платёж в одной транзакции. Строка проекта блокируется,
// чтобы параллельные подтверждения видели завершённые платежи друг друга.
func (r *PaymentRepositoryAdapter) Confirm(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*entity.Payment, bool, error) {
	var (
		confirmed        *entity.Payment
		alreadyCompleted bool
	)
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		payment, err := r.findOne(ctx, tx, paymentSelect+` WHERE pm.gateway_order_id = $1 FOR UPDATE OF pm`, gatewayOrderID)
		if err != nil {
			return err
		}
		if payment.IsCompleted() {
			confirmed, alreadyCompleted = payment, true
			return nil
		}

		var price decimal.NullDecimal
		err = tx.GetContext(ctx, &price, `
			SELECT pr.price FROM projects p
			LEFT JOIN proposals pr ON pr.id = p.accepted_proposal_id
			WHERE p.id = $1
			FOR UPDATE OF p
		`, payment.ProjectID)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrProjectNotFound
			}
			return apperror.Database(err, "не удалось заблокировать проект")
		}
		if !price.Valid {
			return apperror.ErrNoAcceptedProposal
		}

		var completed []paymentRow
		err = tx.SelectContext(ctx, &completed, `SELECT `+paymentColumns+`, '' AS project_title
			FROM payments pm WHERE pm.project_id = $1 AND pm.status = 'completed'`, payment.ProjectID)
		if err != nil {
			return apperror.Database(err, "не удалось получить платежи проекта")
		}
		if err := entity.CheckConfirmable(price.Decimal, toPayments(completed), payment); err != nil {
			return err
		}

		if err := payment.Complete(gatewayPaymentID, signature); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE payments SET status = $2, gateway_payment_id = $3, gateway_signature = $4, updated_at = $5
			WHERE id = $1
		`, payment.ID, string(payment.Status), payment.GatewayPaymentID, payment.GatewaySignature, payment.UpdatedAt)
		if err != nil {
			return apperror.Database(err, "не удалось подтвердить платёж")
		}

		if payment.PaymentType == valueobject.PaymentTypeMilestone {
			_, err = tx.ExecContext(ctx,
				`UPDATE projects SET progress_percentage = $2, updated_at = NOW() WHERE id = $1`,
				payment.ProjectID, payment.MilestonePercentage,
			)
			if err != nil {
				return apperror.Database(err, "не удалось обновить прогресс проекта")
			}
		}

		confirmed = payment
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return confirmed, alreadyCompleted, nil
}

func (r *PaymentRepositoryAdapter) Refund(ctx context.Context, id int64) (*entity.Payment, error) {
	var refunded *entity.Payment
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		payment, err := r.findOne(ctx, tx, paymentSelect+` WHERE pm.id = $1 FOR UPDATE OF pm`, id)
		if err != nil {
			return err
		}
		if err := payment.Refund(); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`,
			payment.ID, string(payment.Status), payment.UpdatedAt,
		)
		if err != nil {
			return apperror.Database(err, "не удалось оформить возврат")
		}
		refunded = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

func (r *PaymentRepositoryAdapter) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, int, error) {
	filter = filter.Normalize()

	var w whereBuilder
	if filter.Status != nil {
		w.add("pm.status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		w.add("pm.payment_type = ?", string(*filter.Type))
	}
	if filter.ProjectID != nil {
		w.add("pm.project_id = ?", *filter.ProjectID)
	}

	where := w.String()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments pm`+where, w.args...); err != nil {
		return nil, 0, apperror.Database(err, "не удалось посчитать платежи")
	}

	tail, args := w.page(filter.Limit, filter.Offset())
	payments, err := r.findMany(ctx, paymentSelect+where+` ORDER BY pm.created_at DESC, pm.id DESC`+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *PaymentRepositoryAdapter) findOne(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*entity.Payment, error) {
	var row paymentRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrPaymentNotFound
		}
		return nil, apperror.Database(err, "не удалось получить платёж")
	}
	return row.toEntity(), nil
}

func (r *PaymentRepositoryAdapter) findMany(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	var rows []paymentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Database(err, "не удалось получить платежи")
	}
	return toPayments(rows), nil
}

func toPayments(rows []paymentRow) []*entity.Payment {
	result := make([]*entity.Payment, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

type paymentRow struct {
	ID                  int64           `db:"id"`
	ProjectID           int64           `db:"project_id"`
	StudentID           int64           `db:"student_id"`
	DeveloperID         int64           `db:"developer_id"`
	Amount              decimal.Decimal `db:"amount"`
	CommissionAmount    decimal.Decimal `db:"commission_amount"`
	NetAmount           decimal.Decimal `db:"net_amount"`
	PaymentMethod       string          `db:"payment_method"`
	PaymentType         string          `db:"payment_type"`
	MilestonePercentage int             `db:"milestone_percentage"`
	GatewayOrderID      string          `db:"gateway_order_id"`
	GatewayPaymentID    *string         `db:"gateway_payment_id"`
	GatewaySignature    *string         `db:"gateway_signature"`
	Status              string          `db:"status"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
	ProjectTitle        string          `db:"project_title"`
}

func (p *paymentRow) toEntity() *entity.Payment {
	return &entity.Payment{
		ID:                  p.ID,
		ProjectID:           p.ProjectID,
		StudentID:           p.StudentID,
		DeveloperID:         p.DeveloperID,
		Amount:              p.Amount,
		CommissionAmount:    p.CommissionAmount,
		NetAmount:           p.NetAmount,
		PaymentMethod:       p.PaymentMethod,
		PaymentType:         valueobject.PaymentType(p.PaymentType),
		MilestonePercentage: p.MilestonePercentage,
		GatewayOrderID:      p.GatewayOrderID,
		GatewayPaymentID:    p.GatewayPaymentID,
		GatewaySignature:    p.GatewaySignature,
		Status:              valueobject.PaymentStatus(p.Status),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		ProjectTitle:        p.ProjectTitle,
	}
}
