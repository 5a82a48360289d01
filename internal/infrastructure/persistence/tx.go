package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// withTransaction выполняет fn в транзакции. Ошибка fn возвращается как есть,
// чтобы доменные sentinel-ошибки доходили до use case'ов.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Database(err, "не удалось начать транзакцию")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Database(err, "не удалось зафиксировать транзакцию")
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// whereBuilder собирает условия WHERE с позиционными параметрами Postgres.
// Каждый "?" в условии заменяется номером только что добавленного аргумента.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

// placeholder добавляет аргумент без условия, например для LIMIT.
func (w *whereBuilder) placeholder(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page возвращает хвост запроса с LIMIT/OFFSET и полный список аргументов.
func (w *whereBuilder) page(limit, offset int) (string, []any) {
	limitArg := w.placeholder(limit)
	offsetArg := w.placeholder(offset)
	return fmt.Sprintf(" LIMIT %s OFFSET %s", limitArg, offsetArg), w.args
}

func rowsAffected(res sql.Result, message string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperror.Database(err, message)
	}
	return n, nil
}
