// AngelaMos | 2026
// repository.go

package calculation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fl1capital/liquidation-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, calc *Calculation) error
	CountByUserAndType(ctx context.Context, userID, typ string) (int, error)
	ListByUserAndType(
		ctx context.Context,
		userID, typ string,
		limit int,
	) ([]Calculation, error)
	UpdateTitle(ctx context.Context, id, title string) (*Calculation, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, calc *Calculation) error {
	query := `
		INSERT INTO calculations (id, user_id, type, title, input_data,
		                          result_data, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, calc, query,
		calc.ID,
		calc.UserID,
		calc.Type,
		calc.Title,
		calc.InputData,
		calc.ResultData,
		calc.Status,
		calc.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("create calculation: %w", err)
	}

	return nil
}

func (r *repository) CountByUserAndType(
	ctx context.Context,
	userID, typ string,
) (int, error) {
	query := `
		SELECT COUNT(*) FROM calculations
		WHERE user_id = $1 AND type = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, typ); err != nil {
		return 0, fmt.Errorf("count calculations: %w", err)
	}

	return count, nil
}

func (r *repository) ListByUserAndType(
	ctx context.Context,
	userID, typ string,
	limit int,
) ([]Calculation, error) {
	query := `
		SELECT id, user_id, type, title, input_data, result_data,
		       status, error_message, created_at, updated_at
		FROM calculations
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3`

	var calcs []Calculation
	err := r.db.SelectContext(ctx, &calcs, query, userID, typ, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}

	return calcs, nil
}

func (r *repository) UpdateTitle(
	ctx context.Context,
	id, title string,
) (*Calculation, error) {
	query := `
		UPDATE calculations
		SET title = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, type, title, input_data, result_data,
		          status, error_message, created_at, updated_at`

	var calc Calculation
	err := r.db.GetContext(ctx, &calc, query, id, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update title: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}

	return &calc, nil
}

func (r *repository) DeleteAllByUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	query := `DELETE FROM calculations WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete calculations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete calculations: %w", err)
	}

	return rows, nil
}
