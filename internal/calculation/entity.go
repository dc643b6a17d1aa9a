// AngelaMos | 2026
// entity.go

package calculation

import (
	"time"
)

// Calculation is an immutable snapshot of one computation: the request that
// produced it and the result it returned. Only the title mutates afterward.
type Calculation struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Type         string    `db:"type"`
	Title        string    `db:"title"`
	InputData    string    `db:"input_data"`
	ResultData   string    `db:"result_data"`
	Status       string    `db:"status"`
	ErrorMessage *string   `db:"error_message"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const (
	TypeLiquidationTarget = "liquidation-target"

	StatusCompleted = "completed"
	StatusError     = "error"
)

const (
	DefaultHistoryLimit = 20
	CompactHistoryLimit = 10
	MaxHistoryLimit     = 100
)
