// AngelaMos | 2026
// dto.go

package calculation

import (
	"time"
)

type CreateRequest struct {
	UserID    string `json:"userId"    validate:"required"`
	InputData Input  `json:"inputData" validate:"required"`
}

type CreateResponse struct {
	CalculationID string `json:"calculationId"`
	Result        Result `json:"result"`
}

type HistoryEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	InputData    Input     `json:"inputData"`
	ResultData   Result    `json:"resultData"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	Calculations []HistoryEntry `json:"calculations"`
}

type UpdateTitleRequest struct {
	ID    string `json:"id"    validate:"required"`
	Title string `json:"title" validate:"required"`
}

type TitleView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type UpdateTitleResponse struct {
	Calculation TitleView `json:"calculation"`
}

type ClearRequest struct {
	UserID string `json:"userId"`
}
