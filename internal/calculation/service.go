// AngelaMos | 2026
// service.go

package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/fl1capital/liquidation-backend/internal/core"
)

// ErrSaveFailed marks the persist half of compute-then-persist: the result
// was computed but no record exists. Callers must not be told it was saved.
var ErrSaveFailed = errors.New("calculation computed but not saved")

// UserResolver is the identity surface the ledger needs: ownership checks on
// create and the email fallback on reads.
type UserResolver interface {
	UserExists(ctx context.Context, id string) (bool, error)
	UserIDByEmail(ctx context.Context, email string) (string, error)
}

type Service struct {
	repo  Repository
	users UserResolver
	cache HistoryCache
}

func NewService(
	repo Repository,
	users UserResolver,
	cache HistoryCache,
) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: cache,
	}
}

// Create runs the pure calculator and persists input and result as one
// immutable snapshot. The sequential title number is derived from the live
// record count; two racing creates may share a number, which is accepted as
// cosmetic (titles are mutable and never a key).
func (s *Service) Create(
	ctx context.Context,
	req CreateRequest,
) (*CreateResponse, error) {
	exists, err := s.users.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("create calculation: %w", core.ErrNotFound)
	}

	result := Calculate(req.InputData)

	inputJSON, err := json.Marshal(req.InputData)
	if err != nil {
		return nil, fmt.Errorf("encode input snapshot: %w: %w", ErrSaveFailed, err)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result snapshot: %w: %w", ErrSaveFailed, err)
	}

	count, err := s.repo.CountByUserAndType(
		ctx,
		req.UserID,
		TypeLiquidationTarget,
	)
	if err != nil {
		return nil, fmt.Errorf("number calculation: %w: %w", ErrSaveFailed, err)
	}

	calc := &Calculation{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Type:       TypeLiquidationTarget,
		Title:      sequentialTitle(TypeLiquidationTarget, count+1),
		InputData:  string(inputJSON),
		ResultData: string(resultJSON),
		Status:     StatusCompleted,
	}

	if err := s.repo.Create(ctx, calc); err != nil {
		return nil, fmt.Errorf("persist calculation: %w: %w", ErrSaveFailed, err)
	}

	s.invalidate(ctx, req.UserID)

	return &CreateResponse{
		CalculationID: calc.ID,
		Result:        result,
	}, nil
}

// History lists a user's snapshots newest first. An unresolvable user is an
// empty list, not an error.
func (s *Service) History(
	ctx context.Context,
	userID, email, typ string,
	limit int,
) (*HistoryResponse, error) {
	userID, ok, err := s.resolveUser(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &HistoryResponse{Calculations: []HistoryEntry{}}, nil
	}

	if typ == "" {
		typ = TypeLiquidationTarget
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	if s.cache != nil {
		if entries, hit := s.cache.Get(ctx, userID, typ, limit); hit {
			return &HistoryResponse{Calculations: entries}, nil
		}
	}

	calcs, err := s.repo.ListByUserAndType(ctx, userID, typ, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(calcs))
	for i := range calcs {
		entry, err := toHistoryEntry(&calcs[i])
		if err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", calcs[i].ID, err)
		}
		entries = append(entries, entry)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, typ, limit, entries)
	}

	return &HistoryResponse{Calculations: entries}, nil
}

// UpdateTitle renames a snapshot. The trimmed title must be non-empty; the
// stored record is untouched on rejection. Numbering never changes.
func (s *Service) UpdateTitle(
	ctx context.Context,
	req UpdateTitleRequest,
) (*UpdateTitleResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf(
			"title must not be empty: %w",
			core.ErrInvalidInput,
		)
	}

	calc, err := s.repo.UpdateTitle(ctx, req.ID, title)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, calc.UserID)

	return &UpdateTitleResponse{
		Calculation: TitleView{ID: calc.ID, Title: calc.Title},
	}, nil
}

// ClearAll deletes every snapshot the user owns, across all types. An
// unresolvable user means nothing to delete, which is success.
func (s *Service) ClearAll(ctx context.Context, userID, email string) error {
	userID, ok, err := s.resolveUser(ctx, userID, email)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if _, err := s.repo.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear calculations: %w", err)
	}

	s.invalidate(ctx, userID)

	return nil
}

func (s *Service) resolveUser(
	ctx context.Context,
	userID, email string,
) (string, bool, error) {
	if userID != "" {
		return userID, true, nil
	}

	if email == "" {
		return "", false, nil
	}

	id, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolve user by email: %w", err)
	}

	return id, true, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

func toHistoryEntry(calc *Calculation) (HistoryEntry, error) {
	var input Input
	if err := json.Unmarshal([]byte(calc.InputData), &input); err != nil {
		return HistoryEntry{}, fmt.Errorf("decode input: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(calc.ResultData), &result); err != nil {
		return HistoryEntry{}, fmt.Errorf("decode result: %w", err)
	}

	return HistoryEntry{
		ID:           calc.ID,
		Title:        calc.Title,
		InputData:    input,
		ResultData:   result,
		Status:       calc.Status,
		ErrorMessage: calc.ErrorMessage,
		CreatedAt:    calc.CreatedAt,
	}, nil
}

func sequentialTitle(typ string, n int) string {
	display := typ
	if display != "" {
		runes := []rune(display)
		runes[0] = unicode.ToUpper(runes[0])
		display = string(runes)
	}
	return fmt.Sprintf("%s calculation #%d", display, n)
}
