package shift

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	shiftDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/shift"
	"github.com/frahmantamala/pos-backoffice/internal/core/events"
	"github.com/shopspring/decimal"
)

// RepositoryAPI returns nil, nil for missing rows. Create returns ErrShiftAlreadyActive when
// the one-active-shift index rejects the insert. Close only touches active rows and reports
// whether it did.
type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*shiftDatamodel.Shift, error)
	GetByID(ctx context.Context, id int64) (*shiftDatamodel.Shift, error)
	GetActiveByUser(ctx context.Context, userID int64) (*shiftDatamodel.Shift, error)
	Create(ctx context.Context, s *shiftDatamodel.Shift) error
	Close(ctx context.Context, id int64, closedAt time.Time, actual decimal.Decimal, notes string) (bool, error)
}

var (
	ErrShiftAlreadyActive = internal.NewConflictError("user already has an active shift", internal.ErrCodeShiftAlreadyActive)
	ErrShiftNotFound      = internal.NewNotFoundError("shift not found", internal.ErrCodeShiftNotFound)
	ErrShiftClosed        = internal.NewConflictError("shift has already ended", internal.ErrCodeShiftClosed)
	ErrShiftNotOwned      = internal.NewForbiddenError("only the shift owner or a user manager can end this shift", internal.ErrCodeShiftNotOwned)
)

type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Shift, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list shifts", err)
	}
	shifts := make([]*Shift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, FromDataModel(row))
	}
	return shifts, nil
}

// Current returns the caller's open shift or ErrShiftNotFound.
func (s *Service) Current(ctx context.Context, userID int64) (*Shift, error) {
	row, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load shift", err)
	}
	if row == nil {
		return nil, ErrShiftNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Start(ctx context.Context, userID int64, dto StartShiftDTO) (*Shift, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	active, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load shift", err)
	}
	if active != nil {
		return nil, ErrShiftAlreadyActive
	}

	row := &shiftDatamodel.Shift{
		StoreID:            dto.StoreID,
		UserID:             userID,
		OpeningTime:        s.now(),
		ExpectedCashAmount: dto.ExpectedCashAmount,
		IsActive:           true,
		Notes:              dto.Notes,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to start shift", err)
	}

	s.logger.InfoContext(ctx, "shift started", "shift_id", row.ID, "user_id", userID, "store_id", row.StoreID)
	events.Emit(ctx, s.events, events.NewShiftStartedEvent(row.ID, userID))
	return FromDataModel(row), nil
}

// End closes shift id. canManage lets user managers close other users' shifts.
func (s *Service) End(ctx context.Context, callerID int64, canManage bool, id int64, dto EndShiftDTO) (*Shift, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load shift", err)
	}
	if row == nil {
		return nil, ErrShiftNotFound
	}
	if row.UserID != callerID && !canManage {
		return nil, ErrShiftNotOwned
	}
	if !row.IsActive {
		return nil, ErrShiftClosed
	}

	notes := row.Notes
	if dto.Notes != "" {
		notes = dto.Notes
	}
	closedAt := s.now()
	closed, err := s.repo.Close(ctx, id, closedAt, dto.ActualCashAmount, notes)
	if err != nil {
		return nil, internal.NewInternalError("failed to end shift", err)
	}
	if !closed {
		return nil, ErrShiftClosed
	}

	row.IsActive = false
	row.ClosingTime = &closedAt
	row.ActualCashAmount = decimal.NewNullDecimal(dto.ActualCashAmount)
	row.Notes = notes

	out := FromDataModel(row)
	s.logger.InfoContext(ctx, "shift ended",
		"shift_id", id,
		"user_id", row.UserID,
		"ended_by", callerID,
		"cash_difference", out.CashDifference.String())
	events.Emit(ctx, s.events, events.NewShiftEndedEvent(id, row.UserID, out.CashDifference.String()))
	return out, nil
}
