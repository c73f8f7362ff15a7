package shift

import (
	"time"

	shiftDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/shift"
	"github.com/shopspring/decimal"
)

type Shift struct {
	ID                 int64            `json:"id"`
	StoreID            int64            `json:"storeId"`
	UserID             int64            `json:"userId"`
	OpeningTime        time.Time        `json:"openingTime"`
	ClosingTime        *time.Time       `json:"closingTime"`
	ExpectedCashAmount decimal.Decimal  `json:"expectedCashAmount"`
	ActualCashAmount   *decimal.Decimal `json:"actualCashAmount"`
	CashDifference     *decimal.Decimal `json:"cashDifference"`
	IsActive           bool             `json:"isActive"`
	Notes              string           `json:"notes"`
}

func (s *Shift) OwnedBy(userID int64) bool {
	return s.UserID == userID
}

// ListFilter narrows shift listings; nil pointers mean no filter.
type ListFilter struct {
	StoreID    *int64
	UserID     *int64
	ActiveOnly bool
}

func FromDataModel(s *shiftDatamodel.Shift) *Shift {
	out := &Shift{
		ID:                 s.ID,
		StoreID:            s.StoreID,
		UserID:             s.UserID,
		OpeningTime:        s.OpeningTime,
		ClosingTime:        s.ClosingTime,
		ExpectedCashAmount: s.ExpectedCashAmount,
		IsActive:           s.IsActive,
		Notes:              s.Notes,
	}
	if s.ActualCashAmount.Valid {
		actual := s.ActualCashAmount.Decimal
		diff := actual.Sub(s.ExpectedCashAmount)
		out.ActualCashAmount = &actual
		out.CashDifference = &diff
	}
	return out
}
