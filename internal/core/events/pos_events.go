package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded = "auth.login_succeeded"
	EventTypeLoginFailed    = "auth.login_failed"
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderRefunded  = "order.refunded"
	EventTypeShiftStarted   = "shift.started"
	EventTypeShiftEnded     = "shift.ended"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type LoginEvent struct {
	BaseEvent
	Username string `json:"username"`
	Reason   string `json:"reason,omitempty"`
}

func NewLoginSucceededEvent(username string) *LoginEvent {
	return &LoginEvent{
		BaseEvent: newBase(EventTypeLoginSucceeded, map[string]interface{}{"username": username}),
		Username:  username,
	}
}

func NewLoginFailedEvent(username, reason string) *LoginEvent {
	return &LoginEvent{
		BaseEvent: newBase(EventTypeLoginFailed, map[string]interface{}{
			"username": username,
			"reason":   reason,
		}),
		Username: username,
		Reason:   reason,
	}
}

// OrderEvent carries amounts as strings so decimal precision survives the payload map.
type OrderEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	StoreID       int64  `json:"store_id"`
	PaymentMethod string `json:"payment_method"`
	Amount        string `json:"amount"`
}

func NewOrderCreatedEvent(orderID, storeID int64, paymentMethod, total string) *OrderEvent {
	return newOrderEvent(EventTypeOrderCreated, orderID, storeID, paymentMethod, total)
}

func NewOrderRefundedEvent(orderID, storeID int64, paymentMethod, amount string) *OrderEvent {
	return newOrderEvent(EventTypeOrderRefunded, orderID, storeID, paymentMethod, amount)
}

func newOrderEvent(eventType string, orderID, storeID int64, paymentMethod, amount string) *OrderEvent {
	return &OrderEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"order_id":       orderID,
			"store_id":       storeID,
			"payment_method": paymentMethod,
			"amount":         amount,
		}),
		OrderID:       orderID,
		StoreID:       storeID,
		PaymentMethod: paymentMethod,
		Amount:        amount,
	}
}

type ShiftEvent struct {
	BaseEvent
	ShiftID        int64  `json:"shift_id"`
	UserID         int64  `json:"user_id"`
	CashDifference string `json:"cash_difference,omitempty"`
}

func NewShiftStartedEvent(shiftID, userID int64) *ShiftEvent {
	return &ShiftEvent{
		BaseEvent: newBase(EventTypeShiftStarted, map[string]interface{}{
			"shift_id": shiftID,
			"user_id":  userID,
		}),
		ShiftID: shiftID,
		UserID:  userID,
	}
}

func NewShiftEndedEvent(shiftID, userID int64, cashDifference string) *ShiftEvent {
	return &ShiftEvent{
		BaseEvent: newBase(EventTypeShiftEnded, map[string]interface{}{
			"shift_id":        shiftID,
			"user_id":         userID,
			"cash_difference": cashDifference,
		}),
		ShiftID:        shiftID,
		UserID:         userID,
		CashDifference: cashDifference,
	}
}

// Emit publishes through p when one is configured; failures are only logged by the bus.
func Emit(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	_ = p.Publish(ctx, event)
}
