package models

import "errors"

const (
	OrderStatusUnpaid          = "unpaid"
	OrderStatusInReview        = "in-review"
	OrderStatusNeedsDiscussion = "needs-discussion"
	OrderStatusPrinting        = "printing"
	OrderStatusShipping        = "shipping"
	OrderStatusInDelivery      = "in-delivery"
	OrderStatusDelivered       = "delivered"
	OrderStatusCompleted       = "completed"
	OrderStatusCanceled        = "canceled"
)

var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// orderStatusTransitions is the full set of legal forward moves. Canceled is
// only reachable before printing starts; completed and canceled are terminal.
var orderStatusTransitions = map[string][]string{
	OrderStatusUnpaid:          {OrderStatusInReview, OrderStatusCanceled},
	OrderStatusInReview:        {OrderStatusNeedsDiscussion, OrderStatusPrinting, OrderStatusCanceled},
	OrderStatusNeedsDiscussion: {OrderStatusInReview, OrderStatusPrinting, OrderStatusCanceled},
	OrderStatusPrinting:        {OrderStatusShipping},
	OrderStatusShipping:        {OrderStatusInDelivery},
	OrderStatusInDelivery:      {OrderStatusDelivered},
	OrderStatusDelivered:       {OrderStatusCompleted},
	OrderStatusCompleted:       {},
	OrderStatusCanceled:        {},
}

func IsValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

// CanTransitionStatus reports whether moving an order from one status to
// another is legal. A same-status write is allowed but treated as a no-op by
// callers (no history row is appended).
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsTerminalOrderStatus(status string) bool {
	return len(orderStatusTransitions[status]) == 0 && IsValidOrderStatus(status)
}
