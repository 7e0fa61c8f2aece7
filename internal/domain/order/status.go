package order

import (
	"fmt"
	"strings"

	"github.com/example/webstore/internal/model"
)

// ParseStatus decodes a client-supplied status into the closed set of order
// statuses. Matching ignores case and surrounding whitespace.
func ParseStatus(raw string) (model.OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return model.OrderPending, nil
	case "confirmed":
		return model.OrderConfirmed, nil
	case "cancelled":
		return model.OrderCancelled, nil
	}
	return "", fmt.Errorf("%w: %q, expected one of Pending, Confirmed, Cancelled", ErrInvalidStatus, raw)
}
