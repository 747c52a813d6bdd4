package service

import (
	"fmt"

	"revive-orders/internal/features/orders/domain"
)

// emailTemplate renders the buyer-facing email for one order status.
type emailTemplate struct {
	subject string
	body    func(o *domain.Order) string
}

func (t emailTemplate) render(o *domain.Order) (subject, body string) {
	return t.subject, t.body(o)
}

// notificationTemplates holds the statuses that trigger a buyer email.
// Statuses absent from this map transition silently.
var notificationTemplates = map[domain.OrderStatus]emailTemplate{
	domain.StatusPlaced: {
		subject: "Your Order Has Been Placed",
		body: func(o *domain.Order) string {
			return fmt.Sprintf(`Hi %s,

Thank you for shopping with us! Your order %s has been placed successfully.

Order total: $%.2f

You can follow your delivery on the order tracking page.

Happy shopping,
The Revive & Rewear Team
"Where Style Meets Sustainability"
`, o.ShippingAddress.Name, o.ID, o.TotalAmount)
		},
	},
	domain.StatusCancelled: {
		subject: "Your Order Has Been Cancelled",
		body: func(o *domain.Order) string {
			return fmt.Sprintf(`Hi %s,

Your order %s has been cancelled and the items are available again for
other buyers. Any amount paid will be refunded to your original payment
method.

If you have any questions, use the 'contact us' form to reach our team.

Best regards,
The Revive & Rewear Team
`, o.ShippingAddress.Name, o.ID)
		},
	},
	domain.StatusReturned: {
		subject: "Your Return Is Complete",
		body: func(o *domain.Order) string {
			return fmt.Sprintf(`Hi %s,

The items from your order %s have been returned to the seller. Your refund
of $%.2f is being processed.

Thank you for keeping fashion sustainable.

Best regards,
The Revive & Rewear Team
`, o.ShippingAddress.Name, o.ID, o.TotalAmount)
		},
	},
}
