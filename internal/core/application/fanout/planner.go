// Package fanout turns committed order transitions into side-effect batches:
// in-app notifications, realtime pushes and transactional emails addressed to
// admins or to the customer.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"orderreview/internal/core/application/effects"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/core/ports"
)

const (
	SubjectNewOrder       = "New Order Received - Action Required"
	SubjectShippingPriced = "Shipping Charges Added - Action Required"
	SubjectConfirmed      = "Order Confirmed"
	SubjectCancelled      = "Order Cancelled"
	SubjectPendingDigest  = "Orders Awaiting Shipping Review"

	DefaultCurrency = "₹"
)

// Links are the absolute URLs placed in emails.
type Links struct {
	// ClientURL is the storefront base; confirm and cancel links hang off it.
	ClientURL string
	// AdminPanelURL points admins to the shipping panel.
	AdminPanelURL string
}

// Planner builds the side-effect batch of each transition. Recipients are
// resolved when a task runs, never when the batch is planned.
type Planner struct {
	users         ports.UserRepository
	notifications ports.NotificationRepository
	publisher     ports.NotificationPublisher
	mailer        ports.Mailer
	templates     *Templates
	links         Links
	currency      string
	now           func() time.Time
}

func NewPlanner(
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	publisher ports.NotificationPublisher,
	mailer ports.Mailer,
	templates *Templates,
	links Links,
	currency string,
) *Planner {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Planner{
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		mailer:        mailer,
		templates:     templates,
		links:         links,
		currency:      currency,
		now:           time.Now,
	}
}

// Plan returns the batch for event. Unknown kinds yield an empty batch.
func (p *Planner) Plan(event Event) effects.Batch {
	batch := effects.Batch{Name: event.Kind.String()}
	if event.Order == nil {
		return batch
	}
	view := newOrderView(event.Order, p.currency)

	switch event.Kind {
	case OrderSubmitted:
		batch.Tasks = []effects.Task{
			p.notifyAdminsTask(view.RefID, "New Order Received",
				fmt.Sprintf("A new order has been received. Order ID: %s. Please add shipping charges.", view.ID)),
			p.emailAdminsTask(view.ID, SubjectNewOrder, func(ctx context.Context) (string, error) {
				name, email, _ := p.customerContact(ctx, view)
				return p.templates.Render(templateAdminNewOrder, map[string]any{
					"Order":         view,
					"CustomerName":  name,
					"CustomerEmail": email,
					"AdminPanelURL": p.links.AdminPanelURL,
				})
			}),
		}

	case ShippingPriced:
		if view.CustomerID != nil {
			batch.Tasks = append(batch.Tasks, p.notifyUserTask(*view.CustomerID, view.RefID, "Shipping Charges Added",
				fmt.Sprintf("Shipping charges of %s have been added to your order. Total amount: %s. Please confirm to proceed.",
					view.ShippingCharge, view.FinalPrice)))
		}
		batch.Tasks = append(batch.Tasks, p.emailCustomerTask(view))

	case OrderConfirmed:
		message := fmt.Sprintf("Order %s has been confirmed by the customer.", view.ID)
		batch.Tasks = []effects.Task{
			p.notifyAdminsTask(view.RefID, "Order Confirmed", message),
			p.emailAdminsTask(view.ID, SubjectConfirmed, func(context.Context) (string, error) {
				return p.templates.Render(templateAdminOrderConfirmed, map[string]any{
					"Order":         view,
					"AdminPanelURL": p.links.AdminPanelURL,
				})
			}),
		}

	case OrderCancelled:
		reason := event.Reason
		if reason == "" {
			reason = order.DefaultCancelReason
		}
		message := fmt.Sprintf("Order %s has been cancelled by the customer. Reason: %s", view.ID, reason)
		batch.Tasks = []effects.Task{
			p.notifyAdminsTask(view.RefID, "Order Cancelled", message),
			p.emailAdminsTask(view.ID, SubjectCancelled, func(context.Context) (string, error) {
				return p.templates.Render(templateAdminOrderCancelled, map[string]any{
					"Order":         view,
					"Reason":        reason,
					"AdminPanelURL": p.links.AdminPanelURL,
				})
			}),
		}
	}

	return batch
}

// PlanPendingDigest emails every admin one summary of orders stuck in review.
func (p *Planner) PlanPendingDigest(orders []*order.Order, minAge time.Duration) effects.Batch {
	batch := effects.Batch{Name: "order.pending_digest"}
	if len(orders) == 0 {
		return batch
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o, p.currency))
	}

	batch.Tasks = []effects.Task{
		p.emailAdminsTask("", SubjectPendingDigest, func(context.Context) (string, error) {
			return p.templates.Render(templateAdminPendingDigest, map[string]any{
				"Orders":        views,
				"MinAge":        minAge.String(),
				"AdminPanelURL": p.links.AdminPanelURL,
			})
		}),
	}
	return batch
}

func (p *Planner) notifyAdminsTask(orderID kernel.UUID, title, message string) effects.Task {
	return effects.Task{
		Name: "notify-admins",
		Run: func(ctx context.Context) error {
			return p.enqueue(ctx, notification.Admins(), orderID, title, message)
		},
	}
}

func (p *Planner) notifyUserTask(userID, orderID kernel.UUID, title, message string) effects.Task {
	return effects.Task{
		Name: "notify-customer",
		Run: func(ctx context.Context) error {
			return p.enqueue(ctx, notification.User(userID), orderID, title, message)
		},
	}
}

func (p *Planner) enqueue(ctx context.Context, recipient notification.Recipient, orderID kernel.UUID, title, message string) error {
	n, err := notification.NewNotification(kernel.NewUUID(), recipient, notification.TypeOrder, title, message, &orderID, p.now())
	if err != nil {
		return err
	}
	if err := p.notifications.Add(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if p.publisher == nil {
		return nil
	}
	if err := p.publisher.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (p *Planner) emailAdminsTask(orderID, subject string, render func(ctx context.Context) (string, error)) effects.Task {
	return effects.Task{
		Name: "email-admins",
		Run: func(ctx context.Context) error {
			admins, err := p.users.ListAdmins(ctx)
			if err != nil {
				return fmt.Errorf("list admins: %w", err)
			}
			if len(admins) == 0 {
				return nil
			}

			body, err := render(ctx)
			if err != nil {
				return err
			}

			var sendErrs []error
			for _, admin := range admins {
				email := ports.Email{To: admin.Email(), Subject: subject, HTMLBody: body, OrderID: orderID}
				if err := p.mailer.Send(ctx, email); err != nil {
					sendErrs = append(sendErrs, fmt.Errorf("email %s: %w", admin.Email(), err))
				}
			}
			return errors.Join(sendErrs...)
		},
	}
}

func (p *Planner) emailCustomerTask(view orderView) effects.Task {
	return effects.Task{
		Name: "email-customer",
		Run: func(ctx context.Context) error {
			name, to, err := p.customerContact(ctx, view)
			if err != nil {
				return fmt.Errorf("resolve customer: %w", err)
			}
			if to == "" {
				return errors.New("customer has no email address")
			}

			confirmURL, err := url.JoinPath(p.links.ClientURL, "order", "confirm", view.ID, view.Token)
			if err != nil {
				return fmt.Errorf("build confirm link: %w", err)
			}
			cancelURL, err := url.JoinPath(p.links.ClientURL, "order", "cancel", view.ID, view.Token)
			if err != nil {
				return fmt.Errorf("build cancel link: %w", err)
			}

			body, err := p.templates.Render(templateCustomerShippingPriced, map[string]any{
				"Order":        view,
				"CustomerName": name,
				"ConfirmURL":   confirmURL,
				"CancelURL":    cancelURL,
			})
			if err != nil {
				return err
			}

			return p.mailer.Send(ctx, ports.Email{To: to, Subject: SubjectShippingPriced, HTMLBody: body, OrderID: view.ID})
		},
	}
}

// customerContact returns a display name and email for the order's customer.
// On a failed lookup the placeholders are still usable for admin emails.
func (p *Planner) customerContact(ctx context.Context, view orderView) (string, string, error) {
	if view.CustomerID == nil {
		return "Customer", view.CustomerEmail, nil
	}
	u, err := p.users.Get(ctx, *view.CustomerID)
	if err != nil {
		return "Customer", "", err
	}
	name := u.Name()
	if name == "" {
		name = "Customer"
	}
	return name, u.Email(), nil
}
