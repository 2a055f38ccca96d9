package services

import (
	"ChemoOrder/models"
	"ChemoOrder/realtime"
	"context"
	"fmt"
	"log"
)

// RecipientLister resolves fan-out targets by role.
type RecipientLister interface {
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

// NotificationStore persists and reads notification rows.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type NotificationService struct {
	store      NotificationStore
	recipients RecipientLister
	publisher  realtime.Publisher
}

func NewNotificationService(store NotificationStore, recipients RecipientLister, publisher realtime.Publisher) *NotificationService {
	return &NotificationService{store: store, recipients: recipients, publisher: publisher}
}

// deliver persists one notification and then pushes it to the recipient's
// room. The row is the source of truth; a failed push is only logged.
func (s *NotificationService) deliver(ctx context.Context, notification *models.Notification) error {
	if err := s.store.Create(ctx, notification); err != nil {
		return err
	}
	s.publisher.Emit(realtime.UserRoom(notification.UserID), realtime.Event{
		Name: realtime.EventNotificationNew,
		Data: notification,
	})
	return nil
}

// NotifyNewOrder fans a new-order notification out to every pharmacist.
// Failures for one recipient never block the rest.
func (s *NotificationService) NotifyNewOrder(ctx context.Context, order *models.Order, creatorName string) {
	pharmacists, err := s.recipients.ListByRole(ctx, models.RolePharmacist)
	if err != nil {
		log.Printf("Failed to list pharmacists for order %s: %v", order.ID, err)
		return
	}

	patientName := ""
	if order.Patient != nil {
		patientName = order.Patient.FullName
	}
	message := fmt.Sprintf("New order %s for %s created by %s", order.ID, patientName, creatorName)

	for _, pharmacist := range pharmacists {
		notification := &models.Notification{
			UserID:    pharmacist.ID,
			Message:   message,
			Type:      models.NotificationNewOrder,
			Status:    order.Status,
			RelatedID: order.ID,
		}
		if err := s.deliver(ctx, notification); err != nil {
			log.Printf("Failed to notify user %s about order %s: %v", pharmacist.ID, order.ID, err)
		}
	}
}

// NotifyStatusChange tells the order's creator the pharmacist's verdict.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, order *models.Order, approverName string) {
	verdict := "approved"
	if order.Status == models.OrderStatusRejected {
		verdict = "rejected"
	}
	notification := &models.Notification{
		UserID:    order.CreatedByID,
		Message:   fmt.Sprintf("Order %s was %s by %s", order.ID, verdict, approverName),
		Type:      models.NotificationOrderStatus,
		Status:    order.Status,
		RelatedID: order.ID,
	}
	if err := s.deliver(ctx, notification); err != nil {
		log.Printf("Failed to notify user %s about order %s: %v", order.CreatedByID, order.ID, err)
	}
}

// List returns the acting user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

// MarkRead marks one of the acting user's notifications read. A row owned
// by someone else reads as NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	notification, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.ErrNotFound
	}
	return s.store.MarkRead(ctx, id)
}

// Delete removes one of the acting user's notifications with the same
// ownership semantics as MarkRead.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	notification, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}
