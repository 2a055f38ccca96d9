package services

import (
	"ChemoOrder/models"
	"ChemoOrder/realtime"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipients struct {
	users []models.User
	err   error
}

func (f *fakeRecipients) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return f.users, f.err
}

type fakeStore struct {
	created   []*models.Notification
	rows      map[string]*models.Notification
	createErr error
}

func (f *fakeStore) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	n, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return n, nil
}

func (f *fakeStore) MarkRead(ctx context.Context, id string) error {
	f.rows[id].IsRead = true
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type fakePublisher struct {
	emitted []struct {
		Room  string
		Event realtime.Event
	}
}

func (f *fakePublisher) Emit(room string, event realtime.Event) {
	f.emitted = append(f.emitted, struct {
		Room  string
		Event realtime.Event
	}{room, event})
}

func testOrder() *models.Order {
	return &models.Order{
		ID:          "ORD-241005-001",
		CreatedByID: "nurse-1",
		WardID:      "ward-onco",
		Status:      models.OrderStatusPending,
		Patient:     &models.Patient{FullName: "Jane Doe"},
	}
}

func TestNotifyNewOrderFansOutToEveryPharmacist(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{}}
	publisher := &fakePublisher{}
	recipients := &fakeRecipients{users: []models.User{
		{ID: "pharm-1", Role: models.RolePharmacist},
		{ID: "pharm-2", Role: models.RolePharmacist},
	}}
	service := NewNotificationService(store, recipients, publisher)

	service.NotifyNewOrder(context.Background(), testOrder(), "Nurse Somying")

	require.Len(t, store.created, 2)
	require.Len(t, publisher.emitted, 2)

	assert.Equal(t, realtime.UserRoom("pharm-1"), publisher.emitted[0].Room)
	assert.Equal(t, realtime.EventNotificationNew, publisher.emitted[0].Event.Name)

	first := store.created[0]
	assert.Equal(t, models.NotificationNewOrder, first.Type)
	assert.Equal(t, "ORD-241005-001", first.RelatedID)
	assert.Contains(t, first.Message, "Jane Doe")
	assert.Contains(t, first.Message, "Nurse Somying")
}

func TestNotifyNewOrderWithNoPharmacists(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{}}
	publisher := &fakePublisher{}
	service := NewNotificationService(store, &fakeRecipients{}, publisher)

	service.NotifyNewOrder(context.Background(), testOrder(), "Nurse Somying")

	assert.Empty(t, store.created)
	assert.Empty(t, publisher.emitted)
}

func TestNotifyNewOrderPersistFailureSkipsPush(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{}, createErr: errors.New("db down")}
	publisher := &fakePublisher{}
	recipients := &fakeRecipients{users: []models.User{{ID: "pharm-1"}}}
	service := NewNotificationService(store, recipients, publisher)

	service.NotifyNewOrder(context.Background(), testOrder(), "Nurse Somying")

	// The row is the source of truth; no row means no push.
	assert.Empty(t, publisher.emitted)
}

func TestNotifyStatusChangeTargetsCreator(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{}}
	publisher := &fakePublisher{}
	service := NewNotificationService(store, &fakeRecipients{}, publisher)

	order := testOrder()
	order.Status = models.OrderStatusRejected
	service.NotifyStatusChange(context.Background(), order, "Pharmacist Somsak")

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "nurse-1", created.UserID)
	assert.Equal(t, models.NotificationOrderStatus, created.Type)
	assert.Contains(t, created.Message, "rejected")
	assert.Contains(t, created.Message, "Pharmacist Somsak")

	require.Len(t, publisher.emitted, 1)
	assert.Equal(t, realtime.UserRoom("nurse-1"), publisher.emitted[0].Room)
}

func TestMarkReadRejectsForeignNotification(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "someone-else"},
	}}
	service := NewNotificationService(store, &fakeRecipients{}, &fakePublisher{})

	err := service.MarkRead(context.Background(), "nurse-1", "n1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, store.rows["n1"].IsRead)
}

func TestDeleteRejectsForeignNotification(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "someone-else"},
	}}
	service := NewNotificationService(store, &fakeRecipients{}, &fakePublisher{})

	err := service.Delete(context.Background(), "nurse-1", "n1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, store.rows, "n1")
}

func TestMarkReadOwnNotification(t *testing.T) {
	store := &fakeStore{rows: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "nurse-1"},
	}}
	service := NewNotificationService(store, &fakeRecipients{}, &fakePublisher{})

	require.NoError(t, service.MarkRead(context.Background(), "nurse-1", "n1"))
	assert.True(t, store.rows["n1"].IsRead)
}
