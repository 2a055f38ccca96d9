package services

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/realtime"
	"ChemoOrder/repositories"
	"ChemoOrder/utils"
	"context"
	"fmt"
	"time"
)

// OrderInput carries the deserialized multipart fields of a create/update
// request. The JSON-encoded sub-objects are decoded eagerly at the edge;
// nothing downstream sees raw text.
type OrderInput struct {
	Patient             models.Patient
	Drugs               []models.OrderDrug
	Other               OrderOtherData
	Notes               string
	ExistingAttachments []models.Attachment
	NewAttachments      []models.Attachment
}

// OrderOtherData is the otherData multipart field.
type OrderOtherData struct {
	RegimenID      string `json:"regimenId"`
	StartDate      string `json:"startDate"`
	CompletionDate string `json:"completionDate"`
}

// OrderView is the response shape: the stored order with its embedded lists
// decoded and drug names enriched from the catalog.
type OrderView struct {
	models.Order
	Drugs       []models.OrderDrug  `json:"drugs"`
	Attachments []models.Attachment `json:"attachments"`
}

// OrderStore is the persistence surface the lifecycle needs; the repository
// satisfies it, tests swap in an in-memory one.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filters repositories.OrderFilters) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

// PatientStore resolves patients by hospital number on the write path.
type PatientStore interface {
	UpsertByHN(ctx context.Context, hn, fullName, an, wardID string) (*models.Patient, error)
}

type OrderService struct {
	orders        OrderStore
	patients      PatientStore
	drugs         *DrugService
	notifications *NotificationService
	publisher     realtime.Publisher
}

func NewOrderService(
	orders OrderStore,
	patients PatientStore,
	drugs *DrugService,
	notifications *NotificationService,
	publisher realtime.Publisher,
) *OrderService {
	return &OrderService{
		orders:        orders,
		patients:      patients,
		drugs:         drugs,
		notifications: notifications,
		publisher:     publisher,
	}
}

// CombineAttachments builds the final attachment list for create and
// update: the caller-supplied surviving attachments first, then the newly
// uploaded files, order preserved verbatim.
func CombineAttachments(existing, uploaded []models.Attachment) []models.Attachment {
	combined := make([]models.Attachment, 0, len(existing)+len(uploaded))
	combined = append(combined, existing...)
	combined = append(combined, uploaded...)
	return combined
}

// parseOrderDate accepts the date formats the clients send; empty or
// unparseable values normalize to nil.
func parseOrderDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// Create persists a new PENDING order for the acting identity's ward,
// resolving the patient by HN first, then fans out pharmacist notifications
// and announces the order to the ward room.
func (s *OrderService) Create(ctx context.Context, identity middlewares.Identity, input OrderInput) (*OrderView, error) {
	if identity.WardID == "" {
		return nil, fmt.Errorf("%w: user is not assigned to a ward", models.ErrForbidden)
	}
	if err := utils.ValidateOrderPayload(input.Patient, input.Drugs); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	patient, err := s.patients.UpsertByHN(ctx, input.Patient.HN, input.Patient.FullName, input.Patient.AN, identity.WardID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		PatientID:      patient.ID,
		WardID:         identity.WardID,
		CreatedByID:    identity.UserID,
		RegimenID:      input.Other.RegimenID,
		Drugs:          models.EncodeJSON(input.Drugs),
		Attachments:    models.EncodeJSON(CombineAttachments(input.ExistingAttachments, input.NewAttachments)),
		Notes:          input.Notes,
		Status:         models.OrderStatusPending,
		StartDate:      parseOrderDate(input.Other.StartDate),
		CompletionDate: parseOrderDate(input.Other.CompletionDate),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	order.Patient = patient

	s.notifications.NotifyNewOrder(ctx, order, identity.FullName)
	s.publisher.Emit(realtime.WardRoom(order.WardID), realtime.Event{
		Name: realtime.EventOrderCreated,
		Data: orderEventPayload(order),
	})

	return s.view(ctx, order)
}

// Get loads one order. A warded identity only sees orders of its own ward;
// a mismatch is Forbidden, distinct from NotFound.
func (s *OrderService) Get(ctx context.Context, identity middlewares.Identity, id string) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.WardID != "" && order.WardID != identity.WardID {
		return nil, fmt.Errorf("%w: you do not have access to this order", models.ErrForbidden)
	}
	return s.view(ctx, order)
}

// ListQuery carries the caller-controlled list filters. Ward scoping is
// applied from the identity, never from here.
type ListQuery struct {
	PatientID string
	Latest    bool
	StartDate string
	EndDate   string
}

// List returns the identity's visible orders, enriched in one catalog pass.
// Latest with a patient id narrows the result to at most one order.
func (s *OrderService) List(ctx context.Context, identity middlewares.Identity, query ListQuery) ([]*OrderView, error) {
	filters := repositories.OrderFilters{
		PatientID: query.PatientID,
		WardID:    identity.WardID,
		Latest:    query.Latest,
		StartDate: parseOrderDate(query.StartDate),
		EndDate:   parseOrderDate(query.EndDate),
	}

	orders, err := s.orders.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	views := make([]*OrderView, len(orders))
	for i := range orders {
		views[i] = newOrderView(&orders[i])
	}
	if err := s.drugs.EnrichOrders(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// Update fully replaces an order's content, re-resolving the patient and
// recombining the attachment lists.
func (s *OrderService) Update(ctx context.Context, identity middlewares.Identity, id string, input OrderInput) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.WardID == "" {
		return nil, fmt.Errorf("%w: user is not assigned to a ward", models.ErrForbidden)
	}
	if order.WardID != identity.WardID {
		return nil, fmt.Errorf("%w: you do not have access to this order", models.ErrForbidden)
	}
	if err := utils.ValidateOrderPayload(input.Patient, input.Drugs); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	patient, err := s.patients.UpsertByHN(ctx, input.Patient.HN, input.Patient.FullName, input.Patient.AN, identity.WardID)
	if err != nil {
		return nil, err
	}

	order.PatientID = patient.ID
	order.RegimenID = input.Other.RegimenID
	order.Drugs = models.EncodeJSON(input.Drugs)
	order.Attachments = models.EncodeJSON(CombineAttachments(input.ExistingAttachments, input.NewAttachments))
	order.Notes = input.Notes
	order.StartDate = parseOrderDate(input.Other.StartDate)
	order.CompletionDate = parseOrderDate(input.Other.CompletionDate)

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	order.Patient = patient

	s.publisher.Emit(realtime.WardRoom(order.WardID), realtime.Event{
		Name: realtime.EventOrderUpdated,
		Data: orderEventPayload(order),
	})

	return s.view(ctx, order)
}

// Delete hard-deletes an order after the ward check.
func (s *OrderService) Delete(ctx context.Context, identity middlewares.Identity, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if identity.WardID != "" && order.WardID != identity.WardID {
		return fmt.Errorf("%w: you do not have access to this order", models.ErrForbidden)
	}
	return s.orders.Delete(ctx, id)
}

// UpdateStatus is the single externally-triggered state transition:
// PENDING -> COMPLETED | REJECTED. Redundant or backward transitions are
// rejected rather than overwritten. The approver is recorded and the
// original creator is notified.
func (s *OrderService) UpdateStatus(ctx context.Context, identity middlewares.Identity, id, newStatus string) (*OrderView, error) {
	if newStatus != models.OrderStatusCompleted && newStatus != models.OrderStatusRejected {
		return nil, fmt.Errorf("%w: status must be COMPLETED or REJECTED", models.ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.WardID != "" && order.WardID != identity.WardID {
		return nil, fmt.Errorf("%w: you do not have access to this order", models.ErrForbidden)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s is already %s", models.ErrConflict, order.ID, order.Status)
	}

	order.Status = newStatus
	approverID := identity.UserID
	order.ApprovedByID = &approverID

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.notifications.NotifyStatusChange(ctx, order, identity.FullName)
	s.publisher.Emit(realtime.WardRoom(order.WardID), realtime.Event{
		Name: realtime.EventOrderUpdated,
		Data: orderEventPayload(order),
	})

	return s.view(ctx, order)
}

func newOrderView(order *models.Order) *OrderView {
	return &OrderView{
		Order:       *order,
		Drugs:       models.ParseOrderDrugs(order.Drugs),
		Attachments: models.ParseAttachments(order.Attachments),
	}
}

func (s *OrderService) view(ctx context.Context, order *models.Order) (*OrderView, error) {
	view := newOrderView(order)
	if err := s.drugs.EnrichOrders(ctx, []*OrderView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

// orderEventPayload is the slim body pushed on ward broadcasts; clients
// refetch details over REST, which re-applies the ward checks.
func orderEventPayload(order *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":        order.ID,
		"patientId": order.PatientID,
		"wardId":    order.WardID,
		"status":    order.Status,
	}
}
