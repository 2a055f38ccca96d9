package handlers

import (
	"ChemoOrder/config"
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/realtime"
	"ChemoOrder/repositories"
	"ChemoOrder/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderStore struct {
	orders []models.Order
}

func (s *stubOrderStore) Create(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return nil, models.ErrNotFound
}

func (s *stubOrderStore) List(ctx context.Context, filters repositories.OrderFilters) ([]models.Order, error) {
	if filters.Latest && len(s.orders) > 1 {
		return s.orders[:1], nil
	}
	return s.orders, nil
}

func (s *stubOrderStore) Save(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderStore) Delete(ctx context.Context, id string) error { return nil }

type stubPatientStore struct{}

func (stubPatientStore) UpsertByHN(ctx context.Context, hn, fullName, an, wardID string) (*models.Patient, error) {
	return &models.Patient{ID: "patient-1", HN: hn, FullName: fullName, WardID: wardID}, nil
}

type stubCatalog struct{}

func (stubCatalog) GetAllDrugs(ctx context.Context) ([]models.Drug, error)       { return nil, nil }
func (stubCatalog) GetAllRegimens(ctx context.Context) ([]models.Regimen, error) { return nil, nil }
func (stubCatalog) GetDrugsByIDs(ctx context.Context, ids []string) ([]models.Drug, error) {
	return nil, nil
}

type stubNotificationStore struct{}

func (stubNotificationStore) Create(ctx context.Context, n *models.Notification) error { return nil }
func (stubNotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return nil, nil
}
func (stubNotificationStore) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return nil, models.ErrNotFound
}
func (stubNotificationStore) MarkRead(ctx context.Context, id string) error { return nil }
func (stubNotificationStore) Delete(ctx context.Context, id string) error   { return nil }

type stubRecipients struct{}

func (stubRecipients) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return nil, nil
}

type stubPublisher struct{}

func (stubPublisher) Emit(room string, event realtime.Event) {}

func newOrderHandlerOver(orders []models.Order) *OrderHandler {
	notifications := services.NewNotificationService(stubNotificationStore{}, stubRecipients{}, stubPublisher{})
	orderService := services.NewOrderService(
		&stubOrderStore{orders: orders},
		stubPatientStore{},
		services.NewDrugService(stubCatalog{}),
		notifications,
		stubPublisher{},
	)
	return NewOrderHandler(orderService, &config.AppConfig{PublicDir: "public"})
}

func listOrders(t *testing.T, handler *OrderHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	identity := middlewares.Identity{UserID: "nurse-1", FullName: "Somying Jaidee", Role: models.RoleNurse, WardID: "ward-med"}
	c.Request = req.WithContext(middlewares.WithIdentity(req.Context(), identity))
	handler.List(c)
	return recorder
}

func TestListLatestWithoutOrdersReturnsNull(t *testing.T) {
	handler := newOrderHandlerOver(nil)

	recorder := listOrders(t, handler, "/api/orders?patientId=patient-1&latest=true")

	// No prior order is an answer, not an error.
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "null", strings.TrimSpace(recorder.Body.String()))
}

func TestListLatestReturnsSingleObject(t *testing.T) {
	handler := newOrderHandlerOver([]models.Order{
		{ID: "ORD-241005-002", PatientID: "patient-1", WardID: "ward-med", Status: models.OrderStatusPending, Drugs: "[]", Attachments: "[]"},
		{ID: "ORD-241005-001", PatientID: "patient-1", WardID: "ward-med", Status: models.OrderStatusCompleted, Drugs: "[]", Attachments: "[]"},
	})

	recorder := listOrders(t, handler, "/api/orders?patientId=patient-1&latest=true")

	require.Equal(t, http.StatusOK, recorder.Code)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Equal(t, "ORD-241005-002", view["id"])
}

func TestListWithoutLatestReturnsArray(t *testing.T) {
	handler := newOrderHandlerOver(nil)

	recorder := listOrders(t, handler, "/api/orders")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]", strings.TrimSpace(recorder.Body.String()))
}
