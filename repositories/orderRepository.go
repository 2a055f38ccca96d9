package repositories

import (
	"ChemoOrder/database"
	"ChemoOrder/models"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	orderIDSeqWidth = 3
	mintLockExpiry  = 10 * time.Second
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// OrderFilters narrows List. WardID comes exclusively from the resolved
// identity, never from request input.
type OrderFilters struct {
	PatientID string
	WardID    string
	Latest    bool
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderIDPrefix computes the daily id prefix, e.g. ORD-241005.
func OrderIDPrefix(t time.Time) string {
	return "ORD-" + t.Format("060102")
}

// FormatOrderID renders a full order id from a daily prefix and sequence
// number, zero-padded to three digits.
func FormatOrderID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%0*d", prefix, orderIDSeqWidth, seq)
}

// NextSequence parses the numeric suffix of the lexicographically last id
// for a day and returns the following sequence number. An empty last id
// starts the day at 1.
func NextSequence(lastID string) int {
	if lastID == "" {
		return 1
	}
	parts := strings.Split(lastID, "-")
	if len(parts) < 3 {
		return 1
	}
	lastSeq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 1
	}
	return lastSeq + 1
}

// Create mints a daily-sequenced id and persists the order. The scan-then-
// insert sequence is serialized by a per-day redis lock; a duplicate-key
// insert (lock expiry under extreme latency) triggers one re-mint retry so
// ids stay unique and strictly increasing within a calendar day.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	prefix := OrderIDPrefix(time.Now())

	lockKey := "order_seq_lock:" + prefix
	lockValue := uuid.New().String()

	maxRetries := 3
	retryDelay := 100 * time.Millisecond
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, mintLockExpiry)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire order id lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release order id lock: %v", err)
		}
	}()

	for attempt := 0; attempt < 2; attempt++ {
		lastID, err := r.lastIDForPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		order.ID = FormatOrderID(prefix, NextSequence(lastID))

		err = database.DB.WithContext(ctx).Create(order).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 1 {
			return fmt.Errorf("failed to create order: %w", err)
		}
	}
	return nil
}

// lastIDForPrefix returns the numerically highest id of the day. Ordering by
// length first keeps a four-digit suffix above "-999"; a plain lexicographic
// sort would stall the sequence there.
func (r *OrderRepository) lastIDForPrefix(ctx context.Context, prefix string) (string, error) {
	var last models.Order
	err := database.DB.WithContext(ctx).
		Where("id LIKE ?", prefix+"%").
		Order("LENGTH(id) DESC, id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan last order id: %w", err)
	}
	return last.ID, nil
}

// GetByID loads one order with its patient and creator.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := database.DB.WithContext(ctx).
		Preload("Patient").
		Preload("CreatedBy").
		Preload("ApprovedBy").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// List returns orders newest-first, scoped by the filters. Latest with a
// patient id returns at most one record.
func (r *OrderRepository) List(ctx context.Context, filters OrderFilters) ([]models.Order, error) {
	query := database.DB.WithContext(ctx).
		Preload("Patient").
		Preload("CreatedBy").
		Order("created_at DESC")

	if filters.WardID != "" {
		query = query.Where("ward_id = ?", filters.WardID)
	}
	if filters.PatientID != "" {
		query = query.Where("patient_id = ?", filters.PatientID)
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		query = query.Where("updated_at BETWEEN ? AND ?", *filters.StartDate, *filters.EndDate)
	}
	if filters.Latest && filters.PatientID != "" {
		query = query.Limit(1)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Save persists changes to an existing order.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	if err := database.DB.WithContext(ctx).Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// Delete hard-deletes an order.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result := database.DB.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
