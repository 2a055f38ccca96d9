package repositories

import (
	"ChemoOrder/database"
	"ChemoOrder/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository struct{}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{}
}

// UpsertByHN resolves a patient by hospital number. The HN is the identity:
// an existing patient gets its name and AN refreshed, a new one is created
// under the acting ward.
func (r *PatientRepository) UpsertByHN(ctx context.Context, hn, fullName, an, wardID string) (*models.Patient, error) {
	if hn == "" {
		return nil, errors.New("patient HN is required")
	}

	var patient models.Patient
	err := database.DB.WithContext(ctx).First(&patient, "hn = ?", hn).Error
	if err == nil {
		patient.FullName = fullName
		patient.AN = an
		if err := database.DB.WithContext(ctx).Save(&patient).Error; err != nil {
			return nil, fmt.Errorf("failed to update patient: %w", err)
		}
		return &patient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	patient = models.Patient{
		ID:       uuid.New().String(),
		HN:       hn,
		AN:       an,
		FullName: fullName,
		WardID:   wardID,
		Status:   models.PatientStatusActive,
	}
	if err := database.DB.WithContext(ctx).Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return &patient, nil
}

// GetByID loads one patient.
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := database.DB.WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// List returns patients filtered by status. A warded identity only sees
// patients reachable through orders of its ward, with the preloaded orders
// filtered the same way.
func (r *PatientRepository) List(ctx context.Context, wardID, status string) ([]models.Patient, error) {
	query := database.DB.WithContext(ctx)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if wardID != "" {
		query = query.
			Where("id IN (?)", database.DB.Model(&models.Order{}).Select("patient_id").Where("ward_id = ?", wardID)).
			Preload("Orders", "ward_id = ?", wardID)
	} else {
		query = query.Preload("Orders")
	}

	var patients []models.Patient
	if err := query.Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// HasOrderInWard reports whether a patient is linked to a ward through at
// least one order.
func (r *PatientRepository) HasOrderInWard(ctx context.Context, patientID, wardID string) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Order{}).
		Where("patient_id = ? AND ward_id = ?", patientID, wardID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count patient orders: %w", err)
	}
	return count > 0, nil
}

// SetStatus flips a patient between ACTIVE and COMPLETED.
func (r *PatientRepository) SetStatus(ctx context.Context, id, status string) (*models.Patient, error) {
	patient, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patient.Status = status
	if err := database.DB.WithContext(ctx).Save(patient).Error; err != nil {
		return nil, fmt.Errorf("failed to update patient status: %w", err)
	}
	return patient, nil
}
