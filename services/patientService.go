package services

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/repositories"
	"context"
	"fmt"
)

type PatientService struct {
	patients *repositories.PatientRepository
}

func NewPatientService(patients *repositories.PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// List returns the identity's visible patients, optionally filtered by
// treatment status.
func (s *PatientService) List(ctx context.Context, identity middlewares.Identity, status string) ([]models.Patient, error) {
	return s.patients.List(ctx, identity.WardID, status)
}

// Get loads one patient. A warded identity may only read patients linked to
// its ward through at least one order; the patient's own ward also counts.
func (s *PatientService) Get(ctx context.Context, identity middlewares.Identity, id string) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWardAccess(ctx, identity, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// SetStatus flips a patient between ACTIVE and COMPLETED after the ward
// check.
func (s *PatientService) SetStatus(ctx context.Context, identity middlewares.Identity, id, status string) (*models.Patient, error) {
	if status != models.PatientStatusActive && status != models.PatientStatusCompleted {
		return nil, fmt.Errorf("%w: status must be ACTIVE or COMPLETED", models.ErrValidation)
	}
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWardAccess(ctx, identity, patient); err != nil {
		return nil, err
	}
	return s.patients.SetStatus(ctx, id, status)
}

func (s *PatientService) checkWardAccess(ctx context.Context, identity middlewares.Identity, patient *models.Patient) error {
	if identity.WardID == "" || patient.WardID == identity.WardID {
		return nil
	}
	linked, err := s.patients.HasOrderInWard(ctx, patient.ID, identity.WardID)
	if err != nil {
		return err
	}
	if !linked {
		return fmt.Errorf("%w: you do not have access to this patient", models.ErrForbidden)
	}
	return nil
}
