package services

import (
	"ChemoOrder/models"
	"context"
)

// DrugCatalog is the catalog surface EnrichOrders needs; the repository
// satisfies it, tests swap in an in-memory one.
type DrugCatalog interface {
	GetAllDrugs(ctx context.Context) ([]models.Drug, error)
	GetAllRegimens(ctx context.Context) ([]models.Regimen, error)
	GetDrugsByIDs(ctx context.Context, ids []string) ([]models.Drug, error)
}

type DrugService struct {
	catalog DrugCatalog
}

func NewDrugService(catalog DrugCatalog) *DrugService {
	return &DrugService{catalog: catalog}
}

// GetAllDrugs returns the drug catalog.
func (s *DrugService) GetAllDrugs(ctx context.Context) ([]models.Drug, error) {
	return s.catalog.GetAllDrugs(ctx)
}

// GetAllRegimens returns the regimen catalog.
func (s *DrugService) GetAllRegimens(ctx context.Context) ([]models.Regimen, error) {
	return s.catalog.GetAllRegimens(ctx)
}

// EnrichOrders resolves drug names for every view in one batched catalog
// fetch. Entries referencing an unknown drug id keep whatever name they
// already carry, so free-text drugs pass through untouched. Calling it
// twice is a no-op.
func (s *DrugService) EnrichOrders(ctx context.Context, views []*OrderView) error {
	idSet := make(map[string]struct{})
	for _, view := range views {
		for _, drug := range view.Drugs {
			if drug.DrugID != "" {
				idSet[drug.DrugID] = struct{}{}
			}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	drugs, err := s.catalog.GetDrugsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(drugs))
	for _, drug := range drugs {
		names[drug.ID] = drug.Name
	}

	for _, view := range views {
		for i := range view.Drugs {
			if name, ok := names[view.Drugs[i].DrugID]; ok {
				view.Drugs[i].Name = name
			}
		}
	}
	return nil
}
