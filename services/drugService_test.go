package services

import (
	"ChemoOrder/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog records batch lookups so tests can assert how often and with
// what the catalog is hit.
type fakeCatalog struct {
	drugs   map[string]string
	batches [][]string
}

func (f *fakeCatalog) GetAllDrugs(ctx context.Context) ([]models.Drug, error) {
	var drugs []models.Drug
	for id, name := range f.drugs {
		drugs = append(drugs, models.Drug{ID: id, Name: name})
	}
	return drugs, nil
}

func (f *fakeCatalog) GetAllRegimens(ctx context.Context) ([]models.Regimen, error) {
	return []models.Regimen{}, nil
}

func (f *fakeCatalog) GetDrugsByIDs(ctx context.Context, ids []string) ([]models.Drug, error) {
	f.batches = append(f.batches, ids)
	var drugs []models.Drug
	for _, id := range ids {
		if name, ok := f.drugs[id]; ok {
			drugs = append(drugs, models.Drug{ID: id, Name: name})
		}
	}
	return drugs, nil
}

func viewWithDrugs(drugs ...models.OrderDrug) *OrderView {
	return &OrderView{Drugs: drugs}
}

func TestEnrichOrdersResolvesNames(t *testing.T) {
	catalog := &fakeCatalog{drugs: map[string]string{
		"oxaliplatin":  "Oxaliplatin",
		"fluorouracil": "5-Fluorouracil",
	}}
	service := NewDrugService(catalog)

	view := viewWithDrugs(
		models.OrderDrug{DrugID: "oxaliplatin", Dose: "85 mg/m2"},
		models.OrderDrug{DrugID: "fluorouracil", Dose: "400 mg/m2"},
	)

	require.NoError(t, service.EnrichOrders(context.Background(), []*OrderView{view}))
	assert.Equal(t, "Oxaliplatin", view.Drugs[0].Name)
	assert.Equal(t, "5-Fluorouracil", view.Drugs[1].Name)
}

func TestEnrichOrdersBatchesAcrossViews(t *testing.T) {
	catalog := &fakeCatalog{drugs: map[string]string{
		"oxaliplatin": "Oxaliplatin",
		"cisplatin":   "Cisplatin",
	}}
	service := NewDrugService(catalog)

	views := []*OrderView{
		viewWithDrugs(models.OrderDrug{DrugID: "oxaliplatin"}),
		viewWithDrugs(models.OrderDrug{DrugID: "cisplatin"}, models.OrderDrug{DrugID: "oxaliplatin"}),
	}

	require.NoError(t, service.EnrichOrders(context.Background(), views))

	// One catalog round trip regardless of view or entry count.
	require.Len(t, catalog.batches, 1)
	assert.ElementsMatch(t, []string{"oxaliplatin", "cisplatin"}, catalog.batches[0])
}

func TestEnrichOrdersKeepsUnknownNames(t *testing.T) {
	catalog := &fakeCatalog{drugs: map[string]string{}}
	service := NewDrugService(catalog)

	view := viewWithDrugs(models.OrderDrug{DrugID: "other", Name: "Investigational agent"})

	require.NoError(t, service.EnrichOrders(context.Background(), []*OrderView{view}))
	assert.Equal(t, "Investigational agent", view.Drugs[0].Name)
}

func TestEnrichOrdersIdempotent(t *testing.T) {
	catalog := &fakeCatalog{drugs: map[string]string{"oxaliplatin": "Oxaliplatin"}}
	service := NewDrugService(catalog)

	view := viewWithDrugs(models.OrderDrug{DrugID: "oxaliplatin"})

	require.NoError(t, service.EnrichOrders(context.Background(), []*OrderView{view}))
	require.NoError(t, service.EnrichOrders(context.Background(), []*OrderView{view}))
	assert.Equal(t, "Oxaliplatin", view.Drugs[0].Name)
}

func TestEnrichOrdersSkipsCatalogWhenNothingToResolve(t *testing.T) {
	catalog := &fakeCatalog{drugs: map[string]string{}}
	service := NewDrugService(catalog)

	require.NoError(t, service.EnrichOrders(context.Background(), []*OrderView{viewWithDrugs()}))
	assert.Empty(t, catalog.batches)
}
