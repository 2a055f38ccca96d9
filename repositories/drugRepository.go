package repositories

import (
	"ChemoOrder/cache"
	"ChemoOrder/database"
	"ChemoOrder/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

const (
	catalogCacheExpiry = 24 * time.Hour
	drugsCacheKey      = "drugs_cache"
	regimensCacheKey   = "regimens_cache"
)

// DrugRepository reads the reference catalogs. They change rarely, so reads
// go through the redis cache.
type DrugRepository struct {
	cache *cache.Cache
}

func NewDrugRepository(cache *cache.Cache) *DrugRepository {
	return &DrugRepository{cache: cache}
}

// GetAllDrugs returns the full drug catalog.
func (r *DrugRepository) GetAllDrugs(ctx context.Context) ([]models.Drug, error) {
	cached, err := r.cache.Get(ctx, drugsCacheKey)
	if err == nil && cached != "" {
		var drugs []models.Drug
		if err := json.Unmarshal([]byte(cached), &drugs); err == nil {
			return drugs, nil
		}
	} else if err != nil {
		log.Printf("Failed to get drugs from cache: %v", err)
	}

	var drugs []models.Drug
	if err := database.DB.WithContext(ctx).Order("name").Find(&drugs).Error; err != nil {
		return nil, fmt.Errorf("failed to get drugs: %w", err)
	}

	if data, err := json.Marshal(drugs); err == nil {
		if err := r.cache.Set(ctx, drugsCacheKey, data, catalogCacheExpiry); err != nil {
			log.Printf("Failed to set drugs in cache: %v", err)
		}
	}
	return drugs, nil
}

// GetDrugsByIDs resolves a set of drug references in one batched fetch.
func (r *DrugRepository) GetDrugsByIDs(ctx context.Context, ids []string) ([]models.Drug, error) {
	if len(ids) == 0 {
		return []models.Drug{}, nil
	}
	var drugs []models.Drug
	if err := database.DB.WithContext(ctx).Where("id IN ?", ids).Find(&drugs).Error; err != nil {
		return nil, fmt.Errorf("failed to get drugs by ids: %w", err)
	}
	return drugs, nil
}

// GetAllRegimens returns the full regimen catalog.
func (r *DrugRepository) GetAllRegimens(ctx context.Context) ([]models.Regimen, error) {
	cached, err := r.cache.Get(ctx, regimensCacheKey)
	if err == nil && cached != "" {
		var regimens []models.Regimen
		if err := json.Unmarshal([]byte(cached), &regimens); err == nil {
			return regimens, nil
		}
	} else if err != nil {
		log.Printf("Failed to get regimens from cache: %v", err)
	}

	var regimens []models.Regimen
	if err := database.DB.WithContext(ctx).Order("name").Find(&regimens).Error; err != nil {
		return nil, fmt.Errorf("failed to get regimens: %w", err)
	}

	if data, err := json.Marshal(regimens); err == nil {
		if err := r.cache.Set(ctx, regimensCacheKey, data, catalogCacheExpiry); err != nil {
			log.Printf("Failed to set regimens in cache: %v", err)
		}
	}
	return regimens, nil
}
