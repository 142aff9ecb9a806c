package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang-backtest/config"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/common"
)

// ResultRepository menyimpan hasil backtest yang sudah selesai di cache in-memory.
type ResultRepository interface {
	Save(ctx context.Context, result *model.BacktestResult) error
	Get(ctx context.Context, id string) (*model.BacktestResult, error)
	GetMany(ctx context.Context, ids []string) ([]*model.BacktestResult, error)
	List(ctx context.Context) ([]*model.BacktestResult, error)
}

type resultRepository struct {
	cfg           *config.Config
	inmemoryCache cache.Cache
}

func NewResultRepository(cfg *config.Config, inmemoryCache cache.Cache) ResultRepository {
	return &resultRepository{cfg: cfg, inmemoryCache: inmemoryCache}
}

func resultKey(id string) string {
	return fmt.Sprintf(common.KEY_BACKTEST_RESULT, id)
}

func (r *resultRepository) Save(_ context.Context, result *model.BacktestResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("%w: result without id", model.ErrData)
	}
	r.inmemoryCache.Set(resultKey(result.ID), result, r.cfg.Cache.DefaultExpiration)
	return nil
}

func (r *resultRepository) Get(_ context.Context, id string) (*model.BacktestResult, error) {
	if result, found := cache.GetFromCache[*model.BacktestResult](r.inmemoryCache, resultKey(id)); found {
		return result, nil
	}
	return nil, fmt.Errorf("%w: backtest %s", model.ErrNotFound, id)
}

func (r *resultRepository) GetMany(ctx context.Context, ids []string) ([]*model.BacktestResult, error) {
	results := make([]*model.BacktestResult, 0, len(ids))
	for _, id := range ids {
		result, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// List returns the stored results, newest first.
func (r *resultRepository) List(_ context.Context) ([]*model.BacktestResult, error) {
	var results []*model.BacktestResult
	for _, key := range r.inmemoryCache.Keys() {
		if !strings.HasPrefix(key, common.KEY_BACKTEST_RESULT_PREFIX) {
			continue
		}
		if result, found := cache.GetFromCache[*model.BacktestResult](r.inmemoryCache, key); found {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}
