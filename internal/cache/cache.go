package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// StatsCache garde les statistiques hebdomadaires dans Redis. La clé contient l'époque
// du moteur et la révision du planning : toute écriture, comme tout redémarrage, rend
// les anciennes entrées inutilisées.
type StatsCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

func New(rdb *redis.Client, ttl, timeout time.Duration) *StatsCache {
	return &StatsCache{
		rdb:     rdb,
		ttl:     ttl,
		timeout: timeout,
	}
}

// Key ne dépend pas de l'ordre des jours demandés
func Key(epoch string, revision uint64, days []domain.Day) string {
	if len(days) == 0 {
		return fmt.Sprintf("planning:stats:%s:%d:all", epoch, revision)
	}

	sorted := slices.Clone(days)
	slices.SortFunc(sorted, func(a, b domain.Day) int {
		return a.Index() - b.Index()
	})
	sorted = slices.Compact(sorted)

	names := make([]string, 0, len(sorted))
	for _, d := range sorted {
		names = append(names, string(d))
	}
	return fmt.Sprintf("planning:stats:%s:%d:%s", epoch, revision, strings.Join(names, ","))
}

// Get renvoie false sans erreur si la clé est absente
func (c *StatsCache) Get(key string) (*domain.AggregateReport, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	report := &domain.AggregateReport{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *StatsCache) Set(key string, report *domain.AggregateReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *StatsCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return c.rdb.Ping(ctx).Err()
}
