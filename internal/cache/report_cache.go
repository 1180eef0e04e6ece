package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"eapmetrics/internal/scoring"
)

// ReportCache holds computed report views in Redis. Every entry is
// registered under the surveys it was computed from so a new response
// invalidates all views that depend on it.
type ReportCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}, surveyIDs ...string) error
	Invalidate(ctx context.Context, surveyID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func indexKey(surveyID string) string {
	return fmt.Sprintf("survey:%s:views", surveyID)
}

// ReportKey names the cached report of one instance under one filter
func ReportKey(surveyID string, filter scoring.DemographicFilter) string {
	return fmt.Sprintf("survey:%s:report:%s", surveyID, filterKey(filter))
}

// BranchesKey names the cached branch counts of one instance
func BranchesKey(surveyID string) string {
	return fmt.Sprintf("survey:%s:branches", surveyID)
}

// TrendKey names the cached comparison of two instances under one filter
func TrendKey(olderID, newerID string, filter scoring.DemographicFilter) string {
	return fmt.Sprintf("survey:%s:trend:%s:%s", newerID, olderID, filterKey(filter))
}

func filterKey(f scoring.DemographicFilter) string {
	if f.IsEmpty() {
		return "all"
	}
	g := strings.ToLower(strings.TrimSpace(f.Gender))
	a := strings.ToLower(strings.TrimSpace(f.AgeBand))
	return "g=" + g + "|a=" + a
}

func (c *reportCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *reportCache) Set(ctx context.Context, key string, v interface{}, surveyIDs ...string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)
		for _, id := range surveyIDs {
			pipe.SAdd(ctx, indexKey(id), key)
			pipe.Expire(ctx, indexKey(id), c.ttl)
		}
		return nil
	})
	return err
}

func (c *reportCache) Invalidate(ctx context.Context, surveyID string) error {
	idx := indexKey(surveyID)
	keys, err := c.client.SMembers(ctx, idx).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys = append(keys, idx)
	return c.client.Del(ctx, keys...).Err()
}
