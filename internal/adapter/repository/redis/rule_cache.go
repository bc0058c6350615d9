package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// RuleCache implements usecase.RuleCache. Cached rule sets are keyed per
// event code; an index set per business makes Invalidate a bounded DEL
// instead of a SCAN.
type RuleCache struct {
	client *redis.Client
	prefix string
}

// NewRuleCache creates a new RuleCache.
func NewRuleCache(client *redis.Client) *RuleCache {
	return &RuleCache{
		client: client,
		prefix: "rules:",
	}
}

// Get retrieves the cached rule set for an event code. The second return is
// false on a miss.
func (c *RuleCache) Get(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, bool, error) {
	payload, err := c.client.Get(ctx, c.eventKey(tenantID, businessID, eventCode)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rules []*domain.AccountingRule
	if err := json.Unmarshal(payload, &rules); err != nil {
		return nil, false, err
	}

	return rules, true, nil
}

// Set caches the rule set for an event code and records the key in the
// business's index set.
func (c *RuleCache) Set(ctx context.Context, tenantID, businessID, eventCode string, rules []*domain.AccountingRule, ttl time.Duration) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return err
	}

	key := c.eventKey(tenantID, businessID, eventCode)
	index := c.indexKey(tenantID, businessID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.SAdd(ctx, index, key)
	// The index outlives its members by one TTL at most.
	pipe.Expire(ctx, index, 2*ttl)
	_, err = pipe.Exec(ctx)

	return err
}

// Invalidate drops every cached rule set of the business.
func (c *RuleCache) Invalidate(ctx context.Context, tenantID, businessID string) error {
	index := c.indexKey(tenantID, businessID)

	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	keys = append(keys, index)
	return c.client.Del(ctx, keys...).Err()
}

func (c *RuleCache) eventKey(tenantID, businessID, eventCode string) string {
	return fmt.Sprintf("%s%s:%s:%s", c.prefix, tenantID, businessID, eventCode)
}

func (c *RuleCache) indexKey(tenantID, businessID string) string {
	return fmt.Sprintf("%s%s:%s:keys", c.prefix, tenantID, businessID)
}
