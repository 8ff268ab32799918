package law

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	models "lawlow/internal/domain/models/law"
	"lawlow/internal/service/law/external"
	"lawlow/internal/xmltree"
)

// CachedLawClient keeps recently fetched details in memory. Searches and
// missing records are never cached.
type CachedLawClient struct {
	next    external.LawClient
	details *expirable.LRU[string, *xmltree.Node]
}

// NewCachedLawClient wraps next with a detail cache of the given size and TTL.
func NewCachedLawClient(next external.LawClient, size int, ttl time.Duration) *CachedLawClient {
	return &CachedLawClient{
		next:    next,
		details: expirable.NewLRU[string, *xmltree.Node](size, nil, ttl),
	}
}

// Search implements external.LawClient.
func (c *CachedLawClient) Search(ctx context.Context, params models.SearchParams) (*models.LawSearchEnvelope, error) {
	return c.next.Search(ctx, params)
}

// FetchDetail implements external.LawClient.
func (c *CachedLawClient) FetchDetail(ctx context.Context, id string, lawType models.LawType) (*xmltree.Node, error) {
	key := string(lawType) + ":" + id
	if node, ok := c.details.Get(key); ok {
		return node, nil
	}

	node, err := c.next.FetchDetail(ctx, id, lawType)
	if err != nil || node == nil {
		return node, err
	}
	c.details.Add(key, node)
	return node, nil
}
