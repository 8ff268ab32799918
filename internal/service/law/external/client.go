package external

import (
	"context"

	"lawlow/internal/domain/models/law"
	"lawlow/internal/xmltree"
)

// LawClient defines the interface for the upstream law search API.
type LawClient interface {
	// Search runs one list query. A response without a result collection is
	// a valid zero-match envelope, not an error.
	Search(ctx context.Context, params law.SearchParams) (*law.LawSearchEnvelope, error)

	// FetchDetail returns the normalized detail record, or nil when the API
	// has no record for id.
	FetchDetail(ctx context.Context, id string, lawType law.LawType) (*xmltree.Node, error)
}
