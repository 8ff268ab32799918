package law

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lawlow/internal/xmltree"
)

// SearchParams are the inputs of one upstream list query.
type SearchParams struct {
	Query string
	Type  LawType
	Page  int
	Take  int
}

// LawSearchEnvelope is a parsed list response. Results is a lone record or an
// array of records; nil means zero matches.
type LawSearchEnvelope struct {
	TotalCount int
	Results    *xmltree.Node
}

// ListQuery is the validated query string of a list request.
type ListQuery struct {
	Query string `json:"q"`
	Page  int    `json:"page"`
	Take  int    `json:"take"`
}

const (
	DefaultPage = 1
	DefaultTake = 5
	MaxTake     = 100
)

// Validate implements ozzo validation.
func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.RuneLength(0, 100)),
		validation.Field(&q.Page, validation.Required, validation.Min(1)),
		validation.Field(&q.Take, validation.Required, validation.Min(1), validation.Max(MaxTake)),
	)
}

// PageQuery is the paging window of a bookmark listing.
type PageQuery struct {
	Page int `json:"page"`
	Take int `json:"take"`
}

// Validate implements ozzo validation.
func (q PageQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Page, validation.Required, validation.Min(1)),
		validation.Field(&q.Take, validation.Required, validation.Min(1), validation.Max(MaxTake)),
	)
}

// Offset is the number of rows to skip.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Take
}
