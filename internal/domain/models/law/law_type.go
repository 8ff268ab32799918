package law

import (
	"fmt"

	"lawlow/internal/domain"
)

// LawType discriminates precedents from statutes.
type LawType string

const (
	TypePrecedent LawType = "prec"
	TypeStatute   LawType = "statute"
)

// ParseLawType validates a path or query value.
func ParseLawType(s string) (LawType, error) {
	switch LawType(s) {
	case TypePrecedent, TypeStatute:
		return LawType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown law type %q", domain.ErrValidation, s)
	}
}

// UpstreamTarget is the `target` parameter of the law API.
func (t LawType) UpstreamTarget() string {
	if t == TypeStatute {
		return "law"
	}
	return "prec"
}

// UpstreamSort orders precedents by decision date and statutes by effective date, newest first.
func (t LawType) UpstreamSort() string {
	if t == TypeStatute {
		return "efdes"
	}
	return "ddes"
}

// Label is the Korean noun used in user-facing messages and prompts.
func (t LawType) Label() string {
	if t == TypeStatute {
		return "법령"
	}
	return "판례"
}

// Subject returns the label with its subject particle (판례가 / 법령이).
func (t LawType) Subject() string {
	if t == TypeStatute {
		return "법령이"
	}
	return "판례가"
}

func (t LawType) String() string { return string(t) }
