package law

import "strconv"

// StatuteDetail is a codified law with its articles and addenda.
type StatuteDetail struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	EffectiveDate int        `json:"effectiveDate"`
	Articles      []Article  `json:"articles"`
	Addenda       []Addendum `json:"addenda"`
	IsBookmarked  *bool      `json:"isBookmarked,omitempty"`
}

func (s *StatuteDetail) LawID() string         { return strconv.Itoa(s.ID) }
func (s *StatuteDetail) Type() LawType         { return TypeStatute }
func (s *StatuteDetail) SetBookmarked(on bool) { s.IsBookmarked = &on }

// Article is one 조문단위. IsArticle is the upstream flag ("조문" or "전문").
type Article struct {
	Key           string      `json:"key"`
	Number        string      `json:"number"`
	IsArticle     string      `json:"isArticle"`
	Title         string      `json:"title,omitempty"`
	EffectiveDate int         `json:"effectiveDate"`
	Content       string      `json:"content"`
	Paragraphs    []Paragraph `json:"paragraphs,omitempty"`
	References    []string    `json:"references,omitempty"`
}

// Paragraph is a 항.
type Paragraph struct {
	Number        string         `json:"number,omitempty"`
	Content       string         `json:"content,omitempty"`
	Subparagraphs []Subparagraph `json:"subparagraphs,omitempty"`
}

// Subparagraph is a 호.
type Subparagraph struct {
	Number  string `json:"number,omitempty"`
	Content string `json:"content,omitempty"`
	Items   []Item `json:"items,omitempty"`
}

// Item is a 목.
type Item struct {
	Number  string `json:"number,omitempty"`
	Content string `json:"content,omitempty"`
}

// Addendum is a 부칙단위.
type Addendum struct {
	Key                string `json:"key"`
	PromulgationDate   int    `json:"promulgationDate"`
	PromulgationNumber int    `json:"promulgationNumber"`
	Content            string `json:"content"`
}
