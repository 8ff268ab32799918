package law

// Detail is implemented by PrecedentDetail and StatuteDetail.
type Detail interface {
	LawID() string
	Type() LawType
	SetBookmarked(bool)
}

// PrecedentDetail is a court ruling record.
type PrecedentDetail struct {
	ID           string `json:"id"`
	CaseNumber   string `json:"caseNumber"`
	CaseType     string `json:"caseType"`
	RulingType   string `json:"rulingType"`
	Ruling       string `json:"ruling"`
	CourtName    string `json:"courtName"`
	DecisionDate string `json:"decisionDate"`
	CaseName     string `json:"caseName"`
	Content      string `json:"content"`
	IsBookmarked *bool  `json:"isBookmarked,omitempty"`
}

func (p *PrecedentDetail) LawID() string         { return p.ID }
func (p *PrecedentDetail) Type() LawType         { return TypePrecedent }
func (p *PrecedentDetail) SetBookmarked(on bool) { p.IsBookmarked = &on }
