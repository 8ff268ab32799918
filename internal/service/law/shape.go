package law

import (
	"strings"

	models "lawlow/internal/domain/models/law"
	"lawlow/internal/xmltree"
)

// shapeDetail converts a normalized detail payload into its typed record.
// Missing fields become zero values.
func shapeDetail(lawType models.LawType, node *xmltree.Node) models.Detail {
	if lawType == models.TypeStatute {
		return shapeStatute(node)
	}
	return shapePrecedent(node)
}

func shapePrecedent(n *xmltree.Node) *models.PrecedentDetail {
	return &models.PrecedentDetail{
		ID:           n.Get("판례정보일련번호").String(),
		CaseNumber:   n.Get("사건번호").String(),
		CaseType:     n.Get("사건종류명").String(),
		RulingType:   n.Get("판결유형").String(),
		Ruling:       n.Get("선고").String(),
		CourtName:    n.Get("법원명").String(),
		DecisionDate: n.Get("선고일자").String(),
		CaseName:     n.Get("사건명").String(),
		Content:      joinText(n.Get("판례내용")),
	}
}

func shapeStatute(n *xmltree.Node) *models.StatuteDetail {
	info := n.Get("기본정보")
	id, _ := info.Get("법령ID").Int()
	effective, _ := info.Get("시행일자").Int()

	s := &models.StatuteDetail{
		ID:            id,
		Name:          info.Get("법령명_한글").String(),
		EffectiveDate: effective,
		Articles:      []models.Article{},
		Addenda:       []models.Addendum{},
	}

	for _, a := range n.Path("조문", "조문단위").AsList() {
		s.Articles = append(s.Articles, shapeArticle(a))
	}
	for _, a := range n.Path("부칙", "부칙단위").AsList() {
		date, _ := a.Get("부칙공포일자").Int()
		number, _ := a.Get("부칙공포번호").Int()
		s.Addenda = append(s.Addenda, models.Addendum{
			Key:                a.Path("_attributes", "부칙키").String(),
			PromulgationDate:   date,
			PromulgationNumber: number,
			Content:            joinText(a.Get("부칙내용")),
		})
	}
	return s
}

func shapeArticle(a *xmltree.Node) models.Article {
	effective, _ := a.Get("조문시행일자").Int()
	article := models.Article{
		Key:           a.Path("_attributes", "조문키").String(),
		Number:        a.Get("조문번호").String(),
		IsArticle:     a.Get("조문여부").String(),
		Title:         a.Get("조문제목").String(),
		EffectiveDate: effective,
		Content:       joinText(a.Get("조문내용")),
		References:    a.Get("조문참고자료").Strings(),
	}

	for _, p := range a.Get("항").AsList() {
		paragraph := models.Paragraph{
			Number:  p.Get("항번호").String(),
			Content: joinText(p.Get("항내용")),
		}
		for _, h := range p.Get("호").AsList() {
			sub := models.Subparagraph{
				Number:  h.Get("호번호").String(),
				Content: joinText(h.Get("호내용")),
			}
			for _, m := range h.Get("목").AsList() {
				sub.Items = append(sub.Items, models.Item{
					Number:  m.Get("목번호").String(),
					Content: joinText(m.Get("목내용")),
				})
			}
			paragraph.Subparagraphs = append(paragraph.Subparagraphs, sub)
		}
		article.Paragraphs = append(article.Paragraphs, paragraph)
	}
	return article
}

// joinText flattens a scalar or (nested) array of scalars into lines.
func joinText(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != xmltree.Array {
		return n.String()
	}
	lines := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if s := joinText(item); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
