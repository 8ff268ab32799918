package summary

import (
	"lawlow/internal/config"
	models "lawlow/internal/domain/models/law"
)

// BuildOptions selects the conversation template.
type BuildOptions struct {
	// OnlySummary asks for a summary without the title/keyword format.
	OnlySummary bool
	// RecentSummary is the previous answer to simplify further.
	RecentSummary string
}

func (o BuildOptions) plainSummary() bool {
	return o.OnlySummary || o.RecentSummary != ""
}

// BuildMessages assembles the summary conversation for a detail.
//
// The template has three slots: a plain summary, the first full request that
// also asks for "제목:"/"키워드:" lines, and a re-simplify request that replays
// the previous answer and asks for an easier version.
func BuildMessages(detail models.Detail, prompts config.Prompts, opts BuildOptions) ([]models.PromptMessage, error) {
	content, err := LawContent(detail)
	if err != nil {
		return nil, err
	}
	label := detail.Type().Label()

	initContent := prompts.OnlySummary
	ask := "판례/법령 내용을 주세요."
	question := label + " 내용 누구나 이해하기 쉬운 수준으로 요약해서 설명 부탁해."
	if !opts.plainSummary() {
		initContent = prompts.TitleKeywords
		ask += " 무조건 제목:, 키워드: 형식으로 알려드립니다."
		question = label + "의 이해하기 쉬운 제목과 키워드를 알려줘."
	}

	msgs := []models.PromptMessage{
		{Role: models.RoleSystem, Content: initContent},
		{Role: models.RoleUser, Content: initContent},
		{Role: models.RoleAssistant, Content: ask},
		{Role: models.RoleUser, Content: question + " " + content},
	}

	if opts.RecentSummary != "" {
		msgs = append(msgs,
			models.PromptMessage{Role: models.RoleAssistant, Content: StripMarkup(opts.RecentSummary)},
			models.PromptMessage{Role: models.RoleUser, Content: prompts.MoreEasy},
		)
	}

	return msgs, nil
}
