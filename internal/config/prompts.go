package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFiles embed.FS

// Prompts are the instruction templates of the summary conversation.
type Prompts struct {
	// OnlySummary instructs a plain summary (first or re-simplify).
	OnlySummary string `yaml:"only_summary"`
	// TitleKeywords instructs the "제목:/키워드:" answer format.
	TitleKeywords string `yaml:"title_keywords"`
	// MoreEasy is the final user turn of a re-simplify request.
	MoreEasy string `yaml:"more_easy"`
}

// LoadPrompts reads the embedded defaults, then an optional YAML file, then
// the per-prompt environment variables. Later sources win per field.
func LoadPrompts(path string) (Prompts, error) {
	var p Prompts

	data, err := promptFiles.ReadFile("prompts/summary.yaml")
	if err != nil {
		return p, fmt.Errorf("failed to read embedded prompts: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal embedded prompts: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var override Prompts
		if err := yaml.Unmarshal(data, &override); err != nil {
			return p, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
		p.merge(override)
	}

	p.merge(Prompts{
		OnlySummary:   os.Getenv("LAW_SUMMARY_INIT_PROMPT_ONLY_SUMMARY"),
		TitleKeywords: os.Getenv("LAW_SUMMARY_INIT_PROMPT"),
		MoreEasy:      os.Getenv("LAW_MORE_EASY_PROMPT"),
	})

	return p, nil
}

func (p *Prompts) merge(o Prompts) {
	if o.OnlySummary != "" {
		p.OnlySummary = o.OnlySummary
	}
	if o.TitleKeywords != "" {
		p.TitleKeywords = o.TitleKeywords
	}
	if o.MoreEasy != "" {
		p.MoreEasy = o.MoreEasy
	}
}
