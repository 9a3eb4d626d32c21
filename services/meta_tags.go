package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rankforge/site-backend/errs"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	maxMetaTitle       = 60
	maxMetaDescription = 160
)

// MetaTags is a suggested title and description for a page.
type MetaTags struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// MetaTagGenerator drafts SEO meta tags with an LLM.
type MetaTagGenerator struct {
	model llms.Model
}

// NewGeminiMetaTagGenerator returns nil when apiKey is empty.
func NewGeminiMetaTagGenerator(ctx context.Context, apiKey, model string) (*MetaTagGenerator, error) {
	if apiKey == "" {
		return nil, nil
	}
	opts := []googleai.Option{googleai.WithAPIKey(apiKey)}
	if model != "" {
		opts = append(opts, googleai.WithDefaultModel(model))
	}
	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &MetaTagGenerator{model: llm}, nil
}

func NewMetaTagGenerator(model llms.Model) *MetaTagGenerator {
	return &MetaTagGenerator{model: model}
}

const metaTagPrompt = `You write SEO meta tags for an agency blog.
Return only a JSON object with the keys "meta_title" (at most %d characters) and
"meta_description" (at most %d characters). No markdown.

Title: %s
Keywords: %s
Content:
%s`

// Suggest asks the model for meta tags and clamps them to search engine display limits.
func (g *MetaTagGenerator) Suggest(ctx context.Context, title, content string, keywords []string) (*MetaTags, error) {
	if g == nil || g.model == nil {
		return nil, errs.NewServiceNotConfiguredError("Meta tag generation")
	}
	if utf8.RuneCountInString(content) > 6000 {
		content = string([]rune(content)[:6000])
	}
	prompt := fmt.Sprintf(metaTagPrompt, maxMetaTitle, maxMetaDescription, title, strings.Join(keywords, ", "), content)

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.4))
	if err != nil {
		return nil, errs.FromOutbound("Meta tag generation", err)
	}

	tags, err := parseMetaTags(out)
	if err != nil {
		return nil, errs.NewServiceUnavailableError("Meta tag generation", err)
	}
	return tags, nil
}

func parseMetaTags(out string) (*MetaTags, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	if i, j := strings.Index(out, "{"), strings.LastIndex(out, "}"); i >= 0 && j > i {
		out = out[i : j+1]
	}

	var tags MetaTags
	if err := json.Unmarshal([]byte(out), &tags); err != nil {
		return nil, fmt.Errorf("unexpected model output: %w", err)
	}
	if tags.MetaTitle == "" || tags.MetaDescription == "" {
		return nil, fmt.Errorf("model output is missing fields")
	}
	tags.MetaTitle = clamp(tags.MetaTitle, maxMetaTitle)
	tags.MetaDescription = clamp(tags.MetaDescription, maxMetaDescription)
	return &tags, nil
}

func clamp(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
