package completion

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const promptBodyWords = 200

// Token budgets per prompt kind.
const (
	MetaDescriptionMaxTokens = 100
	AltTextMaxTokens         = 50
	SEOTitleMaxTokens        = 60
	BlogPostMaxTokens        = 4000
)

func MetaDescriptionPrompt(title, body string) string {
	return fmt.Sprintf(
		"Generate a compelling meta description (max 155 characters) for this content:\n\nTitle: %s\n\nContent: %s\n\nRespond with only the meta description, no quotes or explanation.",
		title,
		PromptBody(body),
	)
}

func AltTextPrompt(context string) string {
	if strings.TrimSpace(context) == "" {
		context = "general website image"
	}
	return fmt.Sprintf(
		"Generate a descriptive alt text (max 125 characters) for an image. Context: %s\n\nRespond with only the alt text, no quotes.",
		context,
	)
}

func SEOTitlePrompt(title, body string) string {
	return fmt.Sprintf(
		"Rewrite this page title as an SEO title between 30 and 60 characters that keeps its meaning:\n\nCurrent title: %s\n\nContent: %s\n\nRespond with only the title, no quotes or explanation.",
		title,
		PromptBody(body),
	)
}

var lengthGuide = map[string]string{
	"short":  "500-800 words",
	"medium": "1000-1500 words",
	"long":   "2000-2500 words",
}

type BlogPostOptions struct {
	Length   string
	Tone     string
	Language string
}

func DefaultBlogPostOptions() BlogPostOptions {
	return BlogPostOptions{
		Length:   "medium",
		Tone:     "professional",
		Language: "pt_BR",
	}
}

func BlogPostPrompt(keyword string, opts BlogPostOptions) string {
	def := DefaultBlogPostOptions()
	guide, ok := lengthGuide[opts.Length]
	if !ok {
		guide = lengthGuide[def.Length]
	}
	if opts.Tone == "" {
		opts.Tone = def.Tone
	}
	if opts.Language == "" {
		opts.Language = def.Language
	}

	return fmt.Sprintf(
		"Write a complete SEO-optimized blog post about: %s\n\n"+
			"Requirements:\n"+
			"- Length: %s\n"+
			"- Tone: %s\n"+
			"- Language: %s\n"+
			"- Include H2 and H3 headings\n"+
			"- Include a compelling introduction\n"+
			"- Include a conclusion with call-to-action\n"+
			"- Naturally include the keyword throughout\n\n"+
			"Format the response in HTML with proper heading tags.",
		keyword, guide, opts.Tone, opts.Language,
	)
}

// PromptBody converts an HTML body to markdown text and keeps its first 200 words.
func PromptBody(body string) string {
	text := body
	converter := md.NewConverter("", true, nil)
	if converted, err := converter.ConvertString(body); err == nil {
		text = converted
	}

	words := strings.Fields(text)
	if len(words) <= promptBodyWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:promptBodyWords], " ") + "..."
}

// CleanResponse strips whitespace and wrapping quotes models tend to add.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)
	for _, q := range []string{`"`, `'`, "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(text) >= len(q)+len(closing) && strings.HasPrefix(text, q) && strings.HasSuffix(text, closing) {
			text = strings.TrimSpace(text[len(q) : len(text)-len(closing)])
		}
	}
	return text
}
