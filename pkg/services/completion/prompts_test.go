package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptBody(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		got := PromptBody("<p>Fresh <strong>sourdough</strong></p>\n<p>every   day</p>")
		assert.NotContains(t, got, "<p>")
		assert.Contains(t, got, "sourdough")
		assert.Contains(t, got, "every day")
	})

	t.Run("keeps the first 200 words", func(t *testing.T) {
		body := "<p>" + strings.Repeat("word ", 250) + "</p>"
		got := PromptBody(body)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Len(t, strings.Fields(strings.TrimSuffix(got, "...")), 200)
	})
}

func TestMetaDescriptionPrompt(t *testing.T) {
	p := MetaDescriptionPrompt("Bread 101", "<p>Flour and water</p>")
	assert.Contains(t, p, "max 155 characters")
	assert.Contains(t, p, "Title: Bread 101")
	assert.Contains(t, p, "Flour and water")
}

func TestAltTextPrompt(t *testing.T) {
	assert.Contains(t, AltTextPrompt(""), "Context: general website image")
	assert.Contains(t, AltTextPrompt("sourdough loaf"), "Context: sourdough loaf")
	assert.Contains(t, AltTextPrompt("x"), "max 125 characters")
}

func TestBlogPostPrompt(t *testing.T) {
	tests := []struct {
		length string
		want   string
	}{
		{"short", "500-800 words"},
		{"medium", "1000-1500 words"},
		{"long", "2000-2500 words"},
		{"epic", "1000-1500 words"},
	}
	for _, tt := range tests {
		p := BlogPostPrompt("sourdough", BlogPostOptions{Length: tt.length})
		assert.Contains(t, p, "about: sourdough")
		assert.Contains(t, p, "Length: "+tt.want)
		assert.Contains(t, p, "Tone: professional")
		assert.Contains(t, p, "Format the response in HTML")
	}
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "Fresh bread", CleanResponse(`  "Fresh bread" `))
	assert.Equal(t, "Fresh bread", CleanResponse("“Fresh bread”"))
	assert.Equal(t, `He said "hi"`, CleanResponse(`He said "hi"`))
	assert.Equal(t, "", CleanResponse(`""`))
}
