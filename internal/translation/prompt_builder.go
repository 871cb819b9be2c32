package translation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// PromptBuilder constructs system and user prompts for translation.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const systemPromptTemplate = `You are a professional translator of office documents.

Rules:
1. Translate %s into %s.
2. Preserve ALL placeholders like {{var_1}}, {{var_2}}, etc. Copy them exactly as-is into your translation.
3. Preserve line breaks, tabs and vertical tabs exactly where they occur.
4. Output ONLY the translation, nothing else.
5. Do NOT add explanations, notes, quotes or extra text.
6. If the text is already in the target language, return it unchanged.
7. Keep the tone and register of the original.`

// SystemPrompt returns the system prompt for one direction.
func (pb *PromptBuilder) SystemPrompt(source, target string) string {
	from := "the source language (detect it)"
	if name := languageName(source); name != "" {
		from = name
	}
	to := target
	if name := languageName(target); name != "" {
		to = name
	}
	return fmt.Sprintf(systemPromptTemplate, from, to)
}

// UserPrompt wraps the text to translate.
func (pb *PromptBuilder) UserPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Text to translate:\n")
	sb.WriteString(text)
	return sb.String()
}

// languageName gives the English name of a language tag, or "" when tag
// is AutoSource or cannot be parsed.
func languageName(tag string) string {
	if tag == "" || strings.EqualFold(tag, AutoSource) {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(t)
}
