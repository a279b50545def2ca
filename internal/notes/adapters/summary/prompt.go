package summary

import (
	"strings"

	"notebuddy/internal/notes/domain/entities"
)

var styleInstructions = map[entities.SummaryStyle]string{
	entities.StyleProfessional: "Provide a concise, business-oriented summary focusing on key points and actionable insights.",
	entities.StyleCasual:       "Create a friendly, conversational summary that captures the main ideas in an approachable way.",
	entities.StyleTechnical:    "Generate a detailed, technical summary emphasizing specific details and technical concepts.",
	entities.StyleCreative:     "Create an engaging, narrative-style summary that captures the essence of the content in a creative way.",
}

// BuildPrompt собирает запрос к модели. Неизвестный стиль трактуется как professional.
func BuildPrompt(content string, style entities.SummaryStyle) string {
	instruction, ok := styleInstructions[style]
	if !ok {
		instruction = styleInstructions[entities.StyleProfessional]
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nText to summarize:\n")
	b.WriteString(content)
	b.WriteString("\n\nKeep the summary concise and focused.")
	return b.String()
}
