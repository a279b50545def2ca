package entities

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// SummaryStyle - тон резюме.
type SummaryStyle string

// Поддерживаемые стили.
const (
	StyleProfessional SummaryStyle = "professional"
	StyleCasual       SummaryStyle = "casual"
	StyleTechnical    SummaryStyle = "technical"
	StyleCreative     SummaryStyle = "creative"
)

// MinSummarizableLength - текст такой длины в символах и короче не отправляется на генерацию.
const MinSummarizableLength = 10

// ErrInvalidStyle возвращается для неизвестного стиля.
var ErrInvalidStyle = errors.New("invalid summary style")

// Styles перечисляет все стили.
func Styles() []SummaryStyle {
	return []SummaryStyle{StyleProfessional, StyleCasual, StyleTechnical, StyleCreative}
}

// ParseSummaryStyle разбирает стиль. Пустая строка означает professional.
func ParseSummaryStyle(s string) (SummaryStyle, error) {
	style := SummaryStyle(strings.ToLower(strings.TrimSpace(s)))
	if style == "" {
		return StyleProfessional, nil
	}
	for _, known := range Styles() {
		if style == known {
			return style, nil
		}
	}
	return "", ErrInvalidStyle
}

// Summarizable сообщает, достаточно ли длинный текст для генерации резюме.
// Длина считается в символах, а не в байтах UTF-8.
func Summarizable(content string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(content)) > MinSummarizableLength
}
