package algorithms

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer возвращает основу слова
type Stemmer interface {
	Stem(word string) string
}

// SnowballStemmer выбирает язык Snowball по алфавиту слова.
// Кэша нет: стеммер вызывается конкурентно из разных запросов.
type SnowballStemmer struct{}

// NewSnowballStemmer создает стеммер для русского и английского языков
func NewSnowballStemmer() *SnowballStemmer {
	return &SnowballStemmer{}
}

// Stem возвращает основу слова в нижнем регистре.
// Пример: "Банком" -> "банк", "Banking" -> "bank"
func (s *SnowballStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	language := ""
	switch {
	case IsCyrillicWord(normalized):
		language = "russian"
	case IsLatinWord(normalized):
		language = "english"
	default:
		return normalized
	}

	stemmed, err := snowball.Stem(normalized, language, true)
	if err != nil || stemmed == "" {
		return normalized
	}
	return stemmed
}
