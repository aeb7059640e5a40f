package normalization

import (
	"strings"

	"compliance/normalization/algorithms"
)

// bankKeywords отраслевые слова, которые убираются из названий банков
var bankKeywords = map[string][]string{
	"en":   {"Bank", "Banking", "Financial", "Finance", "Credit", "Savings"},
	"ru":   {"Банк", "Банка", "Кредит", "Финанс"},
	"misc": {"Branch", "Филиал", "Отделение", "Head Office", "HQ"},
}

// bankKeywordLanguages фиксирует порядок обхода словарей
var bankKeywordLanguages = []string{"en", "ru", "misc"}

// bankStripper удаляет банковские ключевые слова.
// Однословные ключи сравниваются по основе Snowball, чтобы ловить "Банком", "Филиала".
type bankStripper struct {
	phrases *wordMatcher
	stems   map[string]struct{}
	stemmer algorithms.Stemmer
}

func newBankStripper(stemmer algorithms.Stemmer) *bankStripper {
	var all []string
	stems := make(map[string]struct{})
	for _, lang := range bankKeywordLanguages {
		for _, kw := range bankKeywords[lang] {
			all = append(all, kw)
			if !strings.Contains(kw, " ") && algorithms.IsCyrillicWord(kw) {
				stems[stemmer.Stem(kw)] = struct{}{}
			}
		}
	}
	return &bankStripper{
		phrases: newWordMatcher(all, nil),
		stems:   stems,
		stemmer: stemmer,
	}
}

// Strip убирает ключевые слова из названия банка
func (b *bankStripper) Strip(name string) string {
	cleaned := b.phrases.removeAll(name)

	fields := strings.Fields(cleaned)
	kept := fields[:0]
	for _, field := range fields {
		word := strings.Trim(field, `"'.,;:()`)
		if word != "" && algorithms.IsCyrillicWord(word) {
			if _, ok := b.stems[b.stemmer.Stem(word)]; ok {
				continue
			}
		}
		kept = append(kept, field)
	}
	return tidy(strings.Join(kept, " "))
}
