package algorithms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quoteReplacer приводит типографские кавычки к прямым
var quoteReplacer = strings.NewReplacer(
	"«", `"`,
	"»", `"`,
	"„", `"`,
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"‚", "'",
	"`", "'",
)

// NormalizeQuotes нормализует различные типы кавычек
func NormalizeQuotes(text string) string {
	return quoteReplacer.Replace(text)
}

// NormalizeWhitespace сворачивает любые последовательности пробельных символов в один пробел
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeHyphens заменяет длинные тире и минусы на обычный дефис
func NormalizeHyphens(text string) string {
	text = strings.ReplaceAll(text, "—", "-")
	text = strings.ReplaceAll(text, "–", "-")
	return strings.ReplaceAll(text, "−", "-")
}

// NFC приводит строку к канонической составной форме Unicode.
// Без этого "й", набранная как "и" + U+0306, не совпадет с таблицами транслитерации.
func NFC(text string) string {
	return norm.NFC.String(text)
}

// CleanName выполняет базовую очистку названия: NFC, кавычки, пробелы.
func CleanName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	name = NFC(name)
	name = NormalizeQuotes(name)
	return NormalizeWhitespace(name)
}

// FoldDiacritics удаляет диакритические знаки: "Société Générale" -> "Societe Generale".
// Кириллица должна быть транслитерирована заранее, иначе "й" потеряет кратку.
func FoldDiacritics(text string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text, err
	}
	return out, nil
}

// RemovePunctuation удаляет знаки пунктуации
func RemovePunctuation(text string) string {
	var builder strings.Builder
	for _, r := range text {
		if !unicode.IsPunct(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Words разбивает текст на слова из букв и цифр
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// IsCyrillicWord проверяет, состоит ли слово преимущественно из кириллицы
func IsCyrillicWord(word string) bool {
	cyr, lat := 0, 0
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyr++
		case unicode.Is(unicode.Latin, r):
			lat++
		}
	}
	return cyr > 0 && cyr >= lat
}

// IsLatinWord проверяет, что слово содержит только латинские буквы
func IsLatinWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}
