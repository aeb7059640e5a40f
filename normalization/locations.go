package normalization

import (
	"regexp"
)

// locationKeywords города и указатели местоположения, которые мешают сопоставлению
var locationKeywords = []string{
	"в г.", "г.", "город", "city",
	"Moscow", "Moskva", "St. Petersburg", "SPb",
	"Astana", "Almaty", "Алматы", "Астана", "Москва", "Санкт-Петербург",
	"Республика Казахстан", "Республика Таджикистан", "Российская Федерация",
	"Republic of Kazakhstan",
}

var (
	locationMatcher   = newWordMatcher(locationKeywords, nil)
	parenthesizedText = regexp.MustCompile(`\([^)]*\)`)
)

// RemoveLocation удаляет города, страны и пометки в скобках
func RemoveLocation(name string) string {
	result := locationMatcher.removeAll(name)
	result = parenthesizedText.ReplaceAllString(result, " ")
	return tidy(result)
}
