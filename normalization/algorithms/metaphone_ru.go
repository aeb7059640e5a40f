package algorithms

import (
	"strings"
)

// MetaphoneRU упрощенный фонетический алгоритм Metaphone для русского языка.
// В отличие от Soundex учитывает оглушение согласных и шипящие диграфы.
type MetaphoneRU struct {
	maxLen int
}

// NewMetaphoneRU создает новый экземпляр MetaphoneRU
func NewMetaphoneRU() *MetaphoneRU {
	return &MetaphoneRU{maxLen: 6}
}

// Name возвращает имя алгоритма
func (m *MetaphoneRU) Name() string { return "metaphone_ru" }

// metaphoneRUCodes коды согласных; звонкие и глухие пары совпадают
var metaphoneRUCodes = map[rune]string{
	'Б': "1", 'П': "1",
	'В': "2", 'Ф': "2",
	'Г': "3", 'К': "3", 'Х': "3",
	'Д': "4", 'Т': "4",
	'Л': "5",
	'М': "6", 'Н': "6",
	'Р': "7",
	'Ж': "8", 'Ш': "8", 'Щ': "8",
	'Ч': "9", 'Ц': "9",
	'З': "0", 'С': "0",
	'Й': "J",
}

var metaphoneRUDigraphs = map[string]string{
	"ЖЧ": "8", "ШЧ": "8", "ЧШ": "8", "ЩЧ": "8", "ЧЩ": "8",
	"ТС": "9", "ДС": "9",
}

// Encode кодирует строку в Metaphone код. Первая буква сохраняется,
// гласные и знаки пропускаются, повторяющиеся коды схлопываются.
func (m *MetaphoneRU) Encode(text string) string {
	letters := cyrillicLetters(text)
	if len(letters) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteRune(letters[0])
	written := 1

	last := metaphoneRUCodes[letters[0]]
	for i := 1; i < len(letters) && written < m.maxLen; i++ {
		var code string
		if i+1 < len(letters) {
			if d, ok := metaphoneRUDigraphs[string(letters[i:i+2])]; ok {
				code = d
				i++
			}
		}
		if code == "" {
			code = metaphoneRUCodes[letters[i]]
		}
		if code == "" || code == last {
			last = code
			continue
		}
		result.WriteString(code)
		last = code
		written++
	}

	return result.String()
}
