package algorithms

import (
	"strings"
	"unicode"
)

// SoundexRU реализует алгоритм Soundex для русского языка
// Похожие по звучанию слова получают одинаковый код вида "П145"
type SoundexRU struct{}

// NewSoundexRU создает новый экземпляр SoundexRU
func NewSoundexRU() *SoundexRU {
	return &SoundexRU{}
}

// soundexRUGroups группы созвучных согласных:
// 1 - губные, 2 - заднеязычные, 3 - переднеязычные, 4 - Л, 5 - носовые,
// 6 - Р, 7 - шипящие и аффрикаты, 8 - свистящие, 9 - Й
var soundexRUGroups = map[rune]byte{
	'Б': '1', 'П': '1', 'Ф': '1', 'В': '1',
	'Г': '2', 'К': '2', 'Х': '2',
	'Д': '3', 'Т': '3',
	'Л': '4',
	'М': '5', 'Н': '5',
	'Р': '6',
	'Ж': '7', 'Ш': '7', 'Щ': '7', 'Ч': '7', 'Ц': '7',
	'З': '8', 'С': '8',
	'Й': '9',
}

// Name возвращает имя алгоритма
func (s *SoundexRU) Name() string { return "soundex_ru" }

// Encode кодирует строку в Soundex код: первая буква и три цифры, дополненные нулями
func (s *SoundexRU) Encode(text string) string {
	letters := cyrillicLetters(text)
	if len(letters) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteRune(letters[0])

	prev := soundexRUGroups[letters[0]]
	digits := 0
	for _, r := range letters[1:] {
		if digits == 3 {
			break
		}
		code, ok := soundexRUGroups[r]
		if !ok {
			// гласная разделяет одинаковые коды
			prev = 0
			continue
		}
		if code == prev {
			continue
		}
		result.WriteByte(code)
		prev = code
		digits++
	}

	return result.String() + strings.Repeat("0", 3-digits)
}

// cyrillicLetters возвращает заглавные русские буквы строки, Ё приводится к Е
func cyrillicLetters(text string) []rune {
	letters := make([]rune, 0, len(text))
	for _, r := range strings.ToUpper(text) {
		if r == 'Ё' {
			r = 'Е'
		}
		if unicode.IsLetter(r) && r >= 'А' && r <= 'Я' {
			letters = append(letters, r)
		}
	}
	return letters
}
