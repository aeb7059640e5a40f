package algorithms

import (
	"strings"
	"unicode"
)

// cyrillicToLatinMap таблица транслитерации кириллицы (русский, казахский, украинский)
var cyrillicToLatinMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "iu", 'я': "ia",
	// казахский алфавит
	'ә': "a", 'ғ': "g", 'қ': "q", 'ң': "n", 'ө': "o",
	'ұ': "u", 'ү': "u", 'һ': "h", 'і': "i",
	// украинский и белорусский
	'є': "ie", 'ї': "i", 'ґ': "g", 'ў': "u",
}

// arabicToLatinMap упрощенная романизация арабского письма
var arabicToLatinMap = map[rune]string{
	'ا': "a", 'أ': "a", 'إ': "i", 'آ': "a", 'ب': "b", 'ت': "t",
	'ث': "th", 'ج': "j", 'ح': "h", 'خ': "kh", 'د': "d", 'ذ': "dh",
	'ر': "r", 'ز': "z", 'س': "s", 'ش': "sh", 'ص': "s", 'ض': "d",
	'ط': "t", 'ظ': "z", 'ع': "", 'غ': "gh", 'ف': "f", 'ق': "q",
	'ك': "k", 'ل': "l", 'م': "m", 'ن': "n", 'ه': "h", 'و': "w",
	'ي': "y", 'ى': "a", 'ة': "a", 'ء': "", 'ئ': "y", 'ؤ': "w",
	'پ': "p", 'چ': "ch", 'ژ': "zh", 'گ': "g", 'ک': "k", 'ی': "y",
}

// CyrillicToLatin транслитерирует кириллицу в латиницу с сохранением регистра
func CyrillicToLatin(text string) string {
	return transliterateWith(text, cyrillicToLatinMap)
}

// ArabicToLatin романизирует арабское и персидское письмо
func ArabicToLatin(text string) string {
	return transliterateWith(text, arabicToLatinMap)
}

func transliterateWith(text string, table map[rune]string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	runes := []rune(text)
	for i, r := range runes {
		lower := unicode.ToLower(r)
		latin, ok := table[lower]
		if !ok {
			builder.WriteRune(r)
			continue
		}
		if latin == "" || lower == r {
			builder.WriteString(latin)
			continue
		}
		// Заглавная буква: "Щ" -> "SHCH" внутри слова в верхнем регистре, иначе "Shch"
		if nextIsUpper(runes, i) {
			builder.WriteString(strings.ToUpper(latin))
		} else {
			builder.WriteString(strings.ToUpper(latin[:1]) + latin[1:])
		}
	}
	return builder.String()
}

func nextIsUpper(runes []rune, i int) bool {
	if i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
		return unicode.IsUpper(runes[i+1])
	}
	if i > 0 && unicode.IsLetter(runes[i-1]) {
		return unicode.IsUpper(runes[i-1])
	}
	return false
}

// ToLatin выполняет полную латинизацию: кириллица, арабское письмо, диакритика.
func ToLatin(text string) (string, error) {
	latin := ArabicToLatin(CyrillicToLatin(NFC(text)))
	return FoldDiacritics(latin)
}
