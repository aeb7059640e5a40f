package algorithms

import (
	"strings"
)

// PhoneticEncoder кодирует слово в фонетический ключ
type PhoneticEncoder interface {
	Name() string
	Encode(text string) string
}

// Soundex реализует классический американский Soundex для латиницы
type Soundex struct{}

// NewSoundex создает новый экземпляр Soundex
func NewSoundex() *Soundex {
	return &Soundex{}
}

// Name возвращает имя алгоритма
func (s *Soundex) Name() string { return "soundex" }

func soundexCode(r byte) byte {
	switch r {
	case 'B', 'F', 'P', 'V':
		return '1'
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return '2'
	case 'D', 'T':
		return '3'
	case 'L':
		return '4'
	case 'M', 'N':
		return '5'
	case 'R':
		return '6'
	}
	return 0
}

// Encode возвращает код вида "R163". H и W не разделяют одинаковые коды, гласные разделяют.
func (s *Soundex) Encode(text string) string {
	letters := asciiLetters(text)
	if len(letters) == 0 {
		return ""
	}

	result := []byte{letters[0]}
	prev := soundexCode(letters[0])
	for _, r := range letters[1:] {
		if len(result) == 4 {
			break
		}
		if r == 'H' || r == 'W' {
			continue
		}
		code := soundexCode(r)
		if code == 0 {
			prev = 0
			continue
		}
		if code != prev {
			result = append(result, code)
		}
		prev = code
	}
	for len(result) < 4 {
		result = append(result, '0')
	}
	return string(result)
}

// Metaphone реализует упрощенный алгоритм Metaphone Лоуренса Филипса
type Metaphone struct {
	maxLen int
}

// NewMetaphone создает новый экземпляр Metaphone
func NewMetaphone() *Metaphone {
	return &Metaphone{maxLen: 6}
}

// Name возвращает имя алгоритма
func (m *Metaphone) Name() string { return "metaphone" }

func isVowelASCII(r byte) bool {
	return strings.IndexByte("AEIOU", r) >= 0
}

// Encode кодирует слово; "0" обозначает звук TH
func (m *Metaphone) Encode(text string) string {
	w := asciiLetters(text)
	if len(w) == 0 {
		return ""
	}

	// начальные сочетания
	switch {
	case hasPrefix(w, "AE"), hasPrefix(w, "GN"), hasPrefix(w, "KN"), hasPrefix(w, "PN"), hasPrefix(w, "WR"):
		w = w[1:]
	case w[0] == 'X':
		w[0] = 'S'
	case hasPrefix(w, "WH"):
		w = append([]byte{'W'}, w[2:]...)
	}

	at := func(i int) byte {
		if i < 0 || i >= len(w) {
			return 0
		}
		return w[i]
	}

	var out []byte
	for i := 0; i < len(w) && len(out) < m.maxLen; i++ {
		c := w[i]
		if c != 'C' && i > 0 && c == at(i-1) {
			continue
		}
		switch c {
		case 'A', 'E', 'I', 'O', 'U':
			if i == 0 {
				out = append(out, c)
			}
		case 'B':
			if !(i == len(w)-1 && at(i-1) == 'M') {
				out = append(out, 'B')
			}
		case 'C':
			switch {
			case at(i+1) == 'I' && at(i+2) == 'A', at(i+1) == 'H':
				if at(i-1) == 'S' {
					out = append(out, 'K')
				} else {
					out = append(out, 'X')
				}
				if at(i+1) == 'H' {
					i++
				}
			case at(i+1) == 'I' || at(i+1) == 'E' || at(i+1) == 'Y':
				if at(i-1) != 'S' {
					out = append(out, 'S')
				}
			default:
				out = append(out, 'K')
			}
		case 'D':
			if at(i+1) == 'G' && strings.IndexByte("EIY", at(i+2)) >= 0 {
				out = append(out, 'J')
				i++
			} else {
				out = append(out, 'T')
			}
		case 'G':
			switch {
			case at(i+1) == 'H' && i+2 < len(w) && !isVowelASCII(at(i+2)):
				// GH перед согласной не произносится
			case at(i+1) == 'N' && (i+2 == len(w) || (at(i+2) == 'E' && at(i+3) == 'D' && i+4 == len(w))):
			case strings.IndexByte("EIY", at(i+1)) >= 0 && at(i-1) != 'G':
				out = append(out, 'J')
			default:
				out = append(out, 'K')
			}
		case 'H':
			if isVowelASCII(at(i+1)) && strings.IndexByte("CSPTG", at(i-1)) < 0 {
				out = append(out, 'H')
			}
		case 'K':
			if at(i-1) != 'C' {
				out = append(out, 'K')
			}
		case 'P':
			if at(i+1) == 'H' {
				out = append(out, 'F')
				i++
			} else {
				out = append(out, 'P')
			}
		case 'Q':
			out = append(out, 'K')
		case 'S':
			switch {
			case at(i+1) == 'H':
				out = append(out, 'X')
				i++
			case at(i+1) == 'I' && (at(i+2) == 'O' || at(i+2) == 'A'):
				out = append(out, 'X')
			default:
				out = append(out, 'S')
			}
		case 'T':
			switch {
			case at(i+1) == 'I' && (at(i+2) == 'O' || at(i+2) == 'A'):
				out = append(out, 'X')
			case at(i+1) == 'H':
				out = append(out, '0')
				i++
			case at(i+1) == 'C' && at(i+2) == 'H':
			default:
				out = append(out, 'T')
			}
		case 'V':
			out = append(out, 'F')
		case 'W', 'Y':
			if isVowelASCII(at(i + 1)) {
				out = append(out, c)
			}
		case 'X':
			out = append(out, 'K', 'S')
		case 'Z':
			out = append(out, 'S')
		default:
			// F J L M N R
			out = append(out, c)
		}
	}
	if len(out) > m.maxLen {
		out = out[:m.maxLen]
	}
	return string(out)
}

func hasPrefix(w []byte, prefix string) bool {
	return len(w) >= len(prefix) && string(w[:len(prefix)]) == prefix
}

// asciiLetters возвращает заглавные латинские буквы слова
func asciiLetters(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range strings.ToUpper(text) {
		if r >= 'A' && r <= 'Z' {
			out = append(out, byte(r))
		}
	}
	return out
}

// EncodersFor подбирает фонетические кодировщики по алфавиту слова
func EncodersFor(word string) []PhoneticEncoder {
	switch {
	case IsCyrillicWord(word):
		return []PhoneticEncoder{NewMetaphoneRU(), NewSoundexRU()}
	case IsLatinWord(word):
		return []PhoneticEncoder{NewMetaphone(), NewSoundex()}
	}
	return nil
}
