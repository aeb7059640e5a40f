package reconcile

import (
	"encoding/json"
	"strings"
)

// ExtractJSON ищет JSON в тексте ответа.
// Сначала разбирается вся строка, затем по очереди каждый фрагмент от '{'
// до парной '}' с учетом строковых литералов. Не паникует.
func ExtractJSON(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	if v, ok := decodeContainer(trimmed); ok {
		return v, true
	}

	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchingBrace(text, start); end > start {
			if v, ok := decodeContainer(text[start : end+1]); ok {
				return v, true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// decodeContainer принимает только объекты и массивы
func decodeContainer(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}

// matchingBrace возвращает индекс '}', закрывающей скобку в позиции start, или -1
func matchingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
