// Package reconcile разбирает ответ базы знаний и сводит его к итоговому решению.
package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReplyKind вид ответа сервиса
type ReplyKind int

const (
	// ReplyText ответ пришел строкой, JSON внутри еще нужно найти
	ReplyText ReplyKind = iota
	// ReplyStructured ответ уже является JSON значением
	ReplyStructured
)

// Reply ответ внешнего сервиса: либо текст, либо структурированное значение
type Reply struct {
	kind  ReplyKind
	text  string
	value any
}

// TextReply создает текстовый ответ
func TextReply(text string) Reply {
	return Reply{kind: ReplyText, text: text}
}

// StructuredReply создает структурированный ответ
func StructuredReply(value any) Reply {
	return Reply{kind: ReplyStructured, value: value}
}

// ReplyFromAny приводит декодированное тело ответа к Reply.
// Из объекта с полем "response" берется это поле, рекурсивно.
func ReplyFromAny(v any) Reply {
	switch val := v.(type) {
	case nil:
		return TextReply("")
	case string:
		return TextReply(val)
	case Reply:
		return val
	case map[string]any:
		if inner, ok := val["response"]; ok {
			return ReplyFromAny(inner)
		}
		return StructuredReply(val)
	case []any:
		return StructuredReply(val)
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return TextReply(string(val))
		}
		return ReplyFromAny(decoded)
	default:
		return TextReply(fmt.Sprint(val))
	}
}

// Kind возвращает вид ответа
func (r Reply) Kind() ReplyKind { return r.kind }

// IsText сообщает, что ответ текстовый
func (r Reply) IsText() bool { return r.kind == ReplyText }

// Text возвращает текст ответа; для структурированного ответа пустая строка
func (r Reply) Text() string { return r.text }

// Value возвращает структурированное значение; для текстового ответа nil
func (r Reply) Value() any { return r.value }

// Raw возвращает ответ в виде строки для журнала и клиента
func (r Reply) Raw() string {
	if r.kind == ReplyText {
		return r.text
	}
	b, err := json.Marshal(r.value)
	if err != nil {
		return fmt.Sprint(r.value)
	}
	return string(b)
}

// IsEmpty сообщает, что ответ не содержит данных
func (r Reply) IsEmpty() bool {
	if r.kind == ReplyText {
		return strings.TrimSpace(r.text) == ""
	}
	return r.value == nil
}
