package payload

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stringify приводит значение поля к строке: списки через ", ", null в пустую строку,
// числа без экспоненты, вложенные объекты в компактный JSON
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		if f, err := val.Float64(); err == nil && strings.ContainsAny(val.String(), "eE") {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return joinValues(len(val), func(i int) string { return strings.TrimSpace(val[i]) })
	case []any:
		return joinValues(len(val), func(i int) string { return Stringify(val[i]) })
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func joinValues(n int, at func(int) string) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if s := at(i); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
