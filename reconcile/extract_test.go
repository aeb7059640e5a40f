package reconcile

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
		ok       bool
	}{
		{"whole object", `{"a":1}`, map[string]any{"a": 1.0}, true},
		{"prose around", `prefix text {"a":1} suffix`, map[string]any{"a": 1.0}, true},
		{"no json", "no json here", nil, false},
		{"invalid json", `{"bad": json}`, nil, false},
		{"nested", `{"a": {"b": 1}} trailing`, map[string]any{"a": map[string]any{"b": 1.0}}, true},
		{"brace inside string", `answer: {"note": "use } carefully", "v": true} end`, map[string]any{"note": "use } carefully", "v": true}, true},
		{"escaped quote", `x {"q": "say \"}\" now"} y`, map[string]any{"q": `say "}" now`}, true},
		{"first candidate broken", `{broken {"verdict": "clear"} tail`, map[string]any{"verdict": "clear"}, true},
		{"markdown fence", "```json\n{\"verdict\": \"flag\"}\n```", map[string]any{"verdict": "flag"}, true},
		{"whole array", `[{"a": 1}]`, []any{map[string]any{"a": 1.0}}, true},
		{"bare number", "42", nil, false},
		{"unbalanced", `{"a": {"b": 1}`, map[string]any{"b": 1.0}, true},
		{"empty", "   ", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSON_NeverPanics(t *testing.T) {
	faker := gofakeit.New(7)
	fragments := []string{"{", "}", `"`, `\`, "[", "]", ":", ",", "true", "ok"}
	for i := 0; i < 500; i++ {
		s := faker.Sentence(5)
		for j := 0; j < 6; j++ {
			s += faker.RandomString(fragments)
		}
		assert.NotPanics(t, func() { ExtractJSON(s) })
	}
}

func TestMatchingBrace(t *testing.T) {
	assert.Equal(t, 7, matchingBrace(`{"a":{}}`, 0))
	assert.Equal(t, 6, matchingBrace(`{"a":{}}`, 5))
	assert.Equal(t, -1, matchingBrace(`{"a":"}"`, 0))
}
