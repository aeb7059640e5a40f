package algorithms

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"пустая строка", "", ""},
		{"только пробелы", "   \t\n ", ""},
		{"французские кавычки", `  ТОО «ASHAN  Ой»  `, `ТОО "ASHAN Ой"`},
		{"без изменений", `ОАО "Пиллан Точик"`, `ОАО "Пиллан Точик"`},
		{"типографские кавычки", "ООО “Ромашка” ‘Плюс’", `ООО "Ромашка" 'Плюс'`},
		{"разложенная й", "Мой", "Мой"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.expected {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFoldDiacritics(t *testing.T) {
	got, err := FoldDiacritics("Société Générale Zürich")
	if err != nil {
		t.Fatalf("FoldDiacritics returned error: %v", err)
	}
	if got != "Societe Generale Zurich" {
		t.Errorf("Expected 'Societe Generale Zurich', got %q", got)
	}
}

func TestNormalizeHyphens(t *testing.T) {
	if got := NormalizeHyphens("KZ—RU–CN"); got != "KZ-RU-CN" {
		t.Errorf("Expected 'KZ-RU-CN', got %q", got)
	}
}

func TestWords(t *testing.T) {
	words := Words(`ТОО "ASHAN Ой", 100940012442`)
	expected := []string{"ТОО", "ASHAN", "Ой", "100940012442"}
	if len(words) != len(expected) {
		t.Fatalf("Expected %d words, got %d: %v", len(expected), len(words), words)
	}
	for i := range expected {
		if words[i] != expected[i] {
			t.Errorf("word %d: expected %q, got %q", i, expected[i], words[i])
		}
	}
}

func TestScriptDetection(t *testing.T) {
	if !IsCyrillicWord("Газпром") {
		t.Error("Газпром should be detected as Cyrillic")
	}
	if IsCyrillicWord("Gazprom") {
		t.Error("Gazprom should not be detected as Cyrillic")
	}
	if !IsLatinWord("Gazprom") {
		t.Error("Gazprom should be detected as Latin")
	}
	if IsLatinWord("Gaz1") {
		t.Error("digits are not Latin letters")
	}
}
