package algorithms

import "testing"

func TestSoundex_Encode(t *testing.T) {
	soundex := NewSoundex()

	tests := map[string]string{
		"Robert":   "R163",
		"Rupert":   "R163",
		"Tymczak":  "T522",
		"Ashcraft": "A261",
		"Pfister":  "P236",
		"Lee":      "L000",
		"":         "",
		"123":      "",
	}

	for input, expected := range tests {
		if got := soundex.Encode(input); got != expected {
			t.Errorf("Soundex(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestMetaphone_Encode(t *testing.T) {
	metaphone := NewMetaphone()

	if metaphone.Encode("Smith") != metaphone.Encode("Smyth") {
		t.Errorf("Smith and Smyth should share a code: %q vs %q",
			metaphone.Encode("Smith"), metaphone.Encode("Smyth"))
	}
	if got := metaphone.Encode("Smith"); got != "SM0" {
		t.Errorf("Expected SM0, got %q", got)
	}
	if got := metaphone.Encode("Knight"); got[0] != 'N' {
		t.Errorf("Silent K should be dropped, got %q", got)
	}
	if got := metaphone.Encode(""); got != "" {
		t.Errorf("Expected empty code, got %q", got)
	}
	if got := metaphone.Encode("Internationalization"); len(got) > 6 {
		t.Errorf("Code should be capped at 6 symbols, got %q", got)
	}
}

func TestSoundexRU_Encode(t *testing.T) {
	soundex := NewSoundexRU()

	if got := soundex.Encode("Петров"); got != "П361" {
		t.Errorf("Expected П361, got %q", got)
	}
	if soundex.Encode("Петров") != soundex.Encode("Петрова") {
		t.Error("Петров and Петрова should share a code")
	}
	if got := soundex.Encode("Ли"); got != "Л000" {
		t.Errorf("Expected Л000, got %q", got)
	}
	if got := soundex.Encode("Smith"); got != "" {
		t.Errorf("Latin input should produce empty code, got %q", got)
	}
}

func TestMetaphoneRU_Encode(t *testing.T) {
	metaphone := NewMetaphoneRU()

	// звонкие и глухие пары кодируются одинаково
	if metaphone.Encode("Дуб") != metaphone.Encode("Дуп") {
		t.Errorf("Дуб and Дуп should share a code: %q vs %q",
			metaphone.Encode("Дуб"), metaphone.Encode("Дуп"))
	}
	if got := metaphone.Encode("Пиллаи"); got != "П5" {
		t.Errorf("Expected П5, got %q", got)
	}
	if got := []rune(metaphone.Encode("Трансконтинентальный")); len(got) > 6 {
		t.Errorf("Code should be capped at 6 symbols, got %q", string(got))
	}
}

func TestEncodersFor(t *testing.T) {
	if len(EncodersFor("Газпром")) != 2 {
		t.Error("Cyrillic word should get two encoders")
	}
	if len(EncodersFor("Gazprom")) != 2 {
		t.Error("Latin word should get two encoders")
	}
	if EncodersFor("2024") != nil {
		t.Error("Numbers should get no encoders")
	}
}
