package reconcile

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Значения решения и уровня риска
const (
	VerdictClear = "clear"
	VerdictFlag  = "flag"

	RiskNone   = "none"
	RiskMedium = "medium"
)

// Verdict итоговое решение по сделке. После Reconcile не изменяется.
type Verdict struct {
	Verdict   string `json:"verdict"`
	RiskLevel string `json:"risk_level"`
	Checks    Checks `json:"checks"`
	Parsed    any    `json:"parsed_json,omitempty"`
	Raw       string `json:"lightrag_response"`
}

// IsClear сообщает, что нарушений не найдено
func (v Verdict) IsClear() bool { return v.Verdict == VerdictClear }

var noHitsPhrase = regexp.MustCompile(`(?i)\b(no (sanctions|hits|matches)|not listed)\b`)

// noHitsPhrasesRU русские формулировки отсутствия совпадений, в нижнем регистре
var noHitsPhrasesRU = []string{
	"санкций не обнаружено",
	"санкции не обнаружены",
	"не найдено совпадений",
	"совпадений не найдено",
	"не входит в санкционные списки",
}

// Reconcile сводит ответ к решению.
// По умолчанию flag/medium: clear выставляется только по явным признакам.
func Reconcile(r Reply) Verdict {
	v := Verdict{
		Verdict:   VerdictFlag,
		RiskLevel: RiskMedium,
		Checks:    NewChecks(),
		Raw:       r.Raw(),
	}

	var parsed any
	var ok bool
	if r.IsText() {
		parsed, ok = ExtractJSON(r.Text())
	} else {
		parsed, ok = r.Value(), r.Value() != nil
	}
	if ok {
		v.Parsed = parsed
	}

	obj, _ := parsed.(map[string]any)
	decided := false
	if obj != nil {
		decided = v.Checks.fill(obj)
	}
	hit := v.Checks.AnyHit()

	switch direct := directVerdict(obj); {
	case direct != "":
		v.Verdict = direct
		if direct == VerdictClear && hit {
			v.Verdict = VerdictFlag
		}
	case !ok:
		if r.IsText() && statesNoHits(r.Text()) {
			v.Verdict = VerdictClear
		}
	case decided:
		if !hit {
			v.Verdict = VerdictClear
		}
	}

	if v.Verdict == VerdictClear {
		v.RiskLevel = RiskNone
	}
	return v
}

func directVerdict(obj map[string]any) string {
	if obj == nil {
		return ""
	}
	s, _ := obj["verdict"].(string)
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case VerdictClear, VerdictFlag:
		return s
	}
	return ""
}

// statesNoHits ищет явную фразу об отсутствии совпадений в тексте без разметки
func statesNoHits(raw string) bool {
	text := plainText(raw)
	if noHitsPhrase.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, phrase := range noHitsPhrasesRU {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// plainText убирает HTML разметку, которую иногда возвращает модель
func plainText(raw string) string {
	if !strings.ContainsRune(raw, '<') {
		return raw
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	return doc.Text()
}
