package normalization

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"compliance/normalization/algorithms"
)

// legalForms сокращения организационно-правовых форм разных юрисдикций
var legalForms = []string{
	// Россия и СНГ
	"ПАО", "АО", "ООО", "ЗАО", "ОАО", "ТОО", "ИП", "ТДО", "НАО",
	// англоязычные
	"LLC", "Ltd", "Limited", "Co", "Corp", "Corporation", "Company",
	"Inc", "Incorporated", "PJSC", "JSC", "OJSC", "PLC", "LLP", "LP",
	// Европа
	"S.A.", "SA", "GmbH", "AG", "SpA", "BV", "NV", "Oy",
	"S.r.l", "SRL", "SARL", "S.L.", "SL",
	// Азия
	"Pte", "Pty", "Sdn", "Bhd", "K.K.", "G.K.",
}

// spelledLegalForms полные русские и английские написания форм
var spelledLegalForms = []string{
	`Общество\s+с\s+ограниченной\s+ответственностью`,
	`Закрытое\s+акционерное\s+общество`,
	`Открытое\s+акционерное\s+общество`,
	`Публичное\s+акционерное\s+общество`,
	`Некоммерческое\s+акционерное\s+общество`,
	`Акционерное\s+общество`,
	`Товарищество\s+с\s+ограниченной\s+ответственностью`,
	`Индивидуальный\s+предприниматель`,
	`Limited\s+Liability\s+Company`,
	`Limited\s+Liability\s+Partnership`,
	`Joint\s+Stock\s+Company`,
}

// legalFormSet множество форм для проверки "голых" вариантов
var legalFormSet = func() map[string]struct{} {
	set := make(map[string]struct{}, 2*len(legalForms))
	for _, form := range legalForms {
		set[legalFormKey(form)] = struct{}{}
		// латинская запись кириллических форм тоже не является вариантом: "OOO", "TOO"
		set[legalFormKey(algorithms.CyrillicToLatin(form))] = struct{}{}
	}
	return set
}()

var legalFormMatcher = newWordMatcher(legalForms, spelledLegalForms)

func legalFormKey(value string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(value), "."))
}

// IsLegalForm проверяет, является ли строка целиком сокращением ОПФ ("ООО", "llc.")
func IsLegalForm(value string) bool {
	_, ok := legalFormSet[legalFormKey(value)]
	return ok
}

// OnlyLegalForms сообщает, что название состоит только из ОПФ: "Limited Liability Company", "TOO Co"
func OnlyLegalForms(name string) bool {
	for _, word := range strings.Fields(RemoveLegalForms(name)) {
		word = strings.Trim(word, `.,;:()"'«»`)
		if word != "" && !IsLegalForm(word) {
			return false
		}
	}
	return true
}

// RemoveLegalForms удаляет ОПФ из названия с учетом границ слов
func RemoveLegalForms(name string) string {
	return tidy(legalFormMatcher.removeAll(name))
}

// wordMatcher ищет слова из словаря с учетом границ слов в Unicode.
// regexp \b в Go понимает только ASCII, поэтому границы проверяются вручную.
type wordMatcher struct {
	re *regexp.Regexp
}

func newWordMatcher(words []string, rawPatterns []string) *wordMatcher {
	sorted := append([]string(nil), words...)
	// длинные формы раньше коротких: "Corp" не должен проиграть "Co"
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})

	alternatives := make([]string, 0, len(sorted)+len(rawPatterns))
	alternatives = append(alternatives, rawPatterns...)
	for _, w := range sorted {
		alternatives = append(alternatives, regexp.QuoteMeta(w))
	}
	return &wordMatcher{re: regexp.MustCompile(`(?i)(?:` + strings.Join(alternatives, "|") + `)`)}
}

// match описывает найденное вхождение слова
type match struct {
	start, end int
}

// findAll возвращает вхождения, окруженные не-буквенными символами.
// Точка после сокращения входит в совпадение.
func (m *wordMatcher) findAll(s string) []match {
	var matches []match
	pos := 0
	for pos < len(s) {
		loc := m.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			break
		}
		if isBoundaryBefore(s, start) && (strings.HasSuffix(s[start:end], ".") || isBoundaryAfter(s, end)) {
			if end < len(s) && s[end] == '.' {
				end++
			}
			matches = append(matches, match{start: start, end: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
	return matches
}

func (m *wordMatcher) removeAll(s string) string {
	matches := m.findAll(s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, mt := range matches {
		b.WriteString(s[last:mt.start])
		b.WriteByte(' ')
		last = mt.end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

var emptyParens = regexp.MustCompile(`\(\s*\)`)

// tidy сворачивает пробелы, убирает пустые скобки и висящие запятые по краям
func tidy(s string) string {
	s = emptyParens.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " ,", ",")
	return strings.Trim(s, " ,;")
}
