package normalization

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"compliance/normalization/algorithms"
)

// EntityKind тип сущности, для которой строятся варианты названия
type EntityKind string

const (
	// KindEntity юридическое лицо, контрагент, производитель
	KindEntity EntityKind = "entity"
	// KindBank банк или его филиал
	KindBank EntityKind = "bank"
)

const (
	// minVariantRunes минимальная длина варианта; более короткие считаются шумом
	minVariantRunes = 3
	// maxPhoneticCodes ограничение фонетических кодов на одно название
	maxPhoneticCodes = 4
)

var (
	quotedText     = regexp.MustCompile(`["']([^"']+)["']`)
	wordsAfterForm = regexp.MustCompile(`^\.?\s+(\p{L}[^\s,]*(?:\s+\p{L}[^\s,]*)*)`)
	wordsUpToForm  = regexp.MustCompile(`(\p{L}[^\s,]*(?:\s+\p{L}[^\s,]*)*)\s+$`)
)

// Generator строит набор вариантов написания названия для расширения поиска.
// Не хранит изменяемого состояния и безопасен для конкурентного использования.
type Generator struct {
	logger   *slog.Logger
	bank     *bankStripper
	phonetic bool
}

// Option настраивает Generator
type Option func(*Generator)

// WithoutPhonetics отключает фонетический этап
func WithoutPhonetics() Option {
	return func(g *Generator) { g.phonetic = false }
}

// NewGenerator создает генератор вариантов
func NewGenerator(logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		logger:   logger,
		bank:     newBankStripper(algorithms.NewSnowballStemmer()),
		phonetic: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator(nil)

// GenerateVariants возвращает варианты названия для указанного типа сущности
func GenerateVariants(name string, kind EntityKind) []string {
	return defaultGenerator.Generate(name, kind)
}

// Variants возвращает варианты названия компании
func Variants(name string) []string {
	return defaultGenerator.Generate(name, KindEntity)
}

// BankVariants возвращает варианты названия банка
func BankVariants(name string) []string {
	return defaultGenerator.Generate(name, KindBank)
}

// CleanName нормализует пробелы и кавычки в названии
func CleanName(name string) string {
	return algorithms.CleanName(name)
}

// Generate возвращает уникальные варианты, отсортированные от длинных к коротким.
// Результат детерминирован для одинаковых name и kind.
func (g *Generator) Generate(name string, kind EntityKind) []string {
	clean := algorithms.CleanName(name)
	if clean == "" || OnlyLegalForms(clean) {
		return nil
	}

	set := newVariantSet(clean)
	set.add(RemoveLegalForms(clean))

	for _, v := range set.snapshot() {
		set.add(RemoveLocation(v))
	}

	for _, core := range extractCoreNames(clean) {
		set.add(core)
	}

	g.stage("transliteration", clean, func() {
		for _, v := range set.snapshot() {
			latin, err := algorithms.ToLatin(v)
			if err != nil {
				g.logger.Debug("transliteration skipped", "variant", v, "error", err)
				continue
			}
			if latin != v {
				set.add(latin)
			}
		}
	})

	for _, v := range set.snapshot() {
		if OnlyLegalForms(v) {
			continue
		}
		for _, sv := range spacingVariants(v) {
			set.add(sv)
		}
	}

	if kind == KindBank {
		g.stage("bank_keywords", clean, func() {
			for _, v := range set.snapshot() {
				stripped := g.bank.Strip(v)
				set.add(stripped)
				if latin, err := algorithms.ToLatin(stripped); err == nil {
					set.add(latin)
				}
			}
		})
	}

	if g.phonetic {
		g.stage("phonetic", clean, func() {
			base := RemoveLegalForms(clean)
			for _, code := range phoneticCodes(base, set) {
				set.add(code)
			}
		})
	}

	return set.finalize()
}

// stage выполняет необязательный этап; паника этапа не прерывает генерацию
func (g *Generator) stage(name, input string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Debug("variant stage failed",
				"stage", name,
				"name", input,
				"error", fmt.Sprint(r))
		}
	}()
	fn()
}

// extractCoreNames выделяет текст в кавычках и слова рядом с ОПФ:
// "ООО Газпром" -> "Газпром", "Газпром ООО" -> "Газпром"
func extractCoreNames(name string) []string {
	var cores []string
	add := func(s string) {
		s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
		if utf8.RuneCountInString(s) >= minVariantRunes {
			cores = append(cores, s)
		}
	}

	for _, m := range quotedText.FindAllStringSubmatch(name, -1) {
		add(m[1])
	}

	for _, m := range legalFormMatcher.findAll(name) {
		if sub := wordsAfterForm.FindStringSubmatch(name[m.end:]); sub != nil {
			add(sub[1])
		}
		if sub := wordsUpToForm.FindStringSubmatch(name[:m.start]); sub != nil {
			add(sub[1])
		}
	}
	return cores
}

// spacingVariants возвращает слитное написание и CamelCase
func spacingVariants(name string) []string {
	var out []string
	noSpace := strings.ReplaceAll(name, " ", "")
	if utf8.RuneCountInString(noSpace) > minVariantRunes {
		out = append(out, noSpace)
	}
	if strings.Contains(name, " ") {
		words := strings.Fields(name)
		for i, w := range words {
			words[i] = capitalize(w)
		}
		camel := strings.Join(words, "")
		if utf8.RuneCountInString(camel) > minVariantRunes {
			out = append(out, camel)
		}
	}
	return out
}

// capitalize переводит первую букву в верхний регистр, остальные в нижний
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// phoneticCodes строит коды по словам названия, не больше maxPhoneticCodes новых кодов
func phoneticCodes(base string, existing *variantSet) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, word := range algorithms.Words(base) {
		if utf8.RuneCountInString(word) < minVariantRunes {
			continue
		}
		for _, enc := range algorithms.EncodersFor(word) {
			code := enc.Encode(word)
			if utf8.RuneCountInString(code) < minVariantRunes || existing.has(code) {
				continue
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
			if len(codes) == maxPhoneticCodes {
				return codes
			}
		}
	}
	return codes
}

// variantSet упорядоченное множество вариантов
type variantSet struct {
	base  string
	order []string
	index map[string]struct{}
}

func newVariantSet(base string) *variantSet {
	s := &variantSet{base: base, index: make(map[string]struct{})}
	s.add(base)
	return s
}

func (s *variantSet) add(v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *variantSet) has(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *variantSet) snapshot() []string {
	return append([]string(nil), s.order...)
}

// finalize отбрасывает шум и сортирует: длинные раньше, затем по алфавиту без учета регистра.
// Варианты, состоящие только из ОПФ, отбрасываются.
// Очищенное исходное название сохраняется даже если оно короче порога.
func (s *variantSet) finalize() []string {
	out := make([]string, 0, len(s.order))
	for _, v := range s.order {
		if IsLegalForm(v) || OnlyLegalForms(v) {
			continue
		}
		if v != s.base && utf8.RuneCountInString(strings.TrimSpace(v)) < minVariantRunes {
			continue
		}
		out = append(out, v)
	}
	sortVariants(out)
	return out
}

func sortVariants(variants []string) {
	sort.Slice(variants, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(variants[i]), utf8.RuneCountInString(variants[j])
		if li != lj {
			return li > lj
		}
		ai, aj := strings.ToLower(variants[i]), strings.ToLower(variants[j])
		if ai != aj {
			return ai < aj
		}
		return variants[i] < variants[j]
	})
}
