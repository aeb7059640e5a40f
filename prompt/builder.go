// Package prompt собирает текст запроса к базе знаний по нормализованным данным сделки.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"compliance/normalization"
	"compliance/payload"
)

const (
	// DefaultVariantCap сколько вариантов названия попадает в запрос
	DefaultVariantCap = 5
	// DefaultLanguage язык пояснений в ответе
	DefaultLanguage = "Russian"
	// DefaultHomeJurisdiction домашняя юрисдикция по умолчанию
	DefaultHomeJurisdiction = "KZ"
)

// EntityFields поля с названиями организаций
var EntityFields = []string{
	"COUNTERPARTY_NAME", "CONSIGNEE", "CONSIGNOR", "CLIENT",
	"MANUFACTURER", "THIRD_PARTIES", "BENEFICIARY", "PAYER",
}

// BankFields поля с банками; значение может быть списком через запятую
var BankFields = []string{
	"BIK_SWIFT", "COUNTERPARTY_BANK_NAME", "CORRESPONDENT_BANK_NAME", "BANK_NAME",
}

var (
	entityFieldSet = toSet(EntityFields)
	bankFieldSet   = toSet(BankFields)

	// bankCode SWIFT/BIC (8 или 11 символов) или 9-значный БИК
	bankCode = regexp.MustCompile(`^(?:[A-Z]{6}[A-Z0-9]{2}(?:[A-Z0-9]{3})?|\d{9})$`)
)

// VariantFunc источник вариантов названия
type VariantFunc func(name string, kind normalization.EntityKind) []string

// Builder строит запрос. Не имеет изменяемого состояния, Build можно вызывать конкурентно.
type Builder struct {
	HomeJurisdiction string
	VariantCap       int
	Language         string
	Variants         VariantFunc
}

// NewBuilder создает построитель с параметрами по умолчанию
func NewBuilder(home string) *Builder {
	if strings.TrimSpace(home) == "" {
		home = DefaultHomeJurisdiction
	}
	return &Builder{
		HomeJurisdiction: strings.ToUpper(strings.TrimSpace(home)),
		VariantCap:       DefaultVariantCap,
		Language:         DefaultLanguage,
		Variants:         normalization.GenerateVariants,
	}
}

// Analyze вычисляет признаки сделки для домашней юрисдикции построителя
func (b *Builder) Analyze(p payload.Payload) Analysis {
	return Analyze(p, b.HomeJurisdiction)
}

// Build возвращает текст запроса. Результат зависит только от p и настроек построителя.
func (b *Builder) Build(p payload.Payload) string {
	a := b.Analyze(p)

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n")
	b.writeSchema(&sb, a)
	sb.WriteString("\n")
	b.writeSummary(&sb, p, a)
	sb.WriteString("\n")
	b.writeData(&sb, p)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, closingFormat, b.language())
	return sb.String()
}

func (b *Builder) writeSchema(sb *strings.Builder, a Analysis) {
	if !a.NeedsGoodsCheck {
		sb.WriteString(singleSectionIntro)
		sb.WriteString("{\n  \"verdict\": \"clear\" | \"flag\",\n  \"checks\": {\n")
		sb.WriteString(partyCheckSchema)
		sb.WriteString("\n  }\n}\n")
		return
	}

	sb.WriteString(twoSectionIntro)
	sb.WriteString("{\n  \"verdict\": \"clear\" | \"flag\",\n  \"checks\": {\n")
	sb.WriteString(partyCheckSchema)
	sb.WriteString(",\n")
	sb.WriteString(goodsCheckSchema)
	sb.WriteString("\n  }\n}\n")

	if a.Inconsistency {
		sb.WriteString("\n")
		sb.WriteString(redFlagBlock)
	}
	if a.Transit {
		sb.WriteString("\n")
		fmt.Fprintf(sb, transitNoteFormat, b.HomeJurisdiction, strings.Join(a.RouteSegments, " -> "))
	}
}

func (b *Builder) writeSummary(sb *strings.Builder, p payload.Payload, a Analysis) {
	sb.WriteString("Transaction summary:\n")
	fmt.Fprintf(sb, "- Home jurisdiction: %s\n", orNotSpecified(b.HomeJurisdiction))
	fmt.Fprintf(sb, "- Declared cross-border flag: %s\n", a.CrossBorder)
	if len(a.RouteSegments) > 0 {
		fmt.Fprintf(sb, "- Route: %s\n", strings.Join(a.RouteSegments, " -> "))
	}
	if a.CounterpartyCountry != "" {
		fmt.Fprintf(sb, "- Counterparty country: %s\n", a.CounterpartyCountry)
	}
	if amount, ok := ParseAmount(p.Get(payload.FieldContractAmount)); ok {
		line := amount.StringFixed(2)
		if currency := strings.TrimSpace(p.Get(payload.FieldContractCurrency)); currency != "" {
			line += " " + strings.ToUpper(currency)
		}
		fmt.Fprintf(sb, "- Contract amount: %s\n", line)
	}
}

func (b *Builder) writeData(sb *strings.Builder, p payload.Payload) {
	sb.WriteString("Transaction data (name fields list the original value first, then spelling variants):\n")
	for _, key := range p.Keys() {
		fmt.Fprintf(sb, "- %s: %s\n", key, b.fieldValue(key, p.Get(key)))
	}
}

func (b *Builder) fieldValue(key, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "not specified"
	}

	switch {
	case entityFieldSet[key]:
		return b.withVariants([]string{value}, normalization.KindEntity)
	case bankFieldSet[key]:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return b.withVariants(items, normalization.KindBank)
	default:
		return value
	}
}

// withVariants выводит каждое название с его вариантами: "name, v1, v2; code; name2, v3".
// Лимит VariantCap общий на поле, повторы внутри поля отбрасываются.
// SWIFT и БИК выводятся как есть.
func (b *Builder) withVariants(names []string, kind normalization.EntityKind) string {
	limit := b.VariantCap
	if limit <= 0 {
		limit = DefaultVariantCap
	}

	seen := toSet(names)
	rendered := make([]string, 0, len(names))
	for _, name := range names {
		parts := []string{name}
		if b.Variants != nil && !(kind == normalization.KindBank && bankCode.MatchString(name)) {
			for _, v := range b.Variants(name, kind) {
				if limit == 0 {
					break
				}
				if seen[v] {
					continue
				}
				seen[v] = true
				parts = append(parts, v)
				limit--
			}
		}
		rendered = append(rendered, strings.Join(parts, ", "))
	}
	return strings.Join(rendered, "; ")
}

func (b *Builder) language() string {
	if strings.TrimSpace(b.Language) == "" {
		return DefaultLanguage
	}
	return b.Language
}

// ParseAmount разбирает сумму договора: "1 000 000,50", "1,000,000.50", "1000".
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return decimal.Decimal{}, false
	}

	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func orNotSpecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
