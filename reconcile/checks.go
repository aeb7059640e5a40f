package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// NotApplicable код проверки, когда сервис ничего не сообщил
const NotApplicable = "N/A"

// Jurisdictions юрисдикции, которые всегда присутствуют в проверках
var Jurisdictions = []string{"us", "uk", "eu"}

// Названия секций в разных версиях схемы ответа
var (
	partySectionKeys = []string{"check_parties", "proverka_storon", "parties"}
	goodsSectionKeys = []string{"goods", "tovary"}
)

// Check результат одной проверки
type Check struct {
	Verdict     bool   `json:"verdict"`
	Code        string `json:"code"`
	Explanation string `json:"explanation,omitempty"`
}

// Checks детализация решения. Форма полная даже если сервис пропустил секции.
type Checks struct {
	Parties      map[string]Check `json:"parties"`
	Goods        map[string]Check `json:"goods"`
	Route        Check            `json:"route"`
	ContractType Check            `json:"contract_type"`
	// Hits устаревший формат {"hits": {"entities": [...]}}, передается как есть
	Hits map[string]any `json:"hits,omitempty"`
}

// NewChecks возвращает проверки со значениями по умолчанию
func NewChecks() Checks {
	c := Checks{
		Parties:      make(map[string]Check, len(Jurisdictions)),
		Goods:        make(map[string]Check, len(Jurisdictions)),
		Route:        Check{Code: NotApplicable},
		ContractType: Check{Code: NotApplicable},
	}
	for _, j := range Jurisdictions {
		c.Parties[j] = Check{Code: NotApplicable}
		c.Goods[j] = Check{Code: NotApplicable}
	}
	return c
}

// AnyHit сообщает, что хотя бы одна проверка положительна
func (c Checks) AnyHit() bool {
	for _, section := range []map[string]Check{c.Parties, c.Goods} {
		for _, check := range section {
			if check.Verdict {
				return true
			}
		}
	}
	return c.Route.Verdict || c.ContractType.Verdict || legacyMatched(c.Hits)
}

// HitNames возвращает сработавшие проверки в виде "parties.us", отсортированные
func (c Checks) HitNames() []string {
	var names []string
	for prefix, section := range map[string]map[string]Check{"parties": c.Parties, "goods": c.Goods} {
		for j, check := range section {
			if check.Verdict {
				names = append(names, prefix+"."+j)
			}
		}
	}
	if c.Route.Verdict {
		names = append(names, "route")
	}
	if c.ContractType.Verdict {
		names = append(names, "contract_type")
	}
	if legacyMatched(c.Hits) {
		names = append(names, "hits")
	}
	sort.Strings(names)
	return names
}

// fill переносит найденные секции в проверки. Возвращает true, только если найдена
// секция сторон или товаров либо каждая запись hits содержит поле matched:
// маршрут и тип договора сами по себе решения не дают.
func (c *Checks) fill(obj map[string]any) bool {
	decided := false
	for _, scope := range checkScopes(obj) {
		for _, key := range partySectionKeys {
			if section, ok := scope[key]; ok {
				decided = fillSection(c.Parties, section) || decided
			}
		}
		for _, key := range goodsSectionKeys {
			if section, ok := scope[key]; ok {
				decided = fillSection(c.Goods, section) || decided
			}
		}
		if v, ok := scope["route"]; ok {
			if check, ok := parseCheck(v); ok {
				c.Route = check
			}
		}
		if v, ok := scope["contract_type"]; ok {
			if check, ok := parseCheck(v); ok {
				c.ContractType = check
			}
		}
		if hits, ok := scope["hits"].(map[string]any); ok {
			c.Hits = hits
			decided = legacyDecided(hits) || decided
		}
	}
	return decided
}

// checkScopes корень ответа и, если есть, обертка "checks"
func checkScopes(obj map[string]any) []map[string]any {
	scopes := []map[string]any{obj}
	if inner, ok := obj["checks"].(map[string]any); ok {
		scopes = append(scopes, inner)
	}
	return scopes
}

// sectionFields поля общего решения секции, не являющиеся юрисдикциями
var sectionFields = map[string]bool{"verdict": true, "code": true, "explanation": true}

// fillSection разбирает секцию. Общее решение секции {"verdict": ...} хранится под ключом
// "all" и объединяется по ИЛИ с решениями юрисдикций, которые разбираются всегда.
func fillSection(dst map[string]Check, section any) bool {
	m, ok := section.(map[string]any)
	if !ok {
		if check, ok := parseCheck(section); ok {
			dst["all"] = check
			return true
		}
		return false
	}

	found := false
	var overall *Check
	if v, ok := m["verdict"]; ok {
		if _, nested := v.(map[string]any); !nested {
			check, _ := parseCheck(m)
			dst["all"] = check
			overall = &check
			found = true
		}
	}

	for key, v := range m {
		if overall != nil && sectionFields[key] {
			continue
		}
		check, ok := parseCheck(v)
		if !ok {
			continue
		}
		if overall != nil && overall.Verdict {
			check.Verdict = true
		}
		dst[strings.ToLower(strings.TrimSpace(key))] = check
		found = true
	}
	return found
}

// parseCheck принимает {"verdict": ..., "code": ..., "explanation": ...} или голое значение
func parseCheck(v any) (Check, bool) {
	switch val := v.(type) {
	case bool:
		return Check{Verdict: val, Code: NotApplicable}, true
	case map[string]any:
		check := Check{
			Verdict:     truthy(val["verdict"]),
			Code:        stringValue(val["code"]),
			Explanation: stringValue(val["explanation"]),
		}
		if check.Code == "" {
			check.Code = NotApplicable
		}
		return check, true
	default:
		return Check{}, false
	}
}

// truthy трактует ответ модели: true, "true", "yes", "да", ненулевое число
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1", "да", "flag", "hit":
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// legacyDecided сообщает, что в hits есть записи и каждая содержит поле matched
func legacyDecided(hits map[string]any) bool {
	entries := 0
	for _, list := range hits {
		items, ok := list.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				return false
			}
			if _, ok := entry["matched"]; !ok {
				return false
			}
			entries++
		}
	}
	return entries > 0
}

// legacyMatched ищет в старом формате hits запись с "matched": true
func legacyMatched(v any) bool {
	switch val := v.(type) {
	case map[string]any:
		if m, ok := val["matched"]; ok && truthy(m) {
			return true
		}
		for _, inner := range val {
			if legacyMatched(inner) {
				return true
			}
		}
	case []any:
		for _, item := range val {
			if legacyMatched(item) {
				return true
			}
		}
	}
	return false
}
