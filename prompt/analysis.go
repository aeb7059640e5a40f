package prompt

import (
	"strings"

	"compliance/payload"
)

// Analysis признаки трансграничности, по которым выбирается схема ответа
type Analysis struct {
	CrossBorder         string   `json:"cross_border"`
	RouteSegments       []string `json:"route_segments"`
	CounterpartyCountry string   `json:"counterparty_country"`
	CounterpartyForeign bool     `json:"counterparty_foreign"`
	Inconsistency       bool     `json:"inconsistency"`
	Transit             bool     `json:"transit"`
	NeedsGoodsCheck     bool     `json:"needs_goods_check"`
}

// Analyze вычисляет признаки сделки относительно домашней юрисдикции.
// Пустой home отключает сравнение страны контрагента.
func Analyze(p payload.Payload, home string) Analysis {
	home = strings.ToUpper(strings.TrimSpace(home))

	a := Analysis{
		CrossBorder:         strings.TrimSpace(p.Get(payload.FieldCrossBorder)),
		RouteSegments:       SplitRoute(p.Get(payload.FieldRoute)),
		CounterpartyCountry: strings.ToUpper(strings.TrimSpace(p.Get(payload.FieldCounterpartyCountry))),
	}
	if a.CrossBorder == "" {
		a.CrossBorder = "0"
	}

	a.CounterpartyForeign = a.CounterpartyCountry != "" && home != "" && a.CounterpartyCountry != home
	multiSegment := len(a.RouteSegments) > 1

	a.Inconsistency = a.CrossBorder == "0" && (a.CounterpartyForeign || multiSegment)

	if n := len(a.RouteSegments); n >= 3 && home != "" {
		for _, seg := range a.RouteSegments[1 : n-1] {
			if seg == home {
				a.Transit = true
				break
			}
		}
	}

	a.NeedsGoodsCheck = a.CrossBorder == "1" || a.Inconsistency || a.Transit || multiSegment || a.CounterpartyForeign
	return a
}

// SplitRoute разбивает маршрут "CN-KZ-RU" на коды стран.
// Кроме дефиса принимаются тире, стрелки и запятые.
func SplitRoute(route string) []string {
	parts := strings.FieldsFunc(route, func(r rune) bool {
		switch r {
		case '-', '–', '—', '→', '>', ',', ';':
			return true
		}
		return false
	})

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if seg := strings.ToUpper(strings.TrimSpace(part)); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
