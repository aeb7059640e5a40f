package payload

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldRecord запись поля, распознанного из документа
type FieldRecord struct {
	Name       string
	NameEng    string
	Value      any
	Confidence any
}

// FromFieldRecords нормализует формат {"fields": [{name, name_eng, value, confidence}]}.
// Записи без name_eng отбрасываются, записи ниже порога уверенности пропускаются.
func FromFieldRecords(raw any, opts Options) Payload {
	logger := opts.logger()

	data, ok := raw.(map[string]any)
	if !ok {
		logger.Warn("Field records payload is not an object", "type", typeName(raw))
		return Payload{}
	}
	records, ok := asRecords(data["fields"])
	if !ok {
		logger.Warn("Field records payload has no fields list", "type", typeName(data["fields"]))
		return Payload{}
	}

	threshold := opts.threshold()
	p := make(Payload, len(records)+1)
	skipped := 0
	for _, rec := range records {
		key := NormalizeKey(rec.NameEng)
		if key == "" {
			continue
		}
		if !opts.IgnoreConfidence {
			if conf := ParseConfidence(rec.Confidence); conf < threshold {
				skipped++
				continue
			}
		}
		p.set(key, Stringify(rec.Value))
	}
	p.foldBankSynonyms()

	if skipped > 0 {
		logger.Debug("Low confidence fields skipped",
			"skipped", skipped,
			"threshold", threshold)
	}
	return p
}

func asRecords(v any) ([]FieldRecord, bool) {
	var items []map[string]any
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
	case []map[string]any:
		items = list
	case []FieldRecord:
		return list, true
	default:
		return nil, false
	}

	records := make([]FieldRecord, 0, len(items))
	for _, m := range items {
		rec := FieldRecord{Value: m["value"], Confidence: m["confidence"]}
		rec.Name, _ = m["name"].(string)
		rec.NameEng, _ = m["name_eng"].(string)
		records = append(records, rec)
	}
	return records, true
}

// ParseConfidence приводит уверенность к диапазону [0,1].
// Отсутствующее значение дает 1, нераспознанное 0.
// Значения больше 1 считаются процентами: 85 и "85%" дают 0.85.
func ParseConfidence(v any) float64 {
	var conf float64
	switch c := v.(type) {
	case nil:
		return 1
	case float64:
		conf = c
	case float32:
		conf = float64(c)
	case int:
		conf = float64(c)
	case int64:
		conf = float64(c)
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0
		}
		conf = f
	case string:
		s := strings.TrimSpace(c)
		percent := strings.HasSuffix(s, "%")
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		conf = f
		if percent {
			conf /= 100
		}
	default:
		return 0
	}

	if conf > 1 {
		conf /= 100
	}
	switch {
	case conf < 0:
		return 0
	case conf > 1:
		return 1
	}
	return conf
}
