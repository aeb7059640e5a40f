package payload

import (
	"sort"
)

// FromFlat нормализует произвольный плоский словарь.
// Ключи обходятся в отсортированном порядке, поэтому слияние значений детерминировано.
func FromFlat(raw map[string]any) Payload {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := make(Payload, len(raw)+1)
	for _, k := range keys {
		key := NormalizeKey(k)
		if key == "" {
			continue
		}
		p.set(key, Stringify(raw[k]))
	}
	p.foldBankSynonyms()
	return p
}
