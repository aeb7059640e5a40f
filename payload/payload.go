// Package payload приводит входящие данные транзакции к плоскому словарю
// с ключами в верхнем регистре.
package payload

import (
	"log/slog"
	"sort"
	"strings"
)

// DefaultThreshold минимальная уверенность распознавания поля по умолчанию
const DefaultThreshold = 0.8

// Поля, которые используются при построении запроса
const (
	FieldCounterpartyName      = "COUNTERPARTY_NAME"
	FieldCounterpartyCountry   = "COUNTERPARTY_COUNTRY"
	FieldCounterpartyBankName  = "COUNTERPARTY_BANK_NAME"
	FieldCorrespondentBankName = "CORRESPONDENT_BANK_NAME"
	FieldBIKSwift              = "BIK_SWIFT"
	FieldCrossBorder           = "CROSS_BORDER"
	FieldRoute                 = "ROUTE"
	FieldContractAmount        = "CONTRACT_AMOUNT"
	FieldContractCurrency      = "CONTRACT_CURRENCY"
	FieldHSCode                = "HS_CODE"
	FieldProductName           = "PRODUCT_NAME"
	FieldContractType          = "CONTRACT_TYPE"
)

// bankSynonyms поля с названиями банков, которые дублируются в BIK_SWIFT
var bankSynonyms = []string{FieldCounterpartyBankName, FieldCorrespondentBankName}

// Payload нормализованные данные транзакции.
// Ключи в верхнем регистре с подчеркиваниями, значения всегда строки.
// После построения не изменяется.
type Payload map[string]string

// Get возвращает значение поля или пустую строку
func (p Payload) Get(key string) string {
	return p[key]
}

// Keys возвращает ключи в отсортированном порядке
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options параметры нормализации
type Options struct {
	// Threshold порог уверенности для записей полей, 0 означает DefaultThreshold
	Threshold float64
	// IgnoreConfidence включает все записи независимо от уверенности
	IgnoreConfidence bool
	Logger           *slog.Logger
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Normalize выбирает формат по наличию ключа "fields":
// записи полей с уверенностью или плоский словарь.
// Неподдерживаемая форма дает пустой payload.
func Normalize(raw any, opts Options) Payload {
	switch data := raw.(type) {
	case map[string]any:
		if _, ok := data["fields"]; ok {
			return FromFieldRecords(data, opts)
		}
		return FromFlat(data)
	case map[string]string:
		flat := make(map[string]any, len(data))
		for k, v := range data {
			flat[k] = v
		}
		return FromFlat(flat)
	case Payload:
		return data
	default:
		opts.logger().Warn("Unsupported payload shape, using empty payload",
			"type", typeName(raw))
		return Payload{}
	}
}

// NormalizeKey приводит имя поля к виду COUNTERPARTY_BANK_NAME
func NormalizeKey(key string) string {
	key = strings.ToUpper(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "-", " ")
	return strings.Join(strings.Fields(key), "_")
}

// merge объединяет значения совпавших ключей без повторов
func merge(existing, value string) string {
	switch {
	case existing == "":
		return value
	case value == "":
		return existing
	case strings.Contains(existing, value):
		return existing
	default:
		return existing + ", " + value
	}
}

func (p Payload) set(key, value string) {
	if current, ok := p[key]; ok {
		p[key] = merge(current, value)
		return
	}
	p[key] = value
}

// foldBankSynonyms дописывает названия банков в BIK_SWIFT, исходные поля остаются
func (p Payload) foldBankSynonyms() {
	for _, key := range bankSynonyms {
		if value := p[key]; value != "" {
			p[FieldBIKSwift] = merge(p[FieldBIKSwift], value)
		}
	}
}
