package normalization

import (
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance/normalization/algorithms"
)

func TestGenerate_Empty(t *testing.T) {
	assert.Empty(t, Variants(""))
	assert.Empty(t, Variants("   \t "))
	assert.Empty(t, BankVariants(""))
}

func TestGenerate_ContainsCleanName(t *testing.T) {
	variants := Variants(`  ТОО «ASHAN  Ой»  `)
	assert.Contains(t, variants, `ТОО "ASHAN Ой"`)
	assert.Contains(t, variants, "ASHAN Ой")
	assert.Contains(t, variants, "ASHAN Oi")
}

func TestGenerate_QuotedNameWithLegalForm(t *testing.T) {
	variants := Variants(`ОАО "Пиллан Точик"`)

	assert.Contains(t, variants, `ОАО "Пиллан Точик"`)
	assert.Contains(t, variants, `OAO "Pillan Tochik"`)
	assert.Contains(t, variants, "Пиллан Точик")
	assert.Contains(t, variants, "Pillan Tochik")
	assert.Contains(t, variants, "PillanTochik")
	assert.NotContains(t, variants, "ОАО")
	assert.NotContains(t, variants, "OAO")
}

func TestGenerate_CoreNameAroundLegalForm(t *testing.T) {
	assert.Contains(t, Variants("ООО Газпром"), "Газпром")
	assert.Contains(t, Variants("ООО Газпром"), "Gazprom")
	assert.Contains(t, Variants("Газпром ООО"), "Газпром")
	assert.Contains(t, Variants("Acme Trading LLC"), "Acme Trading")
	assert.Contains(t, Variants("Acme Trading LLC"), "AcmeTrading")
}

func TestGenerate_NeverBareLegalForm(t *testing.T) {
	inputs := []string{"ООО", "LLC", "ТОО ИП", "Ltd.", "ООО Газпром", "Siemens AG", "PJSC LLC"}
	for _, input := range inputs {
		for _, v := range Variants(input) {
			assert.False(t, IsLegalForm(v), "input %q produced bare legal form %q", input, v)
		}
		for _, v := range BankVariants(input) {
			assert.False(t, IsLegalForm(v), "input %q produced bare legal form %q", input, v)
		}
	}
}

func TestGenerate_SortedLongestFirst(t *testing.T) {
	variants := Variants(`ТОО "ASHAN OIL", БИН 100940012442, Казахстан`)
	require.NotEmpty(t, variants)
	for i := 1; i < len(variants); i++ {
		prev, cur := utf8.RuneCountInString(variants[i-1]), utf8.RuneCountInString(variants[i])
		assert.GreaterOrEqual(t, prev, cur, "variants must be ordered by length: %q before %q", variants[i-1], variants[i])
	}
}

func TestGenerate_FiltersShortVariants(t *testing.T) {
	for _, v := range Variants("АО БТА Банк") {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(v), minVariantRunes, "variant %q is too short", v)
	}
}

func TestGenerate_KeepsShortCleanName(t *testing.T) {
	assert.Equal(t, []string{"BP"}, Variants("BP"))
}

func TestGenerate_Bank(t *testing.T) {
	variants := BankVariants("Банк ВТБ (ПАО)")

	assert.Contains(t, variants, "Банк ВТБ (ПАО)")
	assert.Contains(t, variants, "Банк ВТБ")
	assert.Contains(t, variants, "ВТБ")
	assert.Contains(t, variants, "VTB")
	assert.Contains(t, variants, "Bank VTB")
}

func TestGenerate_BankBranchWithCity(t *testing.T) {
	variants := BankVariants("Филиал Банка ЦентрКредит в г. Алматы")
	assert.Contains(t, variants, "ЦентрКредит")
	assert.Contains(t, variants, "TsentrKredit")
}

func TestGenerate_EntityKeepsBankWords(t *testing.T) {
	assert.NotContains(t, Variants("Банк ВТБ"), "ВТБ")
}

func TestGenerate_Phonetics(t *testing.T) {
	g := NewGenerator(nil)
	variants := g.Generate(`ОАО "Пиллан Точик"`, KindEntity)
	assert.Contains(t, variants, algorithms.NewSoundexRU().Encode("Пиллан"))
	assert.Contains(t, variants, algorithms.NewMetaphoneRU().Encode("Точик"))

	quiet := NewGenerator(nil, WithoutPhonetics()).Generate(`ОАО "Пиллан Точик"`, KindEntity)
	assert.NotContains(t, quiet, algorithms.NewSoundexRU().Encode("Пиллан"))
	assert.Less(t, len(quiet), len(variants))
}

func TestGenerate_PhoneticCap(t *testing.T) {
	set := newVariantSet("x")
	codes := phoneticCodes("Alpha Bravo Charlie Delta Echo Foxtrot", set)
	assert.LessOrEqual(t, len(codes), maxPhoneticCodes)
}

func TestGenerate_Deterministic(t *testing.T) {
	name := `ТОО "Казахстанская Нефтяная Компания" (г. Астана)`
	first := BankVariants(name)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BankVariants(name))
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	names := []string{`ОАО "Пиллан Точик"`, "Банк ВТБ (ПАО)", "Acme Trading LLC", "ООО Газпром"}
	expected := make(map[string][]string, len(names))
	for _, n := range names {
		expected[n] = BankVariants(n)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n := names[i%len(names)]
			assert.Equal(t, expected[n], BankVariants(n))
		}(i)
	}
	wg.Wait()
}

func TestGenerate_GeneratedCompanies(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		name := faker.Company() + " " + faker.CompanySuffix()
		kind := KindEntity
		if i%2 == 0 {
			kind = KindBank
		}

		variants := defaultGenerator.Generate(name, kind)
		require.NotEmpty(t, variants, name)
		assert.Contains(t, variants, CleanName(name))
		assert.Equal(t, variants, defaultGenerator.Generate(name, kind))

		seen := make(map[string]bool)
		for _, v := range variants {
			assert.False(t, seen[v], "duplicate variant %q for %q", v, name)
			seen[v] = true
			assert.False(t, IsLegalForm(v), "bare legal form %q for %q", v, name)
		}
	}
}

func TestExtractCoreNames(t *testing.T) {
	cores := extractCoreNames(`ООО Газпром нефть, "Сибирь" АО`)
	assert.Contains(t, cores, "Газпром нефть")
	assert.Contains(t, cores, "Сибирь")

	assert.Empty(t, extractCoreNames(`"АБ" ООО`))
}

func TestSpacingVariants(t *testing.T) {
	assert.Equal(t, []string{"ASHANOIL", "AshanOil"}, spacingVariants("ASHAN OIL"))
	assert.Empty(t, spacingVariants("ABC"))
	assert.Equal(t, []string{"Gazprom"}, spacingVariants("Gazprom"))
}

func TestGenerate_BareLegalFormHasNoPhonetics(t *testing.T) {
	for _, input := range []string{"ООО", "ТОО ИП", "Ltd.", "Limited Liability Company", "TOO Co"} {
		assert.Empty(t, Variants(input), input)
		assert.Empty(t, BankVariants(input), input)
	}
}

func TestGenerate_DropsLegalFormOnlyVariants(t *testing.T) {
	variants := Variants("Rakhat Limited Liability Company")
	assert.Contains(t, variants, "Rakhat")
	for _, v := range variants {
		assert.False(t, OnlyLegalForms(v), v)
	}
}
