package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_Semicolon(t *testing.T) {
	data := `group;keywords;answer_uk;answer_ru;priority;triggers;base_price;upsell_price;price_suffix;sort_order
base;візитки, ціна;Візитки від {base_price};Визитки от {base_price};10;;200;;грн;1
materials;папір;Преміум папір за {upsell_price};Премиум бумага;8;premium, materials;200;150;грн;2
`

	entries, err := ParseCSV("визитки", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	base := entries[0]
	assert.Equal(t, "визитки_1", base.ID)
	assert.Equal(t, "визитки", base.Category)
	assert.Equal(t, "base", base.Group)
	assert.Equal(t, []string{"візитки", "ціна"}, base.Keywords)
	assert.Equal(t, "Візитки від {base_price}", base.Answers["uk"])
	assert.Equal(t, "Визитки от {base_price}", base.Answers["ru"])
	assert.Equal(t, 10, base.Priority)
	assert.Empty(t, base.Triggers)
	require.NotNil(t, base.BasePrice)
	assert.InDelta(t, 200, *base.BasePrice, 1e-9)
	assert.Nil(t, base.UpsellPrice)
	assert.Equal(t, "грн", base.PriceSuffix)

	upsell := entries[1]
	assert.Equal(t, "визитки_2", upsell.ID)
	assert.Equal(t, []string{"premium", "materials"}, upsell.Triggers)
	require.NotNil(t, upsell.UpsellPrice)
	assert.InDelta(t, 150, *upsell.UpsellPrice, 1e-9)
}

func TestParseCSV_Comma(t *testing.T) {
	data := `group,answer_uk,priority
base,Текст відповіді,9
`

	entries, err := ParseCSV("флаеры", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "флаеры_1", entries[0].ID)
	assert.Equal(t, 9, entries[0].Priority)
}

func TestParseCSV_Defaults(t *testing.T) {
	data := `group;answer_uk;priority;sort_order
base;текст;;
`

	entries, err := ParseCSV("визитки", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Missing priority defaults to the always-relevant 10, sort order to
	// the row position.
	assert.Equal(t, 10, entries[0].Priority)
	assert.Equal(t, 1, entries[0].SortOrder)
}

func TestParseCSV_CommaDecimalPrice(t *testing.T) {
	data := `group;answer_uk;base_price
base;текст;199,50
`

	entries, err := ParseCSV("визитки", strings.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, entries[0].BasePrice)
	assert.InDelta(t, 199.5, *entries[0].BasePrice, 1e-9)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV("визитки", strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadCSVFiles_MissingFile(t *testing.T) {
	_, err := LoadCSVFiles(map[string]string{"визитки": "/nonexistent/file.csv"})
	assert.Error(t, err)
}
