package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSV column names recognized by the loader.
const (
	colGroup       = "group"
	colKeywords    = "keywords"
	colAnswerUK    = "answer_uk"
	colAnswerRU    = "answer_ru"
	colPriority    = "priority"
	colTriggers    = "triggers"
	colBasePrice   = "base_price"
	colUpsellPrice = "upsell_price"
	colPriceSuffix = "price_suffix"
	colSortOrder   = "sort_order"
)

// LoadCSVFiles reads per-category CSV files into entries. The map key is
// the category name, the value the file path. Row-level problems are
// reported through the returned entry list's later validation; file-level
// problems fail the load.
func LoadCSVFiles(files map[string]string) ([]Entry, error) {
	var all []Entry

	for category, path := range files {
		entries, err := loadCSVFile(category, path)
		if err != nil {
			return nil, fmt.Errorf("load catalog csv %s: %w", path, err)
		}
		all = append(all, entries...)
	}

	return all, nil
}

func loadCSVFile(category, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(category, f)
}

// ParseCSV reads one category's entries from r. The delimiter is sniffed
// from the header line; both ';' and ',' separated exports are accepted.
func ParseCSV(category string, r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]Entry, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		e := Entry{
			ID:       fmt.Sprintf("%s_%d", category, rowNum+1),
			Category: category,
			Group:    field(row, colGroup),
			Keywords: splitList(field(row, colKeywords)),
			Answers:  map[string]string{},
			Priority: parseIntDefault(field(row, colPriority), 10),
			Triggers: splitList(field(row, colTriggers)),

			PriceSuffix: field(row, colPriceSuffix),
			SortOrder:   parseIntDefault(field(row, colSortOrder), rowNum+1),
		}

		if v := field(row, colAnswerUK); v != "" {
			e.Answers["uk"] = v
		}
		if v := field(row, colAnswerRU); v != "" {
			e.Answers["ru"] = v
		}

		e.BasePrice = parsePrice(field(row, colBasePrice))
		e.UpsellPrice = parsePrice(field(row, colUpsellPrice))

		entries = append(entries, e)
	}

	return entries, nil
}

// sniffDelimiter picks the delimiter from the header line, matching the
// semicolon-separated spreadsheet exports the catalog is maintained in.
func sniffDelimiter(data string) rune {
	header := data
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if strings.Contains(header, ";") {
		return ';'
	}
	return ','
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
