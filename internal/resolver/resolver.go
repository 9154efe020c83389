// Package resolver loads the optional item mapping table that translates
// raw platform item names into the accounting system's canonical names, tax
// codes and units of measure.
package resolver

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/config"
	"gstledger/internal/ledger"
)

// Required header columns, matched case-insensitively after trimming.
const (
	colRawName       = "raw name"
	colCanonicalName = "canonical name"
	colTaxCode       = "tax code"
	colUnit          = "unit"
)

// Table maps case-normalized raw item names to their accounting metadata.
// The zero value (and an empty table) acts as the identity resolver: no
// name ever matches and downstream code keeps raw values.
type Table struct {
	entries map[string]ledger.ItemMapping
}

// Identity returns an empty table that never matches.
func Identity() *Table {
	return &Table{}
}

// Load reads a mapping table from an .xlsx workbook or a delimited text
// file. An empty path degrades to the identity table. A table missing one
// of the required columns is a fatal configuration error.
func Load(path string) (*Table, error) {
	if path == "" {
		return Identity(), nil
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return build(rows, path)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open mapping workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, config.NewConfigError("mapping workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read mapping sheet %s", sheets[0])
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open mapping table %s", path)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse mapping table")
	}
	return rows, nil
}

// build indexes the tabular rows by the raw-name column. The first
// occurrence of a duplicate key wins.
func build(rows [][]string, source string) (*Table, error) {
	if len(rows) == 0 {
		return nil, config.NewConfigError("mapping table %s is empty", source)
	}

	index := make(map[string]int)
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{colRawName, colCanonicalName, colTaxCode, colUnit} {
		if _, ok := index[required]; !ok {
			return nil, config.NewConfigError("mapping table %s is missing required column %q", source, required)
		}
	}

	entries := make(map[string]ledger.ItemMapping, len(rows)-1)
	for _, row := range rows[1:] {
		raw := strings.ToLower(strings.TrimSpace(cell(row, index[colRawName])))
		if raw == "" {
			continue
		}
		if _, exists := entries[raw]; exists {
			continue
		}
		entries[raw] = ledger.ItemMapping{
			Canonical: strings.TrimSpace(cell(row, index[colCanonicalName])),
			TaxCode:   strings.TrimSpace(cell(row, index[colTaxCode])),
			Unit:      strings.TrimSpace(cell(row, index[colUnit])),
		}
	}
	return &Table{entries: entries}, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// Resolve looks up the mapping for a raw item name. Matching is exact after
// lower-casing and trimming; there is no fuzzy or partial matching.
func (t *Table) Resolve(rawName string) (ledger.ItemMapping, bool) {
	if t == nil || len(t.entries) == 0 {
		return ledger.ItemMapping{}, false
	}
	m, ok := t.entries[strings.ToLower(strings.TrimSpace(rawName))]
	return m, ok
}

// Len reports how many mappings are loaded.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
