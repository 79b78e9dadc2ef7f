package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// TemplateFilename is the fixed name offered for the downloadable template.
const TemplateFilename = "product_template.csv"

// ReadCSV parses a header-plus-records CSV stream into rows. Only one table
// is read; ragged records are tolerated and missing cells simply stay
// absent from the row.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make(Row, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowsFromValues converts a Sheets values range (first row = header) into
// rows. Cells arrive as untyped values from the Sheets API and are
// stringified the way they would appear in a CSV export.
func RowsFromValues(values [][]any) []Row {
	if len(values) == 0 {
		return nil
	}
	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellString(cell)
	}

	rows := make([]Row, 0, len(values)-1)
	for _, record := range values[1:] {
		row := make(Row, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = cellString(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// WriteTemplate emits the import template: the canonical header row and two
// illustrative sample products.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{"name", "price", "discount", "category", "stock", "description"},
		{"Sample Product 1", "100", "10", "Electronics", "50", "Sample product description"},
		{"Sample Product 2", "200", "15", "Clothing", "30", "Another sample product"},
	}
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write template record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
