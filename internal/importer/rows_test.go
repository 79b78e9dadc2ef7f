package importer

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	src := "name,price,discount\nWidget,50,10\nGadget,20,\n"
	rows, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["name"] != "Widget" || rows[0]["price"] != "50" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1]["discount"] != "" {
		t.Errorf("empty cell should be empty string, got %q", rows[1]["discount"])
	}
}

func TestReadCSVRaggedRecords(t *testing.T) {
	src := "name,price,stock\nWidget,50\nGadget,20,3,extra\n"
	rows, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if _, ok := rows[0]["stock"]; ok {
		t.Errorf("short record should not invent cells: %v", rows[0])
	}
	if rows[1]["stock"] != "3" {
		t.Errorf("long record should keep mapped cells: %v", rows[1])
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	src := "name,price\n\"unterminated,10\n"
	if _, err := ReadCSV(strings.NewReader(src)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRowsFromValues(t *testing.T) {
	values := [][]any{
		{"name", "price", "stock"},
		{"Widget", 50.0, 3.0},
		{"Gadget", "19.99"},
	}
	rows := RowsFromValues(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["price"] != "50" || rows[0]["stock"] != "3" {
		t.Errorf("numeric cells should stringify cleanly: %v", rows[0])
	}
	if rows[1]["price"] != "19.99" {
		t.Errorf("string cells pass through: %v", rows[1])
	}
	if RowsFromValues(nil) != nil {
		t.Errorf("nil values should produce nil rows")
	}
}

func TestWriteTemplate(t *testing.T) {
	var sb strings.Builder
	if err := WriteTemplate(&sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("template should have header plus two samples, got %d lines", len(lines))
	}
	if lines[0] != "name,price,discount,category,stock,description" {
		t.Errorf("unexpected header: %q", lines[0])
	}

	// The template must round-trip through the importer.
	rows, err := ReadCSV(strings.NewReader(out))
	if err != nil {
		t.Fatalf("template should be parseable: %v", err)
	}
	products, err := Normalize(rows)
	if err != nil || len(products) != 2 {
		t.Fatalf("template rows should import cleanly: products=%v err=%v", products, err)
	}
}
