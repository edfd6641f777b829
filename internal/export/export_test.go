package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"tugas/internal/controller"
	"tugas/internal/countdown"
	"tugas/internal/service"
)

func sampleItems() []controller.Item {
	return []controller.Item{
		{
			Task:      service.Task{ID: "a", Text: "Write report", Deadline: "2025-01-01T10:00"},
			Remaining: "1j 1m 5s",
			State:     countdown.Active,
		},
		{
			Task:      service.Task{ID: "b", Text: "Pay rent, twice", Completed: true, Deadline: "2024-12-31T23:59"},
			Remaining: countdown.ExpiredText,
			State:     countdown.Completed,
		},
	}
}

func TestExport_JSON(t *testing.T) {
	data, err := Export(sampleItems(), "JSON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0]["id"] != "a" || got[0]["remaining"] != "1j 1m 5s" || got[0]["state"] != "active" {
		t.Errorf("unexpected first item: %v", got[0])
	}
	if got[1]["completed"] != true {
		t.Errorf("expected second item completed, got %v", got[1]["completed"])
	}
}

func TestExport_JSONEmpty(t *testing.T) {
	data, err := Export(nil, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected %q, got %q", "[]", string(data))
	}
}

func TestExport_CSV(t *testing.T) {
	data, err := Export(sampleItems(), FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][5] != "state" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][1] != "Pay rent, twice" {
		t.Errorf("expected quoted text to round-trip, got %q", records[2][1])
	}
	if records[2][2] != "true" || records[2][4] != "Waktu habis!" {
		t.Errorf("unexpected row: %v", records[2])
	}
}

func TestExport_PDF(t *testing.T) {
	data, err := Export(sampleItems(), FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", data[:8])
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := Export(sampleItems(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("pdf"); got != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", got)
	}
	if got := ContentType("csv"); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}
}
