// Package export renders the task list as JSON, CSV, or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tugas/internal/controller"
	"tugas/internal/output"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// ReportTitle heads the PDF export.
const ReportTitle = "Daftar Tugas"

var csvHeader = []string{"id", "text", "completed", "deadline", "remaining", "state"}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Export renders items in format.
func Export(items []controller.Item, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		if items == nil {
			items = []controller.Item{}
		}
		return json.MarshalIndent(items, "", "  ")
	case FormatCSV:
		return exportCSV(items)
	case FormatPDF:
		return exportPDF(items)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func exportCSV(items []controller.Item) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		rec := []string{it.ID, it.Text, strconv.FormatBool(it.Completed), it.Deadline, it.Remaining, string(it.State)}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func exportPDF(items []controller.Item) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, ReportTitle)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(items) == 0 {
		pdf.MultiCell(0, 6, "Tidak ada tugas.", "0", "L", false)
	}
	for i, it := range items {
		var line bytes.Buffer
		output.FormatItem(&line, i+1, it)
		pdf.MultiCell(0, 6, strings.TrimRight(line.String(), "\n"), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
