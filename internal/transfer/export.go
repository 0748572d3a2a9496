package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/adanyl0v/go-todo-local/internal/models"
)

const (
	FormatJSON = "json"
	FormatPDF  = "pdf"

	ExportFileName    = "todos.json"
	ExportPDFFileName = "todos.pdf"
)

// FileName returns the download name for the given export format.
func FileName(format string) string {
	if strings.EqualFold(format, FormatPDF) {
		return ExportPDFFileName
	}
	return ExportFileName
}

func ContentType(format string) string {
	if strings.EqualFold(format, FormatPDF) {
		return "application/pdf"
	}
	return "application/json; charset=utf-8"
}

// Export serializes the full, unfiltered collection.
func Export(tasks []models.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return ExportJSON(tasks)
	case FormatPDF:
		return ExportPDF(tasks)
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

func ExportJSON(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

func ExportPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	var active int
	for i := range tasks {
		if !tasks[i].Completed {
			active++
		}
	}
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d remaining, %d completed", active, len(tasks)-active))
	pdf.Ln(10)

	for _, task := range tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(mark+" "+task.Title), "0", "L", false)
		pdf.SetFont("Arial", "", 9)
		if task.Description != nil && *task.Description != "" {
			pdf.MultiCell(0, 5, tr(*task.Description), "0", "L", false)
		}
		pdf.MultiCell(0, 5, fmt.Sprintf("created %s, updated %s",
			task.CreatedAt.Format("2006-01-02 15:04"),
			task.UpdatedAt.Format("2006-01-02 15:04")), "0", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
