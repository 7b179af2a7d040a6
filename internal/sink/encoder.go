package sink

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/milad/energyreport/internal/domain"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Encoder turns a report into file contents.
type Encoder interface {
	// Ext is the file extension including the leading dot.
	Ext() string
	Encode(rep domain.Report) ([]byte, error)
}

// EncoderFor maps a configured format name to its encoder.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "txt", "text":
		return TextEncoder{}, nil
	case "xlsx":
		return XLSXEncoder{}, nil
	case "pdf":
		return PDFEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want txt, xlsx or pdf)", ErrUnknownFormat, format)
	}
}

// TextEncoder writes one UTF-8 line per report line, each ending in \n.
type TextEncoder struct{}

func (TextEncoder) Ext() string { return ".txt" }

func (TextEncoder) Encode(rep domain.Report) ([]byte, error) {
	var b bytes.Buffer
	for _, line := range rep.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// XLSXEncoder writes a "summary" sheet with numeric cells and a "lines"
// sheet with the rendered text.
type XLSXEncoder struct{}

func (XLSXEncoder) Ext() string { return ".xlsx" }

func (XLSXEncoder) Encode(rep domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	linesSheet := "lines"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if _, err := f.NewSheet(linesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	sum := rep.Summary
	_ = f.SetCellValue(summarySheet, "A1", rep.Title())
	_ = f.SetCellValue(summarySheet, "A3", "Total Consumption (kWh)")
	_ = f.SetCellValue(summarySheet, "B3", sum.TotalConsumption)
	_ = f.SetCellValue(summarySheet, "A4", "Total Production (kWh)")
	_ = f.SetCellValue(summarySheet, "B4", sum.TotalProduction)
	_ = f.SetCellValue(summarySheet, "A5", "Average Temperature (°C)")
	_ = f.SetCellValue(summarySheet, "B5", sum.AverageTemperature)
	_ = f.SetCellValue(summarySheet, "A6", "Readings")
	_ = f.SetCellValue(summarySheet, "B6", sum.Count)

	for i, line := range rep.Lines {
		_ = f.SetCellValue(linesSheet, fmt.Sprintf("A%d", i+1), line)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFEncoder lays the report lines out on a single A4 page. The core fonts
// are cp1252, so text goes through a translator to keep "°" intact.
type PDFEncoder struct{}

func (PDFEncoder) Ext() string { return ".pdf" }

func (PDFEncoder) Encode(rep domain.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for i, line := range rep.Lines {
		if i == 0 {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, tr(line))
			pdf.Ln(10)
			pdf.SetFont("Arial", "", 10)
			continue
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
