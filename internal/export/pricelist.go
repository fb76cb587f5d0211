package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"nordclean/internal/pricing"
)

const (
	homeSheet    = "Hemstäd"
	moveOutSheet = "Flyttstäd"
)

// WritePriceList renders every pricing table as an xlsx workbook.
func WritePriceList(w io.Writer) error {
	f, err := buildPriceList()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SavePriceList writes the workbook to path, creating parent directories.
func SavePriceList(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := buildPriceList()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func buildPriceList() (*excelize.File, error) {
	f := excelize.NewFile()

	var home []pricing.NamedTable
	var moveOut pricing.NamedTable
	for _, nt := range pricing.Tables() {
		if nt.CleaningType == pricing.MoveOutCleaning {
			moveOut = nt
		} else {
			home = append(home, nt)
		}
	}

	// the default sheet becomes the home cleaning sheet
	if err := f.SetSheetName("Sheet1", homeSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeHomeSheet(f, home); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(moveOutSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeTableSheet(f, moveOutSheet, []pricing.NamedTable{moveOut}, []string{"Pris"}); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeHomeSheet(f *excelize.File, tables []pricing.NamedTable) error {
	headers := make([]string, 0, len(tables))
	for _, nt := range tables {
		headers = append(headers, nt.Frequency.Label())
	}
	return writeTableSheet(f, homeSheet, tables, headers)
}

// writeTableSheet writes one row per bracket. Tables sharing a sheet must
// have the same bounds.
func writeTableSheet(f *excelize.File, sheet string, tables []pricing.NamedTable, headers []string) error {
	row := append([]interface{}{"Kvadratmeter"}, toInterfaces(headers)...)
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(row))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	lower := 0
	for i, b := range tables[0].Brackets {
		data := []interface{}{RangeLabel(lower, b.Max)}
		for _, nt := range tables {
			data = append(data, cellValue(nt.Brackets[i]))
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &data); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		lower = b.Max + 1
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

// RangeLabel renders a bracket's size range, e.g. "80–109" or "190+".
func RangeLabel(lower, upper int) string {
	if upper == pricing.Unbounded {
		return fmt.Sprintf("%d+", lower)
	}
	return fmt.Sprintf("%d–%d", lower, upper)
}

func cellValue(b pricing.Bracket) interface{} {
	if b.Quote {
		return pricing.QuoteText
	}
	return b.Price
}

func toInterfaces(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
