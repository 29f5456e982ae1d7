// Package sheet reads and writes the spare-part inventory as .xlsx workbooks.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// SheetName is the worksheet written by Export.
const SheetName = "Inventory"

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	colName         = "Name"
	colCategory     = "Category"
	colMachineType  = "Machine Type"
	colQuantity     = "Quantity"
	colMinThreshold = "Min Threshold"
	colUnit         = "Unit"
	colSupplier     = "Supplier"
	colPrice        = "Price"
	colImageURL     = "Image URL"
	colStockLevel   = "Stock Level"
)

var exportHeaders = []string{
	colName, colCategory, colMachineType, colQuantity, colMinThreshold,
	colUnit, colSupplier, colPrice, colImageURL, colStockLevel,
}

// Export writes the parts as a single-sheet workbook.
func Export(w io.Writer, parts []*domain.SparePart) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, p := range parts {
		imageURL := ""
		if p.ImageURL != nil {
			imageURL = *p.ImageURL
		}
		values := []interface{}{
			p.Name, p.Category, p.MachineType, p.Quantity, p.MinThreshold,
			p.Unit, p.Supplier, p.Price, imageURL, string(p.StockLevel()),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
		return err
	}

	return f.Write(w)
}

// Parse reads parts from the first sheet of a workbook. The first row holds
// the headers; Name is required, every other column is optional and matched
// case-insensitively. Invalid rows are reported together as a field
// validation error keyed by "row N".
func Parse(r io.Reader) ([]*domain.SparePart, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewValidationError([]string{"file is not a valid .xlsx workbook"})
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, domain.NewValidationError([]string{fmt.Sprintf("read sheet: %v", err)})
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError([]string{"sheet is empty"})
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[strings.ToLower(colName)]; !ok {
		return nil, domain.NewValidationError([]string{"missing Name column"})
	}

	cell := func(row []string, name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parts []*domain.SparePart
	rowErrors := map[string]string{}
	for n, row := range rows[1:] {
		rowNum := n + 2
		name := cell(row, colName)
		if name == "" {
			if isBlank(row) {
				continue
			}
			rowErrors[rowLabel(rowNum)] = "name is required"
			continue
		}

		p := &domain.SparePart{
			Name:        name,
			Category:    cell(row, colCategory),
			MachineType: cell(row, colMachineType),
			Unit:        cell(row, colUnit),
			Supplier:    cell(row, colSupplier),
		}
		if u := cell(row, colImageURL); u != "" {
			p.ImageURL = &u
		}

		var problems []string
		if p.Quantity, err = parseInt(cell(row, colQuantity)); err != nil || p.Quantity < 0 {
			problems = append(problems, "quantity must be a non-negative integer")
		}
		if p.MinThreshold, err = parseInt(cell(row, colMinThreshold)); err != nil || p.MinThreshold < 0 {
			problems = append(problems, "min threshold must be a non-negative integer")
		}
		if p.Price, err = parseFloat(cell(row, colPrice)); err != nil || p.Price < 0 {
			problems = append(problems, "price must be a non-negative number")
		}
		if len(problems) > 0 {
			rowErrors[rowLabel(rowNum)] = strings.Join(problems, "; ")
			continue
		}
		parts = append(parts, p)
	}

	if len(rowErrors) > 0 {
		return nil, domain.NewFieldValidationError(rowErrors)
	}
	return parts, nil
}

func rowLabel(n int) string {
	return "row " + strconv.Itoa(n)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
