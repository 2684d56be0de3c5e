// Package catalog reads product catalogs exported from the back office.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

// Columns of the catalog sheet, first row is the header
const (
	colName = iota
	colDescription
	colPrice
	colDiscount
	colColors
	colQuantity
	colSpecifications
	colImageIDs
	colImageExtensions
	colProductType

	minColumns = colProductType + 1
)

// Header is the header row a catalog sheet is expected to start with
var Header = []string{
	"name", "description", "price", "discount", "colors", "quantity",
	"specifications", "image_ids", "image_extensions", "product_type",
}

// RowError reports a row that was skipped
type RowError struct {
	Row    int // 1-based, as shown in a spreadsheet
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ReadXLSX parses the first sheet of the workbook at path
func ReadXLSX(path string) ([]model.Product, []RowError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	products, skipped := ParseRows(rows[1:], 2)
	return products, skipped, nil
}

// ParseRows converts data rows into products. firstRow is the sheet row
// number of rows[0] and is used for error reporting.
func ParseRows(rows [][]string, firstRow int) ([]model.Product, []RowError) {
	var (
		products []model.Product
		skipped  []RowError
	)

	for i, row := range rows {
		rowNum := firstRow + i
		if isBlank(row) {
			continue
		}
		if len(row) < minColumns {
			// excelize trims trailing empty cells
			row = append(row, make([]string, minColumns-len(row))...)
		}

		product, err := parseRow(row)
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		products = append(products, product)
	}
	return products, skipped
}

func parseRow(row []string) (model.Product, error) {
	name := strings.TrimSpace(row[colName])
	if name == "" {
		return model.Product{}, fmt.Errorf("name is empty")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[colPrice]), 64)
	if err != nil || price < 0 {
		return model.Product{}, fmt.Errorf("invalid price %q", row[colPrice])
	}

	discount := 0.0
	if s := strings.TrimSpace(row[colDiscount]); s != "" {
		discount, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || discount < 0 || discount > 100 {
			return model.Product{}, fmt.Errorf("invalid discount %q", row[colDiscount])
		}
	}

	quantity := 0
	if s := strings.TrimSpace(row[colQuantity]); s != "" {
		quantity, err = strconv.Atoi(s)
		if err != nil || quantity < 0 {
			return model.Product{}, fmt.Errorf("invalid quantity %q", row[colQuantity])
		}
	}

	productType := model.ProductType(strings.ToLower(strings.TrimSpace(row[colProductType])))
	switch productType {
	case model.ProductTypeBin, model.ProductTypeContainer, model.ProductTypeAccessory:
	default:
		return model.Product{}, fmt.Errorf("unknown product type %q", row[colProductType])
	}

	imageIDs := splitList(row[colImageIDs])
	extensions := splitList(row[colImageExtensions])
	if len(extensions) > 0 && len(extensions) != len(imageIDs) {
		return model.Product{}, fmt.Errorf("%d image extensions for %d images", len(extensions), len(imageIDs))
	}

	var extByImage map[string]string
	if len(extensions) > 0 {
		extByImage = make(map[string]string, len(imageIDs))
		for i, id := range imageIDs {
			extByImage[id] = strings.TrimPrefix(extensions[i], ".")
		}
	}

	return model.Product{
		Name:            name,
		Description:     strings.TrimSpace(row[colDescription]),
		Price:           price,
		Discount:        discount,
		Colors:          pq.StringArray(splitList(row[colColors])),
		Quantity:        quantity,
		Specifications:  strings.TrimSpace(row[colSpecifications]),
		ImageIDs:        pq.StringArray(imageIDs),
		ImageExtensions: extByImage,
		ProductType:     productType,
	}, nil
}

// splitList reads a comma separated cell, dropping empty entries
func splitList(cell string) []string {
	out := []string{}
	for _, part := range strings.Split(cell, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
