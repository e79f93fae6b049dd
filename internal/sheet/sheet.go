// Package sheet reads product rows from an Excel workbook.
//
// The first row of the selected sheet is the header. Header names are
// trimmed and matched case-sensitively against the recognized column set;
// unrecognized columns are ignored. Each following row becomes one Row with
// raw string cell values. Type coercion (prices, boolean flags) is the
// importer's job, not this package's.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Recognized column headers. The two category headers are aliases for the
// same field; categ_id/id wins when both are present.
const (
	ColCode           = "default_code"
	ColName           = "name"
	ColCategory       = "categ_id/id"
	ColCategoryAlias  = "categoria de producto / external id"
	ColSupplierCode   = "supplier_code"
	ColBrand          = "brand"
	ColBarcode        = "barcode"
	ColListPrice      = "list_price"
	ColStandardPrice  = "standard_price"
	ColAvailableInPOS = "available_in_pos"
	ColPurchaseOK     = "purchase_ok"
	ColSaleOK         = "sale_ok"
	ColIsStorable     = "is_storable"
)

// Row is one product row, identified by its 0-based position among the data
// rows. All values are raw cell text; blank means the cell was empty or the
// column absent.
type Row struct {
	Index int

	Code          string
	Name          string
	CategoryRef   string
	SupplierCode  string
	Brand         string
	Barcode       string
	ListPrice     string
	StandardPrice string

	AvailableInPOS string
	PurchaseOK     string
	SaleOK         string
	IsStorable     string
}

// Load reads all data rows from the workbook at path. An empty sheetName
// selects the workbook's first sheet.
func Load(path, sheetName string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	cols := mapColumns(raw[0])

	rows := make([]Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		rows = append(rows, buildRow(i, cells, cols))
	}
	return rows, nil
}

// columnMap records the position of each recognized column, -1 when absent.
type columnMap struct {
	code, name, category  int
	supplierCode, brand   int
	barcode               int
	listPrice, stdPrice   int
	availableInPOS        int
	purchaseOK, saleOK    int
	isStorable            int
}

func mapColumns(header []string) columnMap {
	cols := columnMap{
		code: -1, name: -1, category: -1,
		supplierCode: -1, brand: -1, barcode: -1,
		listPrice: -1, stdPrice: -1,
		availableInPOS: -1, purchaseOK: -1, saleOK: -1, isStorable: -1,
	}
	categoryAlias := -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColCode:
			cols.code = i
		case ColName:
			cols.name = i
		case ColCategory:
			cols.category = i
		case ColCategoryAlias:
			categoryAlias = i
		case ColSupplierCode:
			cols.supplierCode = i
		case ColBrand:
			cols.brand = i
		case ColBarcode:
			cols.barcode = i
		case ColListPrice:
			cols.listPrice = i
		case ColStandardPrice:
			cols.stdPrice = i
		case ColAvailableInPOS:
			cols.availableInPOS = i
		case ColPurchaseOK:
			cols.purchaseOK = i
		case ColSaleOK:
			cols.saleOK = i
		case ColIsStorable:
			cols.isStorable = i
		}
	}
	if cols.category == -1 {
		cols.category = categoryAlias
	}
	return cols
}

func buildRow(index int, cells []string, cols columnMap) Row {
	return Row{
		Index:          index,
		Code:           cell(cells, cols.code),
		Name:           cell(cells, cols.name),
		CategoryRef:    cell(cells, cols.category),
		SupplierCode:   cell(cells, cols.supplierCode),
		Brand:          cell(cells, cols.brand),
		Barcode:        cell(cells, cols.barcode),
		ListPrice:      cell(cells, cols.listPrice),
		StandardPrice:  cell(cells, cols.stdPrice),
		AvailableInPOS: cell(cells, cols.availableInPOS),
		PurchaseOK:     cell(cells, cols.purchaseOK),
		SaleOK:         cell(cells, cols.saleOK),
		IsStorable:     cell(cells, cols.isStorable),
	}
}

// cell returns the trimmed value at position idx, tolerating short rows.
func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
