package importer

import (
	"strconv"
	"strings"

	"github.com/fabrii9/prodsync/internal/sheet"
)

// truthy is the accepted vocabulary for boolean cells, lower-cased. It
// mirrors what spreadsheet exports in the wild actually contain, including
// Spanish affirmatives and the bare "x" mark.
var truthy = map[string]bool{
	"1": true, "true": true, "t": true,
	"si": true, "sí": true, "s": true,
	"yes": true, "y": true,
	"x": true,
}

// parseBool reports whether a cell holds an affirmative token. Anything
// outside the vocabulary, including blank, is false.
func parseBool(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// parseFloat parses a price cell, accepting a comma decimal separator.
// Blank or unparseable cells degrade to 0 rather than failing the row.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// buildValues assembles the sparse value map for a row. String fields are
// included only when non-blank and prices only when non-zero, so an update
// leaves unmentioned fields untouched. The four boolean flags are always
// present: Odoo treats an absent flag differently from an explicit false.
func buildValues(row sheet.Row, categoryID int64, hasCategory bool) map[string]any {
	vals := make(map[string]any)

	if name := strings.TrimSpace(row.Name); name != "" {
		vals["name"] = name
	}
	if code := strings.TrimSpace(row.Code); code != "" {
		vals["default_code"] = code
	}

	// pandas exports leave the literal string "nan" in empty barcode cells.
	barcode := strings.TrimSpace(row.Barcode)
	if strings.EqualFold(barcode, "nan") {
		barcode = ""
	}
	if barcode != "" {
		vals["barcode"] = barcode
	}

	if listPrice := parseFloat(row.ListPrice); listPrice != 0 {
		vals["list_price"] = listPrice
	}
	if standardPrice := parseFloat(row.StandardPrice); standardPrice != 0 {
		vals["standard_price"] = standardPrice
	}

	if supplierCode := strings.TrimSpace(row.SupplierCode); supplierCode != "" {
		vals["supplier_code"] = supplierCode
	}
	if brand := strings.TrimSpace(row.Brand); brand != "" {
		vals["brand"] = brand
	}

	vals["available_in_pos"] = parseBool(row.AvailableInPOS)
	vals["purchase_ok"] = parseBool(row.PurchaseOK)
	vals["sale_ok"] = parseBool(row.SaleOK)
	vals["is_storable"] = parseBool(row.IsStorable)

	if hasCategory {
		vals["categ_id"] = categoryID
	}

	return vals
}
