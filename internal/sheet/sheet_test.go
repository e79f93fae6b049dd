package sheet

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates a temporary .xlsx file with the given rows on the
// given sheet and returns its path.
func writeWorkbook(t *testing.T, sheetName string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		if _, err := f.NewSheet(sheetName); err != nil {
			t.Fatalf("NewSheet() failed: %v", err)
		}
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName() failed: %v", err)
		}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow() failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "products.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	return path
}

func TestLoad_RecognizedColumns(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"default_code", "name", "categ_id/id", "list_price", "sale_ok"},
		{"SKU1", "Widget", "5", "10,50", "yes"},
		{"SKU2", "Gadget", "", "", ""},
	})

	rows, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Load() returned %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Index != 0 {
		t.Errorf("rows[0].Index = %d, want 0", first.Index)
	}
	if first.Code != "SKU1" || first.Name != "Widget" {
		t.Errorf("rows[0] = %+v, want code SKU1 name Widget", first)
	}
	if first.CategoryRef != "5" || first.ListPrice != "10,50" || first.SaleOK != "yes" {
		t.Errorf("rows[0] = %+v, want category 5, list price 10,50, sale_ok yes", first)
	}

	second := rows[1]
	if second.Index != 1 || second.Code != "SKU2" || second.CategoryRef != "" {
		t.Errorf("rows[1] = %+v, want index 1 code SKU2 with blank category", second)
	}
}

func TestLoad_HeaderTrimming(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"  default_code ", " name"},
		{"SKU1", "Widget"},
	})

	rows, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rows[0].Code != "SKU1" || rows[0].Name != "Widget" {
		t.Errorf("rows[0] = %+v, want trimmed headers recognized", rows[0])
	}
}

func TestLoad_CategoryAlias(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"default_code", "categoria de producto / external id"},
		{"SKU1", "base.cat_all"},
	})

	rows, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rows[0].CategoryRef != "base.cat_all" {
		t.Errorf("CategoryRef = %q, want base.cat_all", rows[0].CategoryRef)
	}
}

func TestLoad_CategoryPrimaryWinsOverAlias(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"categoria de producto / external id", "categ_id/id", "name"},
		{"alias-ref", "primary-ref", "Widget"},
	})

	rows, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rows[0].CategoryRef != "primary-ref" {
		t.Errorf("CategoryRef = %q, want primary-ref", rows[0].CategoryRef)
	}
}

func TestLoad_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Productos", [][]any{
		{"default_code"},
		{"SKU9"},
	})

	rows, err := Load(path, "Productos")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "SKU9" {
		t.Errorf("rows = %+v, want one row with code SKU9", rows)
	}
}

func TestLoad_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"default_code"}})

	if _, err := Load(path, "NoSuchSheet"); err == nil {
		t.Fatal("Load() with missing sheet succeeded, want error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), ""); err == nil {
		t.Fatal("Load() with missing file succeeded, want error")
	}
}

func TestLoad_ShortRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"default_code", "name", "barcode"},
		{"SKU1"},
	})

	rows, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rows[0].Code != "SKU1" || rows[0].Name != "" || rows[0].Barcode != "" {
		t.Errorf("rows[0] = %+v, want short row padded with blanks", rows[0])
	}
}
