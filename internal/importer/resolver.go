package importer

import (
	"log"
	"strconv"
	"strings"

	"github.com/fabrii9/prodsync/internal/odoo"
)

// Client is the slice of the Odoo session the importer needs. *odoo.Client
// satisfies it; tests substitute a fake.
type Client interface {
	Search(model string, domain []any, limit int) ([]int64, error)
	Create(model string, vals map[string]any) (int64, error)
	Write(model string, ids []int64, vals map[string]any) (bool, error)
	Read(model string, ids []int64, fields []string) ([]map[string]any, error)
}

// CategoryResolver resolves the loosely-typed category reference found in
// spreadsheet cells to a product.category id.
//
// Strategies are tried in a fixed order, stopping at the first match:
//
//  1. a purely numeric token is a literal id, confirmed to exist
//  2. module.name is a qualified external id in ir.model.data
//  3. a bare token is an external id name in ir.model.data
//  4. finally, an exact product.category display-name match
//
// A token no strategy resolves is not an error: the resolver logs a warning
// and the caller skips category assignment, letting the server default apply.
type CategoryResolver struct {
	client Client
	logger *log.Logger
}

// NewCategoryResolver creates a resolver bound to one session. A nil logger
// falls back to stderr.
func NewCategoryResolver(client Client, logger *log.Logger) *CategoryResolver {
	if logger == nil {
		logger = defaultLogger()
	}
	return &CategoryResolver{client: client, logger: logger}
}

// Resolve maps ref to a category id. found is false when ref is blank or no
// strategy matched. A non-nil error means a remote call failed and the row
// should be aborted.
func (r *CategoryResolver) Resolve(ref string) (id int64, found bool, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false, nil
	}

	if isDigits(ref) {
		id, found, err = r.byLiteralID(ref)
		if err != nil || found {
			return id, found, err
		}
	}

	if module, name, ok := strings.Cut(ref, "."); ok {
		id, found, err = r.byExternalID(module, name)
		if err != nil || found {
			return id, found, err
		}
	}

	id, found, err = r.byExternalID("", ref)
	if err != nil || found {
		return id, found, err
	}

	id, found, err = r.byDisplayName(ref)
	if err != nil || found {
		return id, found, err
	}

	r.logger.Printf("WARN category %q not found, server default applies", ref)
	return 0, false, nil
}

// byLiteralID confirms that a numeric token names an existing category.
func (r *CategoryResolver) byLiteralID(ref string) (int64, bool, error) {
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	ids, err := r.client.Search(odoo.ModelProductCategory, []any{odoo.Eq("id", n)}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// byExternalID looks the token up in the external-id registry. An empty
// module matches on name alone.
func (r *CategoryResolver) byExternalID(module, name string) (int64, bool, error) {
	domain := []any{
		odoo.Eq("name", name),
		odoo.Eq("model", odoo.ModelProductCategory),
	}
	if module != "" {
		domain = append([]any{odoo.Eq("module", module)}, domain...)
	}

	ids, err := r.client.Search(odoo.ModelExternalID, domain, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}

	records, err := r.client.Read(odoo.ModelExternalID, ids, []string{"res_id"})
	if err != nil {
		return 0, false, err
	}
	if len(records) == 0 {
		return 0, false, nil
	}
	resID, ok := asID(records[0]["res_id"])
	if !ok || resID == 0 {
		return 0, false, nil
	}
	return resID, true, nil
}

func (r *CategoryResolver) byDisplayName(ref string) (int64, bool, error) {
	ids, err := r.client.Search(odoo.ModelProductCategory, []any{odoo.Eq("name", ref)}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// asID coerces the id shapes the RPC layer may hand back.
func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
