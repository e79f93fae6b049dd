package importer

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fabrii9/prodsync/internal/odoo"
	"github.com/fabrii9/prodsync/internal/sheet"
)

// SkippedNoKey is the label returned for rows carrying neither a code nor a
// name. Such rows are unidentifiable, not broken, and count as processed.
const SkippedNoKey = "skipped: no code or name"

// Importer processes single rows against one Odoo session.
type Importer struct {
	client   Client
	resolver *CategoryResolver
	logger   *log.Logger
}

// New creates an Importer bound to one session. A nil logger falls back to
// stderr.
func New(client Client, logger *log.Logger) *Importer {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Importer{
		client:   client,
		resolver: NewCategoryResolver(client, logger),
		logger:   logger,
	}
}

func defaultLogger() *log.Logger {
	return log.New(os.Stderr, "[import] ", log.LstdFlags)
}

// Close releases the underlying session when the client holds one. The
// worker pool calls this when a worker retires its session.
func (im *Importer) Close() error {
	if closer, ok := im.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ImportRow upserts one product.template record from row and returns a
// short outcome label ("create: SKU1", "update: SKU1", or SkippedNoKey).
//
// A returned error means a remote call failed; only this row is affected
// and the caller decides how to report it.
func (im *Importer) ImportRow(row sheet.Row) (string, error) {
	code := strings.TrimSpace(row.Code)
	name := strings.TrimSpace(row.Name)
	if code == "" && name == "" {
		return SkippedNoKey, nil
	}

	categoryID, hasCategory, err := im.resolver.Resolve(row.CategoryRef)
	if err != nil {
		return "", fmt.Errorf("failed to resolve category %q: %w", row.CategoryRef, err)
	}

	vals := buildValues(row, categoryID, hasCategory)

	// Natural key: prefer the code, fall back to the display name.
	var domain []any
	if code != "" {
		domain = []any{odoo.Eq("default_code", code)}
	} else {
		domain = []any{odoo.Eq("name", name)}
	}

	ids, err := im.client.Search(odoo.ModelProductTemplate, domain, 1)
	if err != nil {
		return "", fmt.Errorf("failed to search product: %w", err)
	}

	ident := code
	if ident == "" {
		ident = name
	}

	if len(ids) > 0 {
		if _, err := im.client.Write(odoo.ModelProductTemplate, ids[:1], vals); err != nil {
			return "", fmt.Errorf("failed to update product: %w", err)
		}
		return "update: " + ident, nil
	}

	if _, err := im.client.Create(odoo.ModelProductTemplate, vals); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return "create: " + ident, nil
}
