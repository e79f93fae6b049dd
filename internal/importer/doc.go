// Package importer turns one spreadsheet row into one create or update of an
// Odoo product.template record.
//
// # Overview
//
// The Importer owns the per-row business logic:
//
//  1. Extract the natural key (default_code, falling back to name). A row
//     with neither is skipped, which is a success, not an error.
//  2. Resolve the category reference through the CategoryResolver fallback
//     chain. An unresolvable category never blocks the row; the record is
//     left on the server's default category.
//  3. Build a sparse value map: string fields only when non-blank, prices
//     only when non-zero, the four boolean flags always.
//  4. Search by the natural key and write (update) or create accordingly.
//
// # Failure semantics
//
// Remote-call failures abort only the row they occur in; the error is
// returned to the caller, which converts it into a per-row failure report.
// No retries are attempted.
package importer
