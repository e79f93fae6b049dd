// Package odoo provides an XML-RPC client for the Odoo external API.
//
// # Overview
//
// Odoo exposes its ORM over two XML-RPC endpoints: /xmlrpc/2/common for
// authentication and /xmlrpc/2/object for model operations. A Client
// authenticates once at construction and then issues execute_kw calls
// against the object endpoint:
//
//	client, err := odoo.Dial(odoo.Options{
//	    URL:      "https://example.odoo.com",
//	    Database: "production",
//	    User:     "admin",
//	    Password: "secret",
//	})
//	if err != nil {
//	    return err
//	}
//
//	ids, err := client.Search("product.template",
//	    []any{odoo.Eq("default_code", "SKU1")}, 1)
//
// # Error taxonomy
//
// Failures are classified into three types, all usable with errors.As:
//
//   - *AuthError: the server rejected the credentials. Fatal; a batch run
//     must not start.
//   - *CallError: transport-level failure (connection refused, timeout,
//     malformed response). Row-scoped and non-retryable here.
//   - *ServerFault: the server executed the call and rejected it
//     (validation, access rights). Row-scoped and non-retryable here.
//
// # Concurrency
//
// A Client is a single authenticated session and is not safe for concurrent
// use. Callers that process work in parallel construct one Client per worker
// (see the batch package).
package odoo
