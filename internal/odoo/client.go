package odoo

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
)

// Model names used by the product importer.
const (
	ModelProductTemplate = "product.template"
	ModelProductCategory = "product.category"
	ModelExternalID      = "ir.model.data"
)

// DefaultTimeout bounds every RPC when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures a connection to an Odoo server.
type Options struct {
	URL      string
	Database string
	User     string
	Password string

	// Timeout applies to dialing and to waiting for response headers on
	// every call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client is one authenticated XML-RPC session against an Odoo server.
//
// It wraps the common/object endpoint pair and the uid returned by
// authenticate. Not safe for concurrent use; construct one Client per
// worker.
type Client struct {
	opts   Options
	uid    int64
	object *xmlrpc.Client
}

// Eq builds a single Odoo domain condition (field = value).
func Eq(field string, value any) []any {
	return []any{field, "=", value}
}

// Dial connects to the server and authenticates.
//
// It fails fast: a *AuthError is returned when the server answers the
// authenticate call with a rejection, a *CallError when the server cannot
// be reached at all.
func Dial(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	base := strings.TrimRight(opts.URL, "/")

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: opts.Timeout}).DialContext,
		ResponseHeaderTimeout: opts.Timeout,
	}

	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", transport)
	if err != nil {
		return nil, &CallError{Op: "authenticate", Err: err}
	}
	defer common.Close()

	var reply any
	args := []any{opts.Database, opts.User, opts.Password, map[string]any{}}
	if err := common.Call("authenticate", args, &reply); err != nil {
		return nil, classify("authenticate", err)
	}

	// Odoo answers false instead of a uid when the credentials are bad.
	uid, ok := asInt(reply)
	if !ok || uid <= 0 {
		return nil, &AuthError{URL: base, Database: opts.Database, User: opts.User}
	}

	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", transport)
	if err != nil {
		return nil, &CallError{Op: "connect", Err: err}
	}

	return &Client{opts: opts, uid: uid, object: object}, nil
}

// Close releases the underlying HTTP connections.
func (c *Client) Close() error {
	return c.object.Close()
}

// UID returns the user id the session authenticated as.
func (c *Client) UID() int64 { return c.uid }

// Search returns the ids of records of model matching domain. A limit of 0
// means unlimited.
func (c *Client) Search(model string, domain []any, limit int) ([]int64, error) {
	var kwargs map[string]any
	if limit > 0 {
		kwargs = map[string]any{"limit": limit}
	}
	reply, err := c.execute(model, "search", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}
	return asIntSlice(reply), nil
}

// Create inserts a new record and returns its id.
func (c *Client) Create(model string, vals map[string]any) (int64, error) {
	reply, err := c.execute(model, "create", []any{vals}, nil)
	if err != nil {
		return 0, err
	}
	id, ok := asInt(reply)
	if !ok {
		return 0, &CallError{Op: model + ".create", Err: fmt.Errorf("unexpected reply %T", reply)}
	}
	return id, nil
}

// Write applies a partial update to the given records. Fields absent from
// vals keep their current values.
func (c *Client) Write(model string, ids []int64, vals map[string]any) (bool, error) {
	reply, err := c.execute(model, "write", []any{ids, vals}, nil)
	if err != nil {
		return false, err
	}
	ok, _ := reply.(bool)
	return ok, nil
}

// Read fetches the named fields of the given records.
func (c *Client) Read(model string, ids []int64, fields []string) ([]map[string]any, error) {
	reply, err := c.execute(model, "read", []any{ids, fields}, nil)
	if err != nil {
		return nil, err
	}
	items, _ := reply.([]any)
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// execute issues one execute_kw call against the object endpoint.
func (c *Client) execute(model, method string, args []any, kwargs map[string]any) (any, error) {
	params := []any{c.opts.Database, c.uid, c.opts.Password, model, method, args}
	if kwargs != nil {
		params = append(params, kwargs)
	}

	var reply any
	if err := c.object.Call("execute_kw", params, &reply); err != nil {
		return nil, classify(model+"."+method, err)
	}
	return reply, nil
}

// asInt coerces the integer shapes the XML-RPC decoder produces.
func asInt(v any) (int64, bool) {
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

// asIntSlice coerces a decoded array-of-int reply.
func asIntSlice(v any) []int64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := asInt(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
