package importer

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// call records one RPC issued against the fake client.
type call struct {
	method string // search, create, write, read
	model  string
	domain []any
	vals   map[string]any
	ids    []int64
}

// domainString flattens a domain for easy matching in canned replies,
// e.g. `[id = 5]` or `[module = base][name = cat][model = product.category]`.
func domainString(domain []any) string {
	var b strings.Builder
	for _, cond := range domain {
		parts, ok := cond.([]any)
		if !ok || len(parts) != 3 {
			fmt.Fprintf(&b, "[?]")
			continue
		}
		fmt.Fprintf(&b, "[%v %v %v]", parts[0], parts[1], parts[2])
	}
	return b.String()
}

// fakeClient is a scriptable in-memory Client. Search replies are keyed by
// "model " + domainString(domain); read replies by model.
type fakeClient struct {
	calls []call

	searchReplies map[string][]int64
	readReplies   map[string][]map[string]any
	createID      int64

	searchErr error
	createErr error
	writeErr  error
	readErr   error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		searchReplies: make(map[string][]int64),
		readReplies:   make(map[string][]map[string]any),
		createID:      101,
	}
}

func (f *fakeClient) onSearch(model string, domain string, ids ...int64) {
	f.searchReplies[model+" "+domain] = ids
}

func (f *fakeClient) Search(model string, domain []any, limit int) ([]int64, error) {
	f.calls = append(f.calls, call{method: "search", model: model, domain: domain})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchReplies[model+" "+domainString(domain)], nil
}

func (f *fakeClient) Create(model string, vals map[string]any) (int64, error) {
	f.calls = append(f.calls, call{method: "create", model: model, vals: vals})
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakeClient) Write(model string, ids []int64, vals map[string]any) (bool, error) {
	f.calls = append(f.calls, call{method: "write", model: model, ids: ids, vals: vals})
	if f.writeErr != nil {
		return false, f.writeErr
	}
	return true, nil
}

func (f *fakeClient) Read(model string, ids []int64, fields []string) ([]map[string]any, error) {
	f.calls = append(f.calls, call{method: "read", model: model, ids: ids})
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.readReplies[model], nil
}

// methods returns the sequence of RPC method names issued so far.
func (f *fakeClient) methods() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.method
	}
	return out
}

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
