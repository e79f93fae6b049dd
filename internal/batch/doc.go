// Package batch runs row imports across a fixed pool of concurrent workers
// and reports results in original row order.
//
// # Architecture
//
//	rows ──► feeder ──► jobs channel ──► N workers ──► results channel
//	                                      (one Odoo                │
//	                                       session each)           ▼
//	                                                       reorder by index
//	                                                             │
//	                                                             ▼
//	                                                      report callback
//
// Each worker lazily constructs one session through the injected factory on
// its first real row and keeps it for the worker's lifetime, so the
// authentication cost is paid once per worker, not once per row. Sessions
// are never shared between workers.
//
// Execution order is unspecified; reporting order is strictly increasing
// row index. Every submitted row produces exactly one Result.
//
// # Failure model
//
// A row failure is data, not control flow: it becomes a Result with OK
// false and the batch continues. Only two things abort a run: a context
// cancellation (remaining rows report as canceled) and a session factory
// failure before any row has been processed, which is how a bad password
// surfaces.
package batch
