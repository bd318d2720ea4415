// Package services defines shared utilities consumed by the batch executor and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, manifest rows, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified (upload, mint, persist) and paired with operator hints.
//   - A small JSON-over-HTTP helper shared by the storage, ledger, and record
//     service clients.
//
// Use these helpers when wiring new service clients so error handling and
// observability stay uniform across the pipeline.
package services
