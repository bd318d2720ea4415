// Package records defines the persisted record of a minted token and a local
// SQLite store for it.
//
// The batch executor persists one Record per successfully minted item through
// any implementation of CreateRecord: the remote record service client in
// internal/services/recordapi or the Store in this package. The Store mirrors
// that contract so creators without a backend can keep a local ledger of what
// they minted and list it with `mintforge records list`.
//
// The schema is embedded and versioned. A version mismatch is reported with
// ErrSchemaMismatch rather than migrated in place.
package records
