// Package preflight provides readiness checks for the services and paths a
// batch depends on.
//
// The CLI "mintforge check" command runs RunAll so operators can confirm the
// storage, ledger, and record endpoints answer before committing to a long
// batch. Checks are selected by the configured backends; optional pieces
// such as notifications are skipped when unset.
package preflight
