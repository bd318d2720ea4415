// Package main hosts the mintforge CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a drop directory (one manifest CSV plus
// asset files) into a batch run: it resolves configuration, wires the storage,
// ledger, and record clients, takes the per-collection lock, and renders
// progress and the final summary. Dry-run planning, manifest templates, local
// record listing, and configuration scaffolding live alongside.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
