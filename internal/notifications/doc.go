// Package notifications delivers batch events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when notifications are disabled.
// Enumerated event types cover batch milestones and per-item alerts so the
// executor and CLI can emit consistent messages without duplicating HTTP glue.
// Per-event toggles in the [notifications] section suppress events at the
// source.
package notifications
