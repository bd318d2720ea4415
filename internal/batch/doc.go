// Package batch drives correlated manifest rows through upload, mint, and
// persist.
//
// Executor.Run processes pairs in manifest order. A failure at any stage is
// recorded on that item's result and the batch moves on; nothing is retried.
// Stage calls run on a context detached from caller cancellation and bounded
// by a per-call timeout, so cancelling a run stops it at the next item
// boundary rather than between a mint and its record. Progress snapshots are
// delivered to an Observer and can be polled from the Job.
//
// With Workers greater than one the executor fans pairs out to a bounded pool,
// optionally paced by a token-bucket rate limiter, while still reporting
// completions in manifest order.
package batch
