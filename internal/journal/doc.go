// Package journal provides SQLite-backed storage for registry activity.
//
// The journal is an append-only log scoped by simulation-context token:
//   - Contexts: one row per registry, with the bench it was built from
//   - Events: every registry change event, keyed by (context, seq)
//   - Paths: every path query and its outcome
//
// All ordering uses the registry's logical seq, never wall time, and every
// query ends in ORDER BY seq ASC, id ASC so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
