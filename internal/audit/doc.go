// Package audit provides audit trail logging for vault operations.
//
// Every mutating operation (init, add, remove, update) and every reveal
// is recorded in a vault-level audit log, so the operator can reconstruct
// when a secret was touched.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<vault>/.keys/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Operation name
//   - Operation-specific details (credential name, login, counts)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations never fail
// just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display. Malformed lines
// are silently skipped to handle partial writes.
package audit
