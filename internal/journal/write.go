package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/lightpath/internal/network"
	"github.com/roach88/lightpath/internal/optic"
)

// ContextInfo describes one journaled simulation context.
type ContextInfo struct {
	Token         string `json:"token"`
	Bench         string `json:"bench"`
	ToolVersion   string `json:"tool_version"`
	SchemaVersion string `json:"schema_version"`
}

// PathRecord is one journaled path query.
type PathRecord struct {
	Seq        int64    `json:"seq"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Components []string `json:"components"`
	Hops       int      `json:"hops"`

	// ErrorCode is empty when the query found a path.
	ErrorCode network.ErrorCode `json:"error_code,omitempty"`
}

// Found reports whether the query succeeded.
func (p PathRecord) Found() bool { return p.ErrorCode == "" }

// WriteContext registers a simulation context. Writing the same token twice
// is a no-op.
func (j *Journal) WriteContext(ctx context.Context, token, bench string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO contexts (token, bench, tool_version, schema_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, bench, optic.ToolVersion, optic.SchemaVersion)
	if err != nil {
		return fmt.Errorf("write context: %w", err)
	}
	return nil
}

// WriteEvent appends a registry event. Uses ON CONFLICT(context, seq) DO
// NOTHING, so replaying the same registry is idempotent.
//
// Note: The event's context must have been written first (foreign key constraint).
func (j *Journal) WriteEvent(ctx context.Context, ev network.Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (context, seq, kind, node, component, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(context, seq) DO NOTHING
	`, ev.Context, ev.Seq, string(ev.Kind), ev.Node, ev.Component, ev.Detail)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// WritePath appends a path query for token. The record's Seq is assigned
// by the journal, one past the last query of the same context, and
// returned.
func (j *Journal) WritePath(ctx context.Context, token string, rec PathRecord) (int64, error) {
	components := rec.Components
	if components == nil {
		components = []string{}
	}
	data, err := json.Marshal(components)
	if err != nil {
		return 0, fmt.Errorf("write path: marshal components: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write path: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM paths WHERE context = ?`, token,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write path: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO paths (context, seq, from_node, to_node, components, hops, error_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, token, seq, rec.From, rec.To, string(data), rec.Hops, string(rec.ErrorCode))
	if err != nil {
		return 0, fmt.Errorf("write path: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write path: commit: %w", err)
	}
	return seq, nil
}

// RecordSearch journals the outcome of a Search or FindPath call.
func (j *Journal) RecordSearch(ctx context.Context, token, from, to string, res *network.SearchResult, searchErr error) error {
	rec := PathRecord{From: from, To: to}
	if searchErr != nil {
		rec.ErrorCode = network.CodeOf(searchErr)
		if rec.ErrorCode == "" {
			rec.ErrorCode = "UNKNOWN"
		}
	} else if res != nil {
		rec.Components = res.Names()
		rec.Hops = res.Hops
	}
	_, err := j.WritePath(ctx, token, rec)
	return err
}
