package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/lightpath/internal/network"
)

// ReadEvents returns all events of a context in seq order.
//
// Returns an empty slice (not nil) if the context has no events.
func (j *Journal) ReadEvents(ctx context.Context, token string) ([]network.Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT context, seq, kind, node, component, detail
		FROM events
		WHERE context = ?
		ORDER BY seq ASC, id ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []network.Event{}
	for rows.Next() {
		var ev network.Event
		var kind string
		if err := rows.Scan(&ev.Context, &ev.Seq, &kind, &ev.Node, &ev.Component, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = network.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadPaths returns all path queries of a context in seq order.
//
// Returns an empty slice (not nil) if the context has no queries.
func (j *Journal) ReadPaths(ctx context.Context, token string) ([]PathRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, from_node, to_node, components, hops, error_code
		FROM paths
		WHERE context = ?
		ORDER BY seq ASC, id ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	paths := []PathRecord{}
	for rows.Next() {
		var rec PathRecord
		var components, code string
		if err := rows.Scan(&rec.Seq, &rec.From, &rec.To, &components, &rec.Hops, &code); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		if err := json.Unmarshal([]byte(components), &rec.Components); err != nil {
			return nil, fmt.Errorf("unmarshal path components: %w", err)
		}
		rec.ErrorCode = network.ErrorCode(code)
		paths = append(paths, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paths: %w", err)
	}
	return paths, nil
}

// ReadContext returns the context with the given token.
// Returns found=false if no such context exists.
func (j *Journal) ReadContext(ctx context.Context, token string) (ContextInfo, bool, error) {
	var info ContextInfo
	err := j.db.QueryRowContext(ctx, `
		SELECT token, bench, tool_version, schema_version
		FROM contexts
		WHERE token = ?
	`, token).Scan(&info.Token, &info.Bench, &info.ToolVersion, &info.SchemaVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContextInfo{}, false, nil
		}
		return ContextInfo{}, false, fmt.Errorf("query context: %w", err)
	}
	return info, true, nil
}

// Contexts returns every journaled context, ordered by token.
func (j *Journal) Contexts(ctx context.Context) ([]ContextInfo, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT token, bench, tool_version, schema_version
		FROM contexts
		ORDER BY token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()

	out := []ContextInfo{}
	for rows.Next() {
		var info ContextInfo
		if err := rows.Scan(&info.Token, &info.Bench, &info.ToolVersion, &info.SchemaVersion); err != nil {
			return nil, fmt.Errorf("scan context: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contexts: %w", err)
	}
	return out, nil
}
