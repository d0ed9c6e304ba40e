package cli

import (
	"context"

	"github.com/roach88/lightpath/internal/catalog"
	"github.com/roach88/lightpath/internal/journal"
	"github.com/roach88/lightpath/internal/network"
)

// loadBench reads and validates a bench file. A missing file or an
// unknown format is a command error; a bench that does not parse or fails
// validation is a failure.
func loadBench(f *OutputFormatter, path string) (*catalog.Bench, error) {
	b, err := catalog.LoadFile(path)
	if err != nil {
		exit := ExitFailure
		switch ErrorCode(err) {
		case catalog.ErrCodeNotFound, catalog.ErrCodeUnsupportedFormat:
			exit = ExitCommandError
		}
		return nil, f.Fail(exit, "failed to load bench", err)
	}
	if err := catalog.Check(b); err != nil {
		return nil, f.Fail(ExitFailure, "invalid bench "+b.Name, err)
	}
	return b, nil
}

// session is a built bench, optionally journaled.
type session struct {
	reg     *network.Registry
	journal *journal.Journal
}

// openSession builds b into a fresh registry. When journalPath is set the
// registry's events are recorded there from the first node on.
func openSession(ctx context.Context, f *OutputFormatter, b *catalog.Bench, journalPath string, opts ...network.Option) (*session, error) {
	s := &session{reg: network.New(opts...)}

	var rec *journal.Recorder
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return nil, f.Fail(ExitCommandError, "failed to open journal", err)
		}
		s.journal = j
		rec = journal.NewRecorder(ctx, j)
		if err := rec.Attach(s.reg, b.Name); err != nil {
			s.Close()
			return nil, f.Fail(ExitCommandError, "failed to write journal", err)
		}
	}

	if err := catalog.Build(s.reg, b); err != nil {
		s.Close()
		return nil, f.Fail(ExitFailure, "failed to build bench "+b.Name, err)
	}
	if rec != nil && rec.Err() != nil {
		s.Close()
		return nil, f.Fail(ExitCommandError, "failed to write journal", rec.Err())
	}
	return s, nil
}

// Close releases the journal, if any.
func (s *session) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}
