package network

// hopQuota counts traversal steps across a whole search and enforces the
// registry's MaxHops.
//
// The lineage cycle guard catches closed loops; the quota bounds searches
// over very large but acyclic benches. Together they guarantee that
// FindPath terminates.
type hopQuota struct {
	limit   int
	current int
}

func newHopQuota(limit int) *hopQuota {
	return &hopQuota{limit: limit}
}

// check counts one step and fails once the quota is exceeded.
func (q *hopQuota) check(from, to string) error {
	q.current++
	if q.current > q.limit {
		return &Error{
			Code:    ErrCodeHopLimitExceeded,
			Message: "search from " + from + " to " + to + " exceeded the hop quota",
			Node:    to,
		}
	}
	return nil
}
