package state

// EventLog keeps the most recent lines describing input and lifecycle
// events, oldest first.
type EventLog interface {
	Entries() []string
	Append(string)
	Len() int
	Dropped() int
}

type eventLog struct {
	limit   int
	entries []string
	dropped int
}

// NewEventLog keeps at most limit entries. A non-positive limit keeps 256.
func NewEventLog(limit int) EventLog {
	if limit <= 0 {
		limit = 256
	}
	return &eventLog{limit: limit}
}

func (l *eventLog) Entries() []string {
	return cloneEntries(l.entries)
}

func (l *eventLog) Append(entry string) {
	if len(l.entries) == l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.limit-1]
		l.dropped++
	}
	l.entries = append(l.entries, entry)
}

func (l *eventLog) Len() int {
	return len(l.entries)
}

func (l *eventLog) Dropped() int {
	return l.dropped
}

func cloneEntries(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]string, len(entries))
	copy(dup, entries)
	return dup
}
