package holiday

import (
	"sort"
	"sync"
)

// Holiday is one public holiday as published by the holiday API.
type Holiday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Table maps ISO dates (2006-01-02) to holiday display names. It is filled once at startup and
// read concurrently by every layout pass afterwards.
type Table struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewTable() *Table {
	return &Table{names: make(map[string]string)}
}

// Merge adds holidays to the table. A later holiday on the same date replaces the earlier name.
func (t *Table) Merge(holidays []Holiday) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range holidays {
		if h.Date == "" {
			continue
		}
		t.names[h.Date] = h.LocalName
	}
}

// Name returns the holiday name for date.
func (t *Table) Name(date string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.names[date]
	return name, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}

// All returns the table contents sorted by date.
func (t *Table) All() []Holiday {
	t.mu.RLock()
	holidays := make([]Holiday, 0, len(t.names))
	for date, name := range t.names {
		holidays = append(holidays, Holiday{Date: date, LocalName: name})
	}
	t.mu.RUnlock()

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})
	return holidays
}
