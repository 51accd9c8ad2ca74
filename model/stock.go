// model/stock.go
package model

import "errors"

// ErrNoCopies signals a decrement below zero. The lending service checks the
// count before decrementing, so hitting this means a bug.
var ErrNoCopies = errors.New("no copies available")

type stockEntry struct {
	total     int
	available int
}

// Stock tracks copy counts per identifier, independent of the loan state on
// the Media record itself.
type Stock struct {
	entries map[string]stockEntry
}

func NewStock() *Stock {
	return &Stock{entries: map[string]stockEntry{}}
}

// Add registers copies for an identifier. Re-adding overwrites both the
// total and the available count, mirroring catalog-add semantics.
func (s *Stock) Add(id string, copies int) {
	s.entries[id] = stockEntry{total: copies, available: copies}
}

// Restore rebuilds an entry from a stored record. A borrowed record means at
// least one copy is out, so the total sits one above the stored count.
func (s *Stock) Restore(id string, available int, borrowed bool) {
	total := available
	if borrowed {
		total++
	}
	s.entries[id] = stockEntry{total: total, available: available}
}

// Count reports the copies currently available for lending.
func (s *Stock) Count(id string) int {
	return s.entries[id].available
}

// Total reports the copies registered at add time.
func (s *Stock) Total(id string) int {
	return s.entries[id].total
}

func (s *Stock) Decrement(id string) error {
	e := s.entries[id]
	if e.available <= 0 {
		return ErrNoCopies
	}
	e.available--
	s.entries[id] = e
	return nil
}

// Increment frees one copy, never above the registered total.
func (s *Stock) Increment(id string) {
	e := s.entries[id]
	if e.available < e.total {
		e.available++
		s.entries[id] = e
	}
}
