// model/media.go
package model

import "time"

// Kind discriminates the media variants. The values double as the TYPE
// field in the store file.
type Kind string

const (
	KindBook Kind = "BOOK"
	KindCD   Kind = "CD"
)

// DateLayout is the due-date format used on screen and in the store file.
const DateLayout = "2006-01-02"

// Media is one catalog record: immutable identity plus the loan state of
// the single in-memory loan slot. Copy counts live in Stock, not here.
type Media struct {
	Kind       Kind
	Title      string
	Creator    string // author for books, artist for CDs
	ID         string // ISBN for books, catalog id for CDs
	Available  bool
	DueDate    *time.Time
	BorrowedBy string
}

func NewMedia(kind Kind, title, creator, id string) *Media {
	return &Media{Kind: kind, Title: title, Creator: creator, ID: id, Available: true}
}

// Borrow marks the record as lent out. Availability preconditions are the
// caller's job.
func (m *Media) Borrow(due time.Time, user string) {
	m.Available = false
	m.DueDate = &due
	m.BorrowedBy = user
}

// Return resets the record to available and clears the loan state.
func (m *Media) Return() {
	m.Available = true
	m.DueDate = nil
	m.BorrowedBy = ""
}

// FineRate is the fine in NIS charged per late day.
func (m *Media) FineRate() int {
	switch m.Kind {
	case KindCD:
		return 20
	default:
		return 10
	}
}

// LoanDays is the loan period granted at borrow time.
func (m *Media) LoanDays() int {
	switch m.Kind {
	case KindCD:
		return 7
	default:
		return 28
	}
}

// LostPenalty is the flat charge applied once an item is 30+ days overdue.
func (m *Media) LostPenalty() int {
	switch m.Kind {
	case KindCD:
		return 40
	default:
		return 60
	}
}

func (m *Media) String() string {
	if m.Kind == KindCD {
		head := m.Title + " (CD, Artist: " + m.Creator + ", ID: " + m.ID + ")"
		if m.Available {
			return head + " [Available]"
		}
		return head + " [Borrowed by: " + m.BorrowedBy + ", due: " + m.DueDate.Format(DateLayout) + "]"
	}

	head := m.Title + " by " + m.Creator + " (ISBN: " + m.ID + ")"
	if m.Available {
		return head + " [Available]"
	}
	return head + " [Borrowed by: " + m.BorrowedBy + ", due: " + m.DueDate.Format(DateLayout) + "]"
}
