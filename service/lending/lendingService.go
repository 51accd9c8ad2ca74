package lending

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/project-eman-Farah/dev-library/model"
)

// errors reported to the console layer

type ErrCode string

const (
	ErrOutOfStock    ErrCode = "OUT_OF_STOCK"
	ErrBorrowBlocked ErrCode = "BORROW_BLOCKED"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrNotBorrowed   ErrCode = "NOT_BORROWED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for non-domain errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// lostAfterDays: a loan more than this many days past due counts as lost.
const lostAfterDays = 30

// Store persists the catalog after every mutation.
type Store interface {
	Save(cat *model.Catalog) error
}

// Notifier is the outgoing notification port. The returned flag is
// informational only.
type Notifier interface {
	Send(to, subject, body string) bool
}

// FineLedger is the slice of the fine service the state machine needs.
type FineLedger interface {
	Add(user string, amount int)
	HasOutstanding(user string) bool
}

// Borrowed is returned on a successful borrow.
type Borrowed struct {
	Title string
	Due   time.Time
}

// Listing pairs a catalog record with its remaining copy count.
type Listing struct {
	Item   *model.Media
	Copies int
}

type Service interface {
	AddBook(title, author, isbn string, copies int)
	AddCD(title, artist, id string, copies int)

	BorrowBook(isbn, user string) (*Borrowed, error)
	BorrowCD(id, user string) (*Borrowed, error)
	ReturnBook(isbn, user string) error
	ReturnCD(id, user string) error

	CheckOverdue(user string) int
	CheckLost(user string) int
	HasActiveLoans(user string) bool

	SearchBooks(keyword string) []*model.Media
	Books() []Listing
	CDs() []Listing
}

type service struct {
	cat   *model.Catalog
	fines FineLedger
	store Store
	mail  Notifier
	log   zerolog.Logger

	now func() time.Time
}

func New(cat *model.Catalog, fines FineLedger, store Store, mail Notifier, log zerolog.Logger) Service {
	return &service{cat: cat, fines: fines, store: store, mail: mail, log: log, now: time.Now}
}

// ----- catalog add -----

func (s *service) AddBook(title, author, isbn string, copies int) {
	b := model.NewMedia(model.KindBook, title, author, isbn)
	s.cat.Books = append(s.cat.Books, b)
	s.cat.BookStock.Add(isbn, copies)
	s.persist()
	s.log.Info().Str("isbn", isbn).Int("copies", copies).Msg("book added")
}

func (s *service) AddCD(title, artist, id string, copies int) {
	cd := model.NewMedia(model.KindCD, title, artist, id)
	s.cat.CDs = append(s.cat.CDs, cd)
	s.cat.CDStock.Add(id, copies)
	s.persist()
	s.log.Info().Str("id", id).Int("copies", copies).Msg("cd added")
}

// ----- borrow -----

// BorrowBook matches ISBNs case-insensitively; CD ids are matched exactly.
func (s *service) BorrowBook(isbn, user string) (*Borrowed, error) {
	if s.blocked(user) {
		return nil, makeErr(ErrBorrowBlocked)
	}

	for _, b := range s.cat.Books {
		if !strings.EqualFold(b.ID, isbn) {
			continue
		}
		return s.lend(b, s.cat.BookStock, user)
	}
	return nil, makeErr(ErrNotFound)
}

func (s *service) BorrowCD(id, user string) (*Borrowed, error) {
	if s.blocked(user) {
		return nil, makeErr(ErrBorrowBlocked)
	}

	for _, cd := range s.cat.CDs {
		if cd.ID != id {
			continue
		}
		return s.lend(cd, s.cat.CDStock, user)
	}
	return nil, makeErr(ErrNotFound)
}

func (s *service) lend(m *model.Media, stock *model.Stock, user string) (*Borrowed, error) {
	if stock.Count(m.ID) <= 0 {
		return nil, makeErr(ErrOutOfStock)
	}

	due := s.today().AddDate(0, 0, m.LoanDays())
	m.Borrow(due, user)

	if err := stock.Decrement(m.ID); err != nil {
		// unreachable behind the count guard above
		panic(fmt.Sprintf("stock underflow for %s: %v", m.ID, err))
	}
	s.persist()

	subjectNoun, _ := nouns(m.Kind)
	s.notify(user, subjectNoun+" Borrowed", borrowBody(m))
	s.log.Info().Str("id", m.ID).Str("user", user).Time("due", due).Msg("item borrowed")

	return &Borrowed{Title: m.Title, Due: due}, nil
}

func borrowBody(m *model.Media) string {
	due := m.DueDate.Format(model.DateLayout)
	if m.Kind == model.KindCD {
		return "You borrowed CD: " + m.Title + "\nDue: " + due
	}
	return "You borrowed: " + m.Title + "\nDue: " + due
}

// blocked applies the borrowing restrictions: unpaid fines, or any lost item
// anywhere in the catalog.
func (s *service) blocked(user string) bool {
	if s.fines.HasOutstanding(user) {
		s.log.Warn().Str("user", user).Msg("borrow blocked: unpaid fines")
		return true
	}
	if s.hasLostItem(user) {
		s.log.Warn().Str("user", user).Msg("borrow blocked: lost item exists")
		return true
	}
	return false
}

func (s *service) hasLostItem(user string) bool {
	today := s.today()
	for _, m := range s.cat.All() {
		if isLost(m, user, today) {
			return true
		}
	}
	return false
}

func isLost(m *model.Media, user string, today time.Time) bool {
	return !m.Available && m.BorrowedBy == user && m.DueDate != nil &&
		today.After(dateOnly(*m.DueDate).AddDate(0, 0, lostAfterDays))
}

// ----- return -----

func (s *service) ReturnBook(isbn, user string) error {
	for _, b := range s.cat.Books {
		if b.ID != isbn || b.BorrowedBy != user {
			continue
		}
		s.settle(b, s.cat.BookStock, user)
		return nil
	}
	return makeErr(ErrNotBorrowed)
}

func (s *service) ReturnCD(id, user string) error {
	for _, cd := range s.cat.CDs {
		if cd.ID != id || cd.BorrowedBy != user {
			continue
		}
		s.settle(cd, s.cat.CDStock, user)
		return nil
	}
	return makeErr(ErrNotBorrowed)
}

// settle closes the loan: per-day late fine if overdue, then reset the
// record, free a copy and persist.
func (s *service) settle(m *model.Media, stock *model.Stock, user string) {
	today := s.today()
	subjectNoun, bodyNoun := nouns(m.Kind)

	if m.DueDate != nil && today.After(dateOnly(*m.DueDate)) {
		lateDays := int(today.Sub(dateOnly(*m.DueDate)).Hours() / 24)
		amount := lateDays * m.FineRate()
		s.fines.Add(user, amount)
		s.notify(user, "Late "+subjectNoun+" Returned",
			fmt.Sprintf("You returned the %s late.\nFine added: %d NIS", bodyNoun, amount))
	}

	title := m.Title
	m.Return()
	stock.Increment(m.ID)
	s.persist()

	s.notify(user, subjectNoun+" Returned", "Returned: "+title)
	s.log.Info().Str("id", m.ID).Str("user", user).Msg("item returned")
}

// ----- overdue & lost sweeps -----

// CheckOverdue charges one flat FineRate per overdue item on every call.
// This is the reminder trigger, distinct from the per-day settlement fine in
// ReturnBook/ReturnCD; repeated calls re-charge.
func (s *service) CheckOverdue(user string) int {
	today := s.today()
	count := 0

	for _, m := range s.cat.All() {
		if m.Available || m.BorrowedBy != user || m.DueDate == nil || !today.After(dateOnly(*m.DueDate)) {
			continue
		}

		s.fines.Add(user, m.FineRate())
		count++

		subjectNoun, bodyNoun := nouns(m.Kind)
		s.notify(user, "Overdue "+subjectNoun, "Your "+bodyNoun+" '"+m.Title+"' is overdue!")
	}
	return count
}

// CheckLost charges the flat lost-item penalty for every loan more than 30
// days past due. The loan record stays open: the copy is presumed
// unrecovered, so the same item re-triggers on every later call.
func (s *service) CheckLost(user string) int {
	today := s.today()
	count := 0

	for _, m := range s.cat.All() {
		if !isLost(m, user, today) {
			continue
		}

		s.fines.Add(user, m.LostPenalty())
		count++

		subjectNoun, bodyNoun := nouns(m.Kind)
		s.notify(user, "Lost "+subjectNoun,
			fmt.Sprintf("You lost the %s '%s'. Fine: %d NIS", bodyNoun, m.Title, m.LostPenalty()))
		s.persist()
	}
	return count
}

func (s *service) HasActiveLoans(user string) bool {
	for _, m := range s.cat.All() {
		if !m.Available && m.BorrowedBy == user {
			return true
		}
	}
	return false
}

// ----- listings & search -----

func (s *service) SearchBooks(keyword string) []*model.Media {
	kw := strings.ToLower(keyword)
	var out []*model.Media
	for _, b := range s.cat.Books {
		if strings.Contains(strings.ToLower(b.Title), kw) ||
			strings.Contains(strings.ToLower(b.Creator), kw) ||
			strings.EqualFold(b.ID, keyword) {
			out = append(out, b)
		}
	}
	return out
}

func (s *service) Books() []Listing {
	return listings(s.cat.Books, s.cat.BookStock)
}

func (s *service) CDs() []Listing {
	return listings(s.cat.CDs, s.cat.CDStock)
}

func listings(items []*model.Media, stock *model.Stock) []Listing {
	out := make([]Listing, 0, len(items))
	for _, m := range items {
		out = append(out, Listing{Item: m, Copies: stock.Count(m.ID)})
	}
	return out
}

// ----- internals -----

// persist writes the catalog through after a mutation. Failures leave the
// in-memory state ahead of the file; that divergence is accepted.
func (s *service) persist() {
	if err := s.store.Save(s.cat); err != nil {
		s.log.Error().Err(err).Msg("saving library file failed")
	}
}

func (s *service) notify(user, subject, body string) {
	if !s.mail.Send(user, subject, body) {
		s.log.Warn().Str("user", user).Str("subject", subject).Msg("notification not delivered")
	}
}

func (s *service) today() time.Time {
	return dateOnly(s.now())
}

// dateOnly truncates to a calendar date; all due-date math runs on whole
// days, matching the store file format.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nouns(k model.Kind) (subject, body string) {
	if k == model.KindCD {
		return "CD", "CD"
	}
	return "Book", "book"
}
