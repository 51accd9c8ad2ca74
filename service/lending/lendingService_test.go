package lending

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-eman-Farah/dev-library/model"
)

type storeMock struct {
	saveFn func(cat *model.Catalog) error
	saves  int
}

func (m *storeMock) Save(cat *model.Catalog) error {
	m.saves++
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(cat)
}

type mailRecorder struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to, subject, body string
}

func (m *mailRecorder) Send(to, subject, body string) bool {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return !m.fail
}

type ledgerMock struct {
	balances map[string]int
}

func newLedgerMock() *ledgerMock { return &ledgerMock{balances: map[string]int{}} }

func (m *ledgerMock) Add(user string, amount int) {
	if amount < 0 {
		return
	}
	m.balances[user] += amount
}

func (m *ledgerMock) HasOutstanding(user string) bool { return m.balances[user] > 0 }

type fixture struct {
	svc   *service
	cat   *model.Catalog
	store *storeMock
	mail  *mailRecorder
	fines *ledgerMock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := model.NewCatalog()
	store := &storeMock{}
	mail := &mailRecorder{}
	fines := newLedgerMock()

	svc := New(cat, fines, store, mail, zerolog.Nop()).(*service)
	return &fixture{svc: svc, cat: cat, store: store, mail: mail, fines: fines}
}

// addBorrowedBook seeds a book already out on loan, the way a record loaded
// from the store file would look.
func (f *fixture) addBorrowedBook(t *testing.T, isbn, user string, due time.Time) *model.Media {
	t.Helper()

	b := model.NewMedia(model.KindBook, "Seeded", "Author", isbn)
	b.Borrow(due, user)
	f.cat.Books = append(f.cat.Books, b)
	f.cat.BookStock.Restore(isbn, 0, true)
	return b
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestBorrowAndReturnSameDay(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Networks", "Tanenbaum", "123", 2)

	res, err := f.svc.BorrowBook("123", "eman")
	require.NoError(t, err)
	require.Equal(t, "Networks", res.Title)

	wantDue := dateOnly(time.Now()).AddDate(0, 0, 28)
	assert.Equal(t, wantDue, res.Due)
	assert.Equal(t, 1, f.cat.BookStock.Count("123"))

	b := f.cat.Books[0]
	assert.False(t, b.Available)
	assert.Equal(t, "eman", b.BorrowedBy)
	require.NotNil(t, b.DueDate)

	require.NoError(t, f.svc.ReturnBook("123", "eman"))
	assert.Equal(t, 2, f.cat.BookStock.Count("123"))
	assert.True(t, b.Available)
	assert.Nil(t, b.DueDate)
	assert.Empty(t, b.BorrowedBy)
	assert.Equal(t, 0, f.fines.balances["eman"])

	subjects := []string{}
	for _, m := range f.mail.sent {
		subjects = append(subjects, m.subject)
	}
	assert.Equal(t, []string{"Book Borrowed", "Book Returned"}, subjects)
}

func TestBorrowIsbnCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Go", "Donovan", "ABC99", 1)

	_, err := f.svc.BorrowBook("abc99", "eman")
	require.NoError(t, err)
	assert.Equal(t, 0, f.cat.BookStock.Count("ABC99"))
}

func TestBorrowCDIdCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.svc.AddCD("OK Computer", "Radiohead", "CD1", 1)

	_, err := f.svc.BorrowCD("cd1", "eman")
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, Code(err))

	res, err := f.svc.BorrowCD("CD1", "eman")
	require.NoError(t, err)
	assert.Equal(t, dateOnly(time.Now()).AddDate(0, 0, 7), res.Due)
}

func TestBorrowOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Rare", "Auth", "R1", 1)

	_, err := f.svc.BorrowBook("R1", "eman")
	require.NoError(t, err)

	_, err = f.svc.BorrowBook("R1", "farah")
	require.Error(t, err)
	assert.Equal(t, ErrOutOfStock, Code(err))
	assert.Equal(t, 0, f.cat.BookStock.Count("R1"))
}

func TestBorrowUnknownIdentifier(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BorrowBook("nope", "eman")
	assert.Equal(t, ErrNotFound, Code(err))

	_, err = f.svc.BorrowCD("nope", "eman")
	assert.Equal(t, ErrNotFound, Code(err))
}

func TestBorrowBlockedByOutstandingFine(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Networks", "Tanenbaum", "123", 2)
	f.fines.Add("eman", 10)

	_, err := f.svc.BorrowBook("123", "eman")
	require.Error(t, err)
	assert.Equal(t, ErrBorrowBlocked, Code(err))
	assert.Equal(t, 2, f.cat.BookStock.Count("123"))
	assert.Empty(t, f.mail.sent)
}

func TestBorrowBlockedByLostItemElsewhere(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "L1", "eman", daysAgo(40))
	f.svc.AddCD("Fresh", "Artist", "CD9", 3)

	// the lost book blocks borrowing any other item
	_, err := f.svc.BorrowCD("CD9", "eman")
	require.Error(t, err)
	assert.Equal(t, ErrBorrowBlocked, Code(err))

	// a different borrower is unaffected
	_, err = f.svc.BorrowCD("CD9", "farah")
	require.NoError(t, err)
}

func TestReturnLateChargesPerDay(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "L2", "eman", daysAgo(5))

	require.NoError(t, f.svc.ReturnBook("L2", "eman"))

	// 5 late days x 10 per day
	assert.Equal(t, 50, f.fines.balances["eman"])

	require.Len(t, f.mail.sent, 2)
	assert.Equal(t, "Late Book Returned", f.mail.sent[0].subject)
	assert.Contains(t, f.mail.sent[0].body, "Fine added: 50 NIS")
	assert.Equal(t, "Book Returned", f.mail.sent[1].subject)
}

func TestReturnRequiresExactBorrower(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "B1", "eman", daysAgo(-5))

	err := f.svc.ReturnBook("B1", "farah")
	require.Error(t, err)
	assert.Equal(t, ErrNotBorrowed, Code(err))

	// return matches the identifier exactly, unlike borrow
	err = f.svc.ReturnBook("b1", "eman")
	assert.Equal(t, ErrNotBorrowed, Code(err))
}

func TestReturnCapsStockAtRegisteredTotal(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Cap", "Auth", "C1", 2)

	_, err := f.svc.BorrowBook("C1", "eman")
	require.NoError(t, err)
	require.NoError(t, f.svc.ReturnBook("C1", "eman"))
	assert.Equal(t, 2, f.cat.BookStock.Count("C1"))

	// a stray extra increment must not push the count past the total
	f.cat.BookStock.Increment("C1")
	assert.Equal(t, 2, f.cat.BookStock.Count("C1"))
}

func TestCheckOverdueFlatChargePerCall(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "O1", "eman", daysAgo(3))
	f.addBorrowedBook(t, "O2", "eman", daysAgo(12))

	count := f.svc.CheckOverdue("eman")
	assert.Equal(t, 2, count)
	// flat FineRate per item, not per day
	assert.Equal(t, 20, f.fines.balances["eman"])

	// polling trigger: a second call re-charges
	f.svc.CheckOverdue("eman")
	assert.Equal(t, 40, f.fines.balances["eman"])

	assert.Equal(t, "Overdue Book", f.mail.sent[0].subject)
}

func TestCheckOverdueIgnoresCurrentLoans(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "D1", "eman", daysAgo(-10))

	assert.Equal(t, 0, f.svc.CheckOverdue("eman"))
	assert.Equal(t, 0, f.fines.balances["eman"])
	assert.Empty(t, f.mail.sent)
}

func TestCheckLostCDKeepsLoanOpen(t *testing.T) {
	f := newFixture(t)

	cd := model.NewMedia(model.KindCD, "Lost Album", "Artist", "CD7")
	cd.Borrow(daysAgo(31), "eman")
	f.cat.CDs = append(f.cat.CDs, cd)
	f.cat.CDStock.Restore("CD7", 0, true)

	count := f.svc.CheckLost("eman")
	assert.Equal(t, 1, count)
	assert.Equal(t, 40, f.fines.balances["eman"])

	// the loan record stays open and re-triggers
	assert.False(t, cd.Available)
	assert.Equal(t, "eman", cd.BorrowedBy)
	f.svc.CheckLost("eman")
	assert.Equal(t, 80, f.fines.balances["eman"])

	assert.Equal(t, "Lost CD", f.mail.sent[0].subject)
	assert.Contains(t, f.mail.sent[0].body, "Fine: 40 NIS")
}

func TestCheckLostRequiresThirtyOneDays(t *testing.T) {
	f := newFixture(t)
	f.addBorrowedBook(t, "E1", "eman", daysAgo(30))

	assert.Equal(t, 0, f.svc.CheckLost("eman"))
	assert.Equal(t, 0, f.fines.balances["eman"])
}

func TestHasActiveLoans(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.svc.HasActiveLoans("eman"))

	f.svc.AddBook("X", "Y", "H1", 1)
	_, err := f.svc.BorrowBook("H1", "eman")
	require.NoError(t, err)
	assert.True(t, f.svc.HasActiveLoans("eman"))
	assert.False(t, f.svc.HasActiveLoans("farah"))

	require.NoError(t, f.svc.ReturnBook("H1", "eman"))
	assert.False(t, f.svc.HasActiveLoans("eman"))
}

func TestSearchBooks(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Computer Networks", "Tanenbaum", "123", 1)
	f.svc.AddBook("Databases", "Korth", "456", 1)

	assert.Len(t, f.svc.SearchBooks("networks"), 1)
	assert.Len(t, f.svc.SearchBooks("tanen"), 1)
	assert.Len(t, f.svc.SearchBooks("456"), 1)
	assert.Empty(t, f.svc.SearchBooks("nothing"))
}

func TestEveryMutationPersists(t *testing.T) {
	f := newFixture(t)

	f.svc.AddBook("P", "Q", "S1", 1)
	assert.Equal(t, 1, f.store.saves)

	_, err := f.svc.BorrowBook("S1", "eman")
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.saves)

	require.NoError(t, f.svc.ReturnBook("S1", "eman"))
	assert.Equal(t, 3, f.store.saves)
}

func TestSaveFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.store.saveFn = func(cat *model.Catalog) error { return errors.New("disk full") }

	f.svc.AddBook("P", "Q", "S2", 1)
	res, err := f.svc.BorrowBook("S2", "eman")
	require.NoError(t, err)
	require.NotNil(t, res)

	// in-memory state moved on despite the failed write
	assert.Equal(t, 0, f.cat.BookStock.Count("S2"))
	assert.False(t, f.cat.Books[0].Available)
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.mail.fail = true

	f.svc.AddBook("N", "M", "S3", 1)
	_, err := f.svc.BorrowBook("S3", "eman")
	require.NoError(t, err)
	assert.False(t, f.cat.Books[0].Available)
}

func TestLoanStateInvariant(t *testing.T) {
	f := newFixture(t)
	f.svc.AddBook("Inv", "Auth", "I1", 1)
	f.svc.AddCD("Inv", "Artist", "I2", 1)

	check := func() {
		for _, m := range f.cat.All() {
			if m.Available {
				assert.Nil(t, m.DueDate)
				assert.Empty(t, m.BorrowedBy)
			} else {
				assert.NotNil(t, m.DueDate)
				assert.NotEmpty(t, m.BorrowedBy)
			}
		}
	}

	check()
	_, err := f.svc.BorrowBook("I1", "eman")
	require.NoError(t, err)
	check()
	_, err = f.svc.BorrowCD("I2", "eman")
	require.NoError(t, err)
	check()
	require.NoError(t, f.svc.ReturnBook("I1", "eman"))
	check()
	require.NoError(t, f.svc.ReturnCD("I2", "eman"))
	check()
}
