// app/console/menu.go
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/project-eman-Farah/dev-library/service/auth"
	"github.com/project-eman-Farah/dev-library/service/fine"
	"github.com/project-eman-Farah/dev-library/service/lending"
	"github.com/project-eman-Farah/dev-library/service/reminder"
	"github.com/project-eman-Farah/dev-library/service/user"
)

// Menu drives the interactive admin console. Input and output are injected
// so tests can script a full session.
type Menu struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool

	auth     auth.Service
	lending  lending.Service
	fines    *fine.Ledger
	users    *user.Manager
	reminder *reminder.Service
	forms    *Forms
	log      zerolog.Logger
}

func NewMenu(
	in io.Reader,
	out io.Writer,
	authSvc auth.Service,
	lendSvc lending.Service,
	fines *fine.Ledger,
	users *user.Manager,
	rem *reminder.Service,
	log zerolog.Logger,
) *Menu {
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		auth:     authSvc,
		lending:  lendSvc,
		fines:    fines,
		users:    users,
		reminder: rem,
		forms:    NewForms(),
		log:      log,
	}
}

func (m *Menu) Run() {
	for {
		fmt.Fprintln(m.out, "\n===== Library System =====")
		fmt.Fprintln(m.out, "1. Admin Login")
		fmt.Fprintln(m.out, "2. Exit")
		fmt.Fprint(m.out, "Choose option: ")

		choice := m.read()
		if m.eof {
			fmt.Fprintln(m.out, "System exiting.")
			return
		}

		switch choice {
		case "1":
			if m.loginLoop() {
				m.adminLoop()
			}
		case "2":
			fmt.Fprintln(m.out, "System exiting.")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
		}
	}
}

func (m *Menu) loginLoop() bool {
	for !m.auth.IsLoggedIn() {
		fmt.Fprint(m.out, "Enter username: ")
		username := m.read()
		fmt.Fprint(m.out, "Enter password: ")
		password := m.read()
		if m.eof {
			return false
		}

		if err := m.auth.Login(username, password); err != nil {
			fmt.Fprintln(m.out, "Invalid credentials.")
			continue
		}
		m.users.Register(username)
		fmt.Fprintln(m.out, "Login successful.")
	}
	return true
}

func (m *Menu) adminLoop() {
	for m.auth.IsLoggedIn() {
		currentUser := m.auth.CurrentUser()

		fmt.Fprintln(m.out, "\n----- Admin Menu -----")
		fmt.Fprintln(m.out, "1. Add Book")
		fmt.Fprintln(m.out, "2. View Books")
		fmt.Fprintln(m.out, "3. Search Book")
		fmt.Fprintln(m.out, "4. Borrow Book")
		fmt.Fprintln(m.out, "5. Return Book")
		fmt.Fprintln(m.out, "6. Add CD")
		fmt.Fprintln(m.out, "7. View CDs")
		fmt.Fprintln(m.out, "8. Borrow CD")
		fmt.Fprintln(m.out, "9. Return CD")
		fmt.Fprintln(m.out, "10. Check Overdue")
		fmt.Fprintln(m.out, "11. Check Lost Items")
		fmt.Fprintln(m.out, "12. Pay Fine")
		fmt.Fprintln(m.out, "13. Unregister User")
		fmt.Fprintln(m.out, "14. Logout")
		fmt.Fprint(m.out, "Choose: ")

		choice := m.read()
		if m.eof {
			m.auth.Logout()
			return
		}

		switch choice {
		case "1":
			m.addBook()
		case "2":
			m.showBooks()
		case "3":
			fmt.Fprint(m.out, "Keyword: ")
			m.searchBooks(m.read())
		case "4":
			fmt.Fprint(m.out, "Enter ISBN: ")
			m.borrowBook(m.read(), currentUser)
		case "5":
			fmt.Fprint(m.out, "Enter ISBN: ")
			m.returnItem(m.lending.ReturnBook, m.read(), currentUser, "Book", "book")
		case "6":
			m.addCD()
		case "7":
			m.showCDs()
		case "8":
			fmt.Fprint(m.out, "Enter CD ID: ")
			m.borrowCD(m.read(), currentUser)
		case "9":
			fmt.Fprint(m.out, "Enter CD ID: ")
			m.returnItem(m.lending.ReturnCD, m.read(), currentUser, "CD", "CD")
		case "10":
			count := m.lending.CheckOverdue(currentUser)
			fmt.Fprintf(m.out, "Overdue items: %d\n", count)
			if count > 0 {
				m.reminder.SendOverdueReminder(currentUser, count)
			}
		case "11":
			count := m.lending.CheckLost(currentUser)
			fmt.Fprintf(m.out, "Lost items: %d\n", count)
		case "12":
			m.payFine(currentUser)
		case "13":
			fmt.Fprint(m.out, "Enter username to remove: ")
			if m.users.Unregister(m.read(), m.lending, m.fines) {
				fmt.Fprintln(m.out, "✔ User removed.")
			} else {
				fmt.Fprintln(m.out, "❌ Cannot remove user.")
			}
		case "14":
			m.auth.Logout()
		default:
			fmt.Fprintln(m.out, "Invalid.")
		}
	}
}

func (m *Menu) addBook() {
	form := AddBookForm{}
	fmt.Fprint(m.out, "Enter title: ")
	form.Title = m.read()
	fmt.Fprint(m.out, "Enter author: ")
	form.Author = m.read()
	fmt.Fprint(m.out, "Enter ISBN: ")
	form.ISBN = m.read()
	fmt.Fprint(m.out, "Enter copies: ")
	form.Copies = m.readCopies()

	if err := m.forms.Validate(form); err != nil {
		fmt.Fprintln(m.out, "❌ Invalid input: title, author and ISBN are required, copies must be at least 1.")
		return
	}

	m.lending.AddBook(form.Title, form.Author, form.ISBN, form.Copies)
	fmt.Fprintln(m.out, "✔ Book added.")
}

func (m *Menu) addCD() {
	form := AddCDForm{}
	fmt.Fprint(m.out, "Enter CD title: ")
	form.Title = m.read()
	fmt.Fprint(m.out, "Enter CD artist: ")
	form.Artist = m.read()
	fmt.Fprint(m.out, "Enter CD ID: ")
	form.ID = m.read()
	fmt.Fprint(m.out, "Enter copies: ")
	form.Copies = m.readCopies()

	if err := m.forms.Validate(form); err != nil {
		fmt.Fprintln(m.out, "❌ Invalid input: title, artist and ID are required, copies must be at least 1.")
		return
	}

	m.lending.AddCD(form.Title, form.Artist, form.ID, form.Copies)
	fmt.Fprintln(m.out, "✔ CD added.")
}

func (m *Menu) showBooks() {
	fmt.Fprintln(m.out, "=== BOOKS ===")
	for _, l := range m.lending.Books() {
		fmt.Fprintf(m.out, "%s | Copies: %d\n", l.Item, l.Copies)
	}
}

func (m *Menu) showCDs() {
	fmt.Fprintln(m.out, "=== CDs ===")
	for _, l := range m.lending.CDs() {
		fmt.Fprintf(m.out, "%s | Copies: %d\n", l.Item, l.Copies)
	}
}

func (m *Menu) searchBooks(keyword string) {
	found := m.lending.SearchBooks(keyword)
	if len(found) == 0 {
		fmt.Fprintln(m.out, "❌ No books found.")
		return
	}
	for _, b := range found {
		fmt.Fprintf(m.out, "✔ Found: %s\n", b)
	}
}

func (m *Menu) borrowBook(isbn, user string) {
	res, err := m.lending.BorrowBook(isbn, user)
	if err != nil {
		m.reportBorrowErr(err, "Book")
		return
	}
	fmt.Fprintf(m.out, "✔ Book borrowed: %s (due %s, %s)\n",
		res.Title, res.Due.Format("2006-01-02"), humanize.Time(res.Due))
}

func (m *Menu) borrowCD(id, user string) {
	res, err := m.lending.BorrowCD(id, user)
	if err != nil {
		m.reportBorrowErr(err, "CD")
		return
	}
	fmt.Fprintf(m.out, "✔ CD borrowed: %s (due %s, %s)\n",
		res.Title, res.Due.Format("2006-01-02"), humanize.Time(res.Due))
}

func (m *Menu) reportBorrowErr(err error, noun string) {
	switch lending.Code(err) {
	case lending.ErrBorrowBlocked:
		fmt.Fprintln(m.out, "❌ Borrow blocked: unpaid fines or an unresolved lost item.")
	case lending.ErrOutOfStock:
		fmt.Fprintln(m.out, "❌ No copies left.")
	case lending.ErrNotFound:
		fmt.Fprintf(m.out, "❌ %s not found.\n", noun)
	default:
		fmt.Fprintln(m.out, "❌ "+err.Error())
	}
}

func (m *Menu) returnItem(ret func(id, user string) error, id, user, subjectNoun, bodyNoun string) {
	if err := ret(id, user); err != nil {
		fmt.Fprintf(m.out, "❌ You did not borrow this %s.\n", bodyNoun)
		return
	}
	fmt.Fprintf(m.out, "✔ %s returned.\n", subjectNoun)
}

func (m *Menu) payFine(user string) {
	current := m.fines.Amount(user)
	fmt.Fprintf(m.out, "Current fine: %s NIS\n", humanize.Comma(int64(current)))
	if current == 0 {
		return
	}

	fmt.Fprint(m.out, "Enter amount: ")
	amount, err := strconv.Atoi(m.read())
	if err != nil {
		fmt.Fprintln(m.out, "Invalid amount.")
		return
	}
	m.fines.Pay(user, amount)
	fmt.Fprintf(m.out, "Remaining fine: %s NIS\n", humanize.Comma(int64(m.fines.Amount(user))))
}

func (m *Menu) readCopies() int {
	n, err := strconv.Atoi(m.read())
	if err != nil {
		// blank or junk falls back to a single copy, like the add overloads
		return 1
	}
	return n
}

func (m *Menu) read() string {
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}
