package reminder

import "fmt"

type Mailer interface {
	Send(to, subject, body string) bool
}

// Service mails the overdue summary produced by a CheckOverdue sweep.
type Service struct {
	mail Mailer
}

func New(mail Mailer) *Service {
	return &Service{mail: mail}
}

// SendOverdueReminder is a no-op when there is nothing overdue.
func (s *Service) SendOverdueReminder(email string, count int) {
	if count <= 0 {
		return
	}
	s.mail.Send(email, "Overdue Reminder", fmt.Sprintf("You have %d overdue book(s).", count))
}
