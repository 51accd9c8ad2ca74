package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	to, subject, body string
	calls             int
}

func (r *recorder) Send(to, subject, body string) bool {
	r.to, r.subject, r.body = to, subject, body
	r.calls++
	return true
}

func TestReminderSent(t *testing.T) {
	rec := &recorder{}
	New(rec).SendOverdueReminder("eman", 3)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "eman", rec.to)
	assert.Equal(t, "Overdue Reminder", rec.subject)
	assert.Equal(t, "You have 3 overdue book(s).", rec.body)
}

func TestNoReminderWithoutOverdueItems(t *testing.T) {
	rec := &recorder{}
	svc := New(rec)

	svc.SendOverdueReminder("eman", 0)
	svc.SendOverdueReminder("eman", -2)
	assert.Zero(t, rec.calls)
}
