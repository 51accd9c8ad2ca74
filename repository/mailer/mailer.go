// Package mailer holds the notification port and its delivery backends.
// Delivery is best effort: Send reports success, but the core never branches
// on it and a failed notification never rolls anything back.
package mailer

import (
	"fmt"
	"io"
	"os"
)

type Service interface {
	Send(to, subject, body string) bool
}

// Console prints notifications instead of delivering them. Default sink for
// local runs and the test environment.
type Console struct {
	Out io.Writer
}

func NewConsole() *Console {
	return &Console{Out: os.Stdout}
}

func (c *Console) Send(to, subject, body string) bool {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, "\n===== EMAIL SENT (Console) =====")
	fmt.Fprintln(out, "To: "+to)
	fmt.Fprintln(out, "Subject: "+subject)
	fmt.Fprintln(out, "Body: "+body)
	fmt.Fprintln(out, "================================")
	return true
}
