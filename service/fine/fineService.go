package fine

import "github.com/rs/zerolog"

// Ledger tracks the accumulated fine balance per borrower. Balances never go
// negative: payments clamp at zero and negative amounts are ignored.
type Ledger struct {
	balances map[string]int
	log      zerolog.Logger
}

func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{balances: map[string]int{}, log: log}
}

// Add charges a fine. Negative amounts are ignored.
func (l *Ledger) Add(user string, amount int) {
	if amount < 0 {
		return
	}
	l.balances[user] += amount
	l.log.Info().Str("user", user).Int("amount", amount).Int("balance", l.balances[user]).Msg("fine added")
}

// Pay reduces the balance, clamping at zero. Negative amounts are ignored.
func (l *Ledger) Pay(user string, amount int) {
	if amount < 0 {
		return
	}
	current := l.balances[user] - amount
	if current < 0 {
		current = 0
	}
	l.balances[user] = current
	l.log.Info().Str("user", user).Int("amount", amount).Int("balance", current).Msg("fine paid")
}

func (l *Ledger) Amount(user string) int {
	return l.balances[user]
}

func (l *Ledger) HasOutstanding(user string) bool {
	return l.Amount(user) > 0
}
