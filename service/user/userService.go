package user

// Loans and Fines are the slices of the other services the registry needs to
// decide whether a user may leave.
type Loans interface {
	HasActiveLoans(user string) bool
}

type Fines interface {
	HasOutstanding(user string) bool
}

// Manager keeps the registry of borrowers seen by the system.
type Manager struct {
	users map[string]struct{}
}

func NewManager() *Manager {
	return &Manager{users: map[string]struct{}{}}
}

func (m *Manager) Register(username string) {
	m.users[username] = struct{}{}
}

func (m *Manager) IsRegistered(username string) bool {
	_, ok := m.users[username]
	return ok
}

// Unregister removes a user unless they still owe fines or hold loans.
func (m *Manager) Unregister(username string, loans Loans, fines Fines) bool {
	if !m.IsRegistered(username) {
		return false
	}
	if fines.HasOutstanding(username) {
		return false
	}
	if loans.HasActiveLoans(username) {
		return false
	}
	delete(m.users, username)
	return true
}
