package mocks

import (
	"github.com/taskwell/taskwell-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier and
// auth.PasswordHasher without the cost of real bcrypt rounds. The zero value
// accepts every password and hashes by prefixing.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
	HashFn    func(password string) (string, error)
}

var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordHasher   = (*MockPasswordVerifier)(nil)
)

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}

func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}
