package git

import (
	"github.com/stretchr/testify/mock"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(dir string, args ...string) (string, error) {
	call := m.Called(append([]interface{}{dir}, toInterfaces(args)...)...)
	return call.String(0), call.Error(1)
}

func toInterfaces(args []string) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
