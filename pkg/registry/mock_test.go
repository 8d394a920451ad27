package registry_test

import (
	"github.com/stretchr/testify/mock"
)

type mockGit struct {
	mock.Mock
}

func (m *mockGit) Clone(uri, localPath string) error {
	return m.Called(uri, localPath).Error(0)
}

func (m *mockGit) Init(localPath string) error {
	return m.Called(localPath).Error(0)
}
