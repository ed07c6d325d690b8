package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kbukum/personrest/rest"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) URL(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockTransport) Get(ctx context.Context, url string, out any, vars map[string]any) error {
	return m.Called(ctx, url, out, vars).Error(0)
}

func (m *MockTransport) Post(ctx context.Context, url string, body, out any, vars map[string]any) error {
	return m.Called(ctx, url, body, out, vars).Error(0)
}

func (m *MockTransport) Exchange(ctx context.Context, method, url string, body, out any, vars map[string]any) (*rest.Entity, error) {
	args := m.Called(ctx, method, url, body, out, vars)
	if e := args.Get(0); e != nil {
		return e.(*rest.Entity), args.Error(1)
	}
	return nil, args.Error(1)
}
