// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockBulletinSource mocks the BulletinSource interface
type MockBulletinSource struct {
	mock.Mock
}

func (m *MockBulletinSource) FetchBulletin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockExchangeListRepository mocks the ExchangeListRepository interface
type MockExchangeListRepository struct {
	mock.Mock
}

func (m *MockExchangeListRepository) Latest(ctx context.Context) (*entity.ExchangeList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExchangeList), args.Error(1)
}

func (m *MockExchangeListRepository) Store(ctx context.Context, list *entity.ExchangeList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}
