package lookup

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// MockProvider mock for tests
type MockProvider struct {
	mock.Mock
	name string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Query(ctx context.Context, number values.CanonicalNumber) identity.ProviderResult {
	args := m.Called(ctx, number)
	return args.Get(0).(identity.ProviderResult)
}

// MockDirectory mock for tests
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) LookupCanonical(number values.CanonicalNumber) (identity.ContactEntry, bool) {
	args := m.Called(number)
	return args.Get(0).(identity.ContactEntry), args.Bool(1)
}

// MockMetrics mock for tests
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordOutcome(kind identity.OutcomeKind) {
	m.Called(kind)
}

func (m *MockMetrics) RecordProviderQuery(provider string, status identity.ResultStatus, duration time.Duration) {
	m.Called(provider, status, duration)
}
