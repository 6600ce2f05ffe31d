package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.HealthRegistry = (*HealthRegistry)(nil)

// HealthRegistry mocks ports.HealthRegistry.
type HealthRegistry struct {
	mock.Mock
}

// NewHealthRegistry creates a HealthRegistry mock asserted at cleanup.
func NewHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *HealthRegistry {
	m := &HealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *HealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

func (m *HealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*ports.HealthResult)
}
