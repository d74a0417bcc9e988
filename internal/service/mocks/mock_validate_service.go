package mocks

import (
	"context"
	"io"

	"portfolioapi/internal/model"
	"portfolioapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockValidateService struct {
	mock.Mock
}

func (m *MockValidateService) Validate(ctx context.Context, r io.Reader, filename string) (*model.ValidationReport, error) {
	args := m.Called(ctx, r, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationReport), args.Error(1)
}

func (m *MockValidateService) Get(ctx context.Context, id string) (*model.ValidationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationReport), args.Error(1)
}

func (m *MockValidateService) List(ctx context.Context, limit, offset int) (*service.ReportListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportListResult), args.Error(1)
}
