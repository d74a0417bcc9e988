package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolioapi/internal/model"
	"portfolioapi/internal/repository"
	repoMocks "portfolioapi/internal/repository/mocks"
	"portfolioapi/internal/storage"
	storeMocks "portfolioapi/internal/storage/mocks"
	"portfolioapi/internal/validation"
)

func storageObjectInfo() storage.ObjectInfo {
	return storage.ObjectInfo{Key: "uploads/x.csv", Size: 32}
}

func newTestValidator(t *testing.T) *validation.Validator {
	t.Helper()
	schema, err := validation.ParseSchema("ticker:string:required,shares:number:required,price:number:required")
	require.NoError(t, err)
	return validation.NewValidator(schema, 5)
}

func TestValidateService_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      io.Reader
		filename   string
		archived   bool
		setupMocks func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage)
		wantErr    error
		wantErrMsg string
		wantStatus string
	}{
		{
			name:     "valid upload is persisted",
			input:    strings.NewReader("ticker,shares,price\nAAPL,10,150.0\n"),
			filename: "good.csv",
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Put", ctx, mock.MatchedBy(func(rep *model.ValidationReport) bool {
					return rep.Status == model.StatusValid && len(rep.Issues) == 0
				})).Return(nil)
			},
			wantStatus: model.StatusValid,
		},
		{
			name:     "invalid upload is a normal report, not an error",
			input:    strings.NewReader("ticker,shares,price\nAAPL,ten,150.0\n"),
			filename: "bad.csv",
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Put", ctx, mock.MatchedBy(func(rep *model.ValidationReport) bool {
					return rep.Status == model.StatusInvalid && len(rep.Issues) == 1
				})).Return(nil)
			},
			wantStatus: model.StatusInvalid,
		},
		{
			name:       "nil reader",
			input:      nil,
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {},
			wantErr:    ErrReaderNil,
		},
		{
			name:       "malformed input fails fast without persistence",
			input:      strings.NewReader(""),
			filename:   "empty.csv",
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {},
			wantErr:    validation.ErrMalformedInput,
		},
		{
			name:     "store unavailable surfaces",
			input:    strings.NewReader("ticker,shares,price\nAAPL,10,150.0\n"),
			filename: "good.csv",
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Put", ctx, mock.Anything).Return(repository.ErrUnavailable)
			},
			wantErr: repository.ErrUnavailable,
		},
		{
			name:     "archived upload",
			input:    strings.NewReader("ticker,shares,price\nAAPL,10,150.0\n"),
			filename: "good.csv",
			archived: true,
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, ".csv")
				}), mock.Anything, mock.Anything).Return(storageObjectInfo(), nil)
				mRepo.On("Put", ctx, mock.Anything).Return(nil)
			},
			wantStatus: model.StatusValid,
		},
		{
			name:     "archive failure aborts",
			input:    strings.NewReader("ticker,shares,price\nAAPL,10,150.0\n"),
			filename: "good.csv",
			archived: true,
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storageObjectInfo(), errors.New("minio down"))
			},
			wantErrMsg: "archive upload: minio down",
		},
		{
			name:     "persist failure rolls back the archived object",
			input:    strings.NewReader("ticker,shares,price\nAAPL,10,150.0\n"),
			filename: "good.csv",
			archived: true,
			setupMocks: func(mRepo *repoMocks.MockReportRepository, mStore *storeMocks.MockStorage) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storageObjectInfo(), nil)
				mRepo.On("Put", ctx, mock.Anything).Return(repository.ErrUnavailable)
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "uploads/")
				})).Return(nil)
			},
			wantErr: repository.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockReportRepository)
			mStore := new(storeMocks.MockStorage)
			tt.setupMocks(mRepo, mStore)

			var svc ValidateService
			if tt.archived {
				svc = NewValidateService(newTestValidator(t), mRepo, mStore)
			} else {
				svc = NewValidateService(newTestValidator(t), mRepo, nil)
			}

			report, err := svc.Validate(ctx, tt.input, tt.filename)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, report)
				assert.Equal(t, tt.wantStatus, report.Status)
				assert.Equal(t, tt.filename, report.Filename)
			}

			mRepo.AssertExpectations(t)
			mStore.AssertExpectations(t)
		})
	}
}

func TestValidateService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockReportRepository)
		mRepo.On("Get", ctx, "some-id").Return(&model.ValidationReport{ID: "some-id"}, nil)
		svc := NewValidateService(newTestValidator(t), mRepo, nil)

		rep, err := svc.Get(ctx, "some-id")
		require.NoError(t, err)
		assert.Equal(t, "some-id", rep.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty id maps to not found", func(t *testing.T) {
		svc := NewValidateService(newTestValidator(t), new(repoMocks.MockReportRepository), nil)

		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("not found passes through", func(t *testing.T) {
		mRepo := new(repoMocks.MockReportRepository)
		mRepo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
		svc := NewValidateService(newTestValidator(t), mRepo, nil)

		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestValidateService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockReportRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.ValidationReport]{
				Items: []model.ValidationReport{{ID: "1"}, {ID: "2"}},
				Total: 2,
			}, nil)
		svc := NewValidateService(newTestValidator(t), mRepo, nil)

		res, err := svc.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("zero limit uses default, negative offset clamps", func(t *testing.T) {
		mRepo := new(repoMocks.MockReportRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.ValidationReport]{Items: []model.ValidationReport{}, Total: 0}, nil)
		svc := NewValidateService(newTestValidator(t), mRepo, nil)

		_, err := svc.List(ctx, 0, -1)
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockReportRepository)
		mRepo.On("List", ctx, mock.Anything).Return(nil, repository.ErrUnavailable)
		svc := NewValidateService(newTestValidator(t), mRepo, nil)

		_, err := svc.List(ctx, 10, 0)
		assert.ErrorIs(t, err, repository.ErrUnavailable)
	})
}
