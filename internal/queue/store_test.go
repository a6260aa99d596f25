package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/repository/mocks"
)

func newTestStore(t *testing.T, seed []models.Client, opts Options) (*Store, *mocks.MockClientRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(seed, nil)

	s, err := Load(context.Background(), repo, opts, zap.NewNop())
	require.NoError(t, err)

	// Pin the clock so timestamps are deterministic.
	s.now = func() time.Time { return time.UnixMilli(1_000_000) }

	return s, repo
}

func TestLoad_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))

	s, err := Load(context.Background(), repo, Options{}, zap.NewNop())
	assert.Nil(t, s)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load client list")
}

func TestStore_Add(t *testing.T) {
	tests := []struct {
		name          string
		seed          []models.Client
		req           AddRequest
		expectedError error
		expectedLen   int
	}{
		{
			name:        "success",
			req:         AddRequest{Name: "  Maria Silva  ", Phone: "(11) 98888-7777"},
			expectedLen: 1,
		},
		{
			name:          "phone too short",
			req:           AddRequest{Name: "Ana", Phone: "123"},
			expectedError: ErrPhoneTooShort,
		},
		{
			name: "duplicate phone rejected",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusPending},
			},
			req:           AddRequest{Name: "Bia", Phone: "11988887777"},
			expectedError: ErrDuplicatePhone,
			expectedLen:   1,
		},
		{
			name: "duplicate phone replaced",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusPending},
			},
			req:         AddRequest{Name: "Bia", Phone: "11988887777", ReplaceDuplicate: true},
			expectedLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t, tt.seed, Options{MinPhoneDigits: 8})
			if tt.expectedError == nil {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}

			client, err := s.Add(context.Background(), tt.req)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Len(t, s.List(), tt.expectedLen)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, client.ID)
			assert.Equal(t, models.StatusPending, client.Status)
			assert.Equal(t, int64(1_000_000), client.CreatedAt)
			assert.Nil(t, client.CalledAt)

			list := s.List()
			require.Len(t, list, tt.expectedLen)
			// Newest record sits at the front.
			assert.Equal(t, client.ID, list[0].ID)
		})
	}
}

func TestStore_Add_NormalizesInput(t *testing.T) {
	s, repo := newTestStore(t, nil, Options{MinPhoneDigits: 8})
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	client, err := s.Add(context.Background(), AddRequest{Name: "  Carlos  ", Phone: "+55 (11) 9777-6655"})
	require.NoError(t, err)

	assert.Equal(t, "Carlos", client.Name)
	assert.Equal(t, "551197776655", client.Phone)
}

func TestStore_Add_PersistFailure(t *testing.T) {
	s, repo := newTestStore(t, nil, Options{MinPhoneDigits: 8})
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))

	_, err := s.Add(context.Background(), AddRequest{Name: "Ana", Phone: "11988887777"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist client list")
}

func TestStore_MarkCalled(t *testing.T) {
	calledAt := int64(500)

	tests := []struct {
		name        string
		seed        []models.Client
		id          string
		expectSave  bool
		expectState models.Status
	}{
		{
			name: "pending becomes called",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusPending},
			},
			id:          "a",
			expectSave:  true,
			expectState: models.StatusCalled,
		},
		{
			name: "already called is a no-op",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusCalled, CalledAt: &calledAt},
			},
			id:          "a",
			expectState: models.StatusCalled,
		},
		{
			name: "unknown id is a no-op",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusPending},
			},
			id:          "missing",
			expectState: models.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t, tt.seed, Options{})
			if tt.expectSave {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}

			err := s.MarkCalled(context.Background(), tt.id)
			require.NoError(t, err)

			got, ok := s.Get("a")
			require.True(t, ok)
			assert.Equal(t, tt.expectState, got.Status)
			if tt.expectSave {
				require.NotNil(t, got.CalledAt)
				assert.Equal(t, int64(1_000_000), *got.CalledAt)
			}
		})
	}
}

func TestStore_MarkCalled_PreservesCalledAt(t *testing.T) {
	original := int64(42)
	s, _ := newTestStore(t, []models.Client{
		{ID: "a", Name: "Ana", Phone: "11988887777", Status: models.StatusCalled, CalledAt: &original},
	}, Options{})

	err := s.MarkCalled(context.Background(), "a")
	require.NoError(t, err)

	got, ok := s.Get("a")
	require.True(t, ok)
	require.NotNil(t, got.CalledAt)
	assert.Equal(t, original, *got.CalledAt)
}

func TestStore_Remove(t *testing.T) {
	calledAt := int64(500)

	tests := []struct {
		name          string
		seed          []models.Client
		opts          Options
		id            string
		expectedError error
		expectedLen   int
	}{
		{
			name: "pending record removed",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			opts:        Options{RequireIboForDelete: true},
			id:          "a",
			expectedLen: 0,
		},
		{
			name: "called without ibo blocked",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusCalled, CalledAt: &calledAt},
			},
			opts:          Options{RequireIboForDelete: true},
			id:            "a",
			expectedError: ErrIboNotUpdated,
			expectedLen:   1,
		},
		{
			name: "called with ibo removed",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusCalled, CalledAt: &calledAt, IboUpdated: true},
			},
			opts:        Options{RequireIboForDelete: true},
			id:          "a",
			expectedLen: 0,
		},
		{
			name: "gate disabled removes called without ibo",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusCalled, CalledAt: &calledAt},
			},
			opts:        Options{RequireIboForDelete: false},
			id:          "a",
			expectedLen: 0,
		},
		{
			name: "unknown id is a no-op",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			opts:        Options{RequireIboForDelete: true},
			id:          "missing",
			expectedLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t, tt.seed, tt.opts)
			if tt.expectedError == nil && tt.expectedLen != len(tt.seed) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}

			err := s.Remove(context.Background(), tt.id)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, s.List(), tt.expectedLen)
		})
	}
}

func TestStore_SetIboUpdated(t *testing.T) {
	calledAt := int64(500)
	s, repo := newTestStore(t, []models.Client{
		{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusCalled, CalledAt: &calledAt},
	}, Options{RequireIboForDelete: true})

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	err := s.SetIboUpdated(context.Background(), "a", true)
	require.NoError(t, err)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.True(t, got.IboUpdated)

	// The flag unlocks deletion.
	err = s.Remove(context.Background(), "a")
	assert.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestStore_SetIboUpdated_UnknownID(t *testing.T) {
	s, _ := newTestStore(t, nil, Options{})

	err := s.SetIboUpdated(context.Background(), "missing", true)
	assert.NoError(t, err)
}

func TestStore_ImportMerge(t *testing.T) {
	tests := []struct {
		name             string
		seed             []models.Client
		records          []models.Client
		expectSave       bool
		expectedInserted int
		expectedTotal    int
	}{
		{
			name: "new records appended",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			records: []models.Client{
				{ID: "b", Name: "Bia", Phone: "2", Status: models.StatusPending},
				{ID: "c", Name: "Caio", Phone: "3", Status: models.StatusCalled},
			},
			expectSave:       true,
			expectedInserted: 2,
			expectedTotal:    3,
		},
		{
			name: "existing ids skipped",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			records: []models.Client{
				{ID: "a", Name: "Ana v2", Phone: "1", Status: models.StatusCalled},
				{ID: "b", Name: "Bia", Phone: "2", Status: models.StatusPending},
			},
			expectSave:       true,
			expectedInserted: 1,
			expectedTotal:    2,
		},
		{
			name: "all duplicates skip the write",
			seed: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			records: []models.Client{
				{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
			},
			expectedInserted: 0,
			expectedTotal:    1,
		},
		{
			name: "duplicate ids within the batch collapse",
			records: []models.Client{
				{ID: "x", Name: "Xuxa", Phone: "9", Status: models.StatusPending},
				{ID: "x", Name: "Xuxa again", Phone: "9", Status: models.StatusPending},
			},
			expectSave:       true,
			expectedInserted: 1,
			expectedTotal:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t, tt.seed, Options{})
			if tt.expectSave {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}

			inserted, err := s.ImportMerge(context.Background(), tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedInserted, inserted)
			assert.Len(t, s.List(), tt.expectedTotal)
		})
	}
}

func TestStore_ExistingRecordSurvivesImport(t *testing.T) {
	s, repo := newTestStore(t, []models.Client{
		{ID: "a", Name: "Ana", Phone: "1", Status: models.StatusPending},
	}, Options{})
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.ImportMerge(context.Background(), []models.Client{
		{ID: "a", Name: "Overwritten", Phone: "999", Status: models.StatusCalled},
		{ID: "b", Name: "Bia", Phone: "2", Status: models.StatusPending},
	})
	require.NoError(t, err)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestStore_Counts(t *testing.T) {
	calledAt := int64(500)
	s, _ := newTestStore(t, []models.Client{
		{ID: "a", Status: models.StatusPending},
		{ID: "b", Status: models.StatusPending},
		{ID: "c", Status: models.StatusCalled, CalledAt: &calledAt},
	}, Options{})

	pending, called := s.Counts()
	assert.Equal(t, 2, pending)
	assert.Equal(t, 1, called)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, []models.Client{
		{ID: "a", Name: "Ana", Status: models.StatusPending},
	}, Options{})

	list := s.List()
	list[0].Name = "mutated"

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)
}
