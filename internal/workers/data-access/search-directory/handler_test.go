package searchdirectory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
	"edudesk/internal/models"
	"edudesk/internal/repository"
)

// ==========================
// Test Helper Functions
// ==========================

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q repository.DirectoryQuery) (*repository.DirectoryResult, error) {
	args := m.Called(ctx, q)
	if res := args.Get(0); res != nil {
		return res.(*repository.DirectoryResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, MaxPageSize: 50}
}

func createTestHandler(t *testing.T, s Searcher) *Handler {
	return NewHandler(createTestConfig(), s, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Paging(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		query repository.DirectoryQuery
		page  int
		size  int
	}{
		{
			name:  "defaults",
			input: &Input{SchoolID: "school-1", Name: "ada"},
			query: repository.DirectoryQuery{SchoolID: "school-1", Name: "ada", From: 0, Size: 20},
			page:  1,
			size:  20,
		},
		{
			name:  "third page",
			input: &Input{SchoolID: "school-1", Role: "teacher", Page: 3, PageSize: 10},
			query: repository.DirectoryQuery{SchoolID: "school-1", Role: models.RoleTeacher, From: 20, Size: 10},
			page:  3,
			size:  10,
		},
		{
			name:  "page size capped",
			input: &Input{SchoolID: "school-1", PageSize: 500},
			query: repository.DirectoryQuery{SchoolID: "school-1", From: 0, Size: 50},
			page:  1,
			size:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := new(MockSearcher)
			hits := []repository.DirectoryHit{{DirectoryEntry: repository.DirectoryEntry{ID: "s-1", Name: "Ada"}, Score: 1.2}}
			s.On("Search", mock.Anything, tt.query).Return(&repository.DirectoryResult{Total: 41, Hits: hits}, nil)

			output, err := createTestHandler(t, s).Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, 41, output.Total)
			assert.Equal(t, tt.page, output.Page)
			assert.Equal(t, tt.size, output.PageSize)
			assert.Equal(t, hits, output.Results)
			s.AssertExpectations(t)
		})
	}
}

// ==========================
// Failure Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	s := new(MockSearcher)
	h := createTestHandler(t, s)

	_, err := h.Execute(context.Background(), &Input{Name: "ada"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = h.Execute(context.Background(), &Input{SchoolID: "school-1", Role: "janitor"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = h.Execute(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestHandler_Execute_MissingIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	h := createTestHandler(t, repository.NewDirectoryIndex(client, "edudesk-directory"))

	output, err := h.Execute(context.Background(), &Input{SchoolID: "school-1", Name: "ada"})

	assert.Nil(t, output)
	assert.Equal(t, apperrors.ErrCodeIndexNotFound, apperrors.CodeOf(err))
}
