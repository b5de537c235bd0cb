package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupTestDirectory(t *testing.T, handler http.HandlerFunc) *DirectoryIndex {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return NewDirectoryIndex(client, "edudesk-directory")
}

// ==========================
// Search Tests
// ==========================

func TestDirectoryIndex_Search(t *testing.T) {
	var body map[string]interface{}
	dir := setupTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/edudesk-directory/_search", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 1},
				"hits": [{"_score": 3.2, "_source": {"id": "s-1", "schoolId": "school-1", "name": "Ada Lovelace", "role": "student", "classId": "c-1"}}]
			}
		}`))
	})

	res, err := dir.Search(context.Background(), DirectoryQuery{SchoolID: "school-1", Name: "ada", Role: models.RoleStudent, Size: 5})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "Ada Lovelace", res.Hits[0].Name)
	assert.Equal(t, models.RoleStudent, res.Hits[0].Role)
	assert.Equal(t, 3.2, res.Hits[0].Score)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["must"], 1)
	assert.Len(t, boolQuery["filter"], 2)
}

func TestDirectoryIndex_Search_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
	}{
		{name: "missing index", status: http.StatusNotFound, body: `{"error":{"type":"index_not_found_exception"}}`, code: apperrors.ErrCodeIndexNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, code: apperrors.ErrCodeSearchQueryFailed},
		{name: "garbage body", status: http.StatusOK, body: `not json`, code: apperrors.ErrCodeSearchQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := dir.Search(context.Background(), DirectoryQuery{Name: "x"})

			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestBuildDirectoryQuery_MatchAllWithoutName(t *testing.T) {
	q := buildDirectoryQuery(DirectoryQuery{})
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})

	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
	assert.Empty(t, boolQuery["filter"])
}

// ==========================
// Write Tests
// ==========================

func TestDirectoryIndex_Index(t *testing.T) {
	var got DirectoryEntry
	dir := setupTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/edudesk-directory/_doc/t-9", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := dir.Index(context.Background(), DirectoryEntry{ID: "t-9", SchoolID: "school-1", Name: "Grace Hopper", Role: models.RoleTeacher})

	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.Name)
}

func TestDirectoryIndex_Remove_NotFound(t *testing.T) {
	dir := setupTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	err := dir.Remove(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryIndex_EnsureIndex(t *testing.T) {
	var created bool
	dir := setupTestDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	})

	require.NoError(t, dir.EnsureIndex(context.Background()))
	assert.True(t, created)
}
