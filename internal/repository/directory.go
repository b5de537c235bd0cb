package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/models"
)

const defaultDirectorySize = 20

// DirectoryEntry is one searchable person.
type DirectoryEntry struct {
	ID       string      `json:"id"`
	SchoolID string      `json:"schoolId"`
	Name     string      `json:"name"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role"`
	ClassID  string      `json:"classId,omitempty"`
}

type DirectoryQuery struct {
	SchoolID string
	Name     string
	Role     models.Role
	From     int
	Size     int
}

type DirectoryHit struct {
	DirectoryEntry
	Score float64 `json:"score"`
}

type DirectoryResult struct {
	Total int            `json:"total"`
	Hits  []DirectoryHit `json:"hits"`
}

// DirectoryIndex searches students and teachers by name in Elasticsearch.
type DirectoryIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewDirectoryIndex(client *elasticsearch.Client, index string) *DirectoryIndex {
	return &DirectoryIndex{client: client, index: index}
}

var directoryMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":       map[string]string{"type": "keyword"},
			"schoolId": map[string]string{"type": "keyword"},
			"name":     map[string]string{"type": "text"},
			"email":    map[string]string{"type": "keyword"},
			"role":     map[string]string{"type": "keyword"},
			"classId":  map[string]string{"type": "keyword"},
		},
	},
}

// EnsureIndex creates the directory index with its mapping if it does not exist.
func (d *DirectoryIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{d.index}}.Do(ctx, d.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(d.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := json.Marshal(directoryMapping)
	res, err = esapi.IndicesCreateRequest{Index: d.index, Body: bytes.NewReader(body)}.Do(ctx, d.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(d.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(d.index, fmt.Errorf("create index: %s", res.Status()))
	}
	return nil
}

func (d *DirectoryIndex) Index(ctx context.Context, entry DirectoryEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode directory entry: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      d.index,
		DocumentID: entry.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}.Do(ctx, d.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(d.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(d.index, fmt.Errorf("index %s: %s", entry.ID, res.Status()))
	}
	return nil
}

func (d *DirectoryIndex) Remove(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: d.index, DocumentID: id}.Do(ctx, d.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(d.index, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: directory %s", ErrNotFound, id)
	}
	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(d.index, fmt.Errorf("delete %s: %s", id, res.Status()))
	}
	return nil
}

func (d *DirectoryIndex) Search(ctx context.Context, q DirectoryQuery) (*DirectoryResult, error) {
	body, _ := json.Marshal(buildDirectoryQuery(q))

	size := q.Size
	if size <= 0 {
		size = defaultDirectorySize
	}
	from := q.From

	res, err := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}.Do(ctx, d.client)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(d.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(d.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(d.index, fmt.Errorf("search: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64        `json:"_score"`
				Source DirectoryEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(d.index, fmt.Errorf("decode response: %w", err))
	}

	result := &DirectoryResult{Total: parsed.Hits.Total.Value, Hits: []DirectoryHit{}}
	for _, h := range parsed.Hits.Hits {
		result.Hits = append(result.Hits, DirectoryHit{DirectoryEntry: h.Source, Score: h.Score})
	}
	return result, nil
}

func buildDirectoryQuery(q DirectoryQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Name != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"name": map[string]interface{}{
					"query":     q.Name,
					"fuzziness": "AUTO",
					"operator":  "and",
				},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if q.SchoolID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"schoolId": q.SchoolID},
		})
	}
	if q.Role != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"role": string(q.Role)},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}
