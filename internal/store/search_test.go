package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeElasticsearch(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]esRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []esRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, esRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, &requests
}

func TestSupplierIndex_Index(t *testing.T) {
	client, requests := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := NewSupplierIndex(client, "suppliers", logger.NewTestLogger(t))

	err := idx.Index(context.Background(), Record{
		ID:       "s1",
		Resource: models.ResourceSuppliers,
		Data:     map[string]interface{}{"name": "Etosha Lodge", "location": "Okaukuejo"},
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/suppliers/_doc/s1", req.Path)

	var doc models.Supplier
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Etosha Lodge", doc.Name)
	assert.Equal(t, "Okaukuejo", doc.Location)
}

func TestSupplierIndex_RemoveMissingIsNotAnError(t *testing.T) {
	client, requests := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	idx := NewSupplierIndex(client, "suppliers", logger.NewTestLogger(t))

	require.NoError(t, idx.Remove(context.Background(), "gone"))
	assert.Equal(t, http.MethodDelete, (*requests)[0].Method)
}

func TestSupplierIndex_Search(t *testing.T) {
	client, requests := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 1},
				"max_score": 2.5,
				"hits": [{"_id": "s1", "_source": {"name": "Etosha Lodge", "location": "Okaukuejo"}}]
			}
		}`))
	})
	idx := NewSupplierIndex(client, "suppliers", logger.NewTestLogger(t))

	result, err := idx.Search(context.Background(), "etosha", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalHits)
	assert.Equal(t, 2.5, result.MaxScore)
	require.Len(t, result.Suppliers, 1)
	assert.Equal(t, "s1", result.Suppliers[0].ID)

	req := (*requests)[0]
	assert.Equal(t, "/suppliers/_search", req.Path)
	assert.True(t, strings.Contains(req.Body, `"multi_match"`))
	assert.True(t, strings.Contains(req.Body, `"etosha"`))
}

func TestSupplierIndex_SearchFailure(t *testing.T) {
	client, _ := newFakeElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	idx := NewSupplierIndex(client, "suppliers", logger.NewTestLogger(t))

	_, err := idx.Search(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestBuildSupplierQuery(t *testing.T) {
	all := buildSupplierQuery("  ")
	assert.Contains(t, all["query"], "match_all")

	q := buildSupplierQuery("camp")
	mm := q["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "camp", mm["query"])
	assert.Equal(t, models.SupplierSearchFields, mm["fields"])
}

func TestSupplierMapping(t *testing.T) {
	var body struct {
		Mappings struct {
			Properties map[string]struct {
				Type   string                            `json:"type"`
				Fields map[string]map[string]interface{} `json:"fields"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(SupplierMapping, &body))

	props := body.Mappings.Properties
	for _, field := range models.SupplierSearchFields {
		name := strings.SplitN(field, "^", 2)[0]
		require.Contains(t, props, name)
		assert.Equal(t, "text", props[name].Type, name)
	}
	assert.Equal(t, "keyword", props["name"].Fields["keyword"]["type"])
}
