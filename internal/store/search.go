package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SupplierMapping is the index body for suppliers: searchable text fields,
// a keyword copy of the name for sorting and contact details stored as
// keywords.
var SupplierMapping = []byte(`{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "name":          {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "type":          {"type": "text"},
      "contactPerson": {"type": "text"},
      "email":         {"type": "keyword"},
      "phone":         {"type": "keyword"},
      "address":       {"type": "text"},
      "location":      {"type": "text"},
      "country":       {"type": "text"},
      "notes":         {"type": "text"},
      "createdAt":     {"type": "keyword"},
      "updatedAt":     {"type": "keyword"}
    }
  }
}`)

// Indexer mirrors records into a search backend.
type Indexer interface {
	Index(ctx context.Context, rec Record) error
	Remove(ctx context.Context, id string) error
}

// SupplierIndex keeps suppliers searchable in Elasticsearch.
type SupplierIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSupplierIndex(client *elasticsearch.Client, index string, log logger.Logger) *SupplierIndex {
	return &SupplierIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "supplier-index", "index": index}),
	}
}

func (s *SupplierIndex) Index(ctx context.Context, rec Record) error {
	var supplier models.Supplier
	if err := rec.Decode(&supplier); err != nil {
		return err
	}
	body, err := json.Marshal(supplier)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("index supplier %s: %s", rec.ID, res.Status()))
	}
	return nil
}

func (s *SupplierIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: id,
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("delete supplier %s: %s", id, res.Status()))
	}
	return nil
}

// SearchResult is one page of supplier hits.
type SearchResult struct {
	Suppliers []models.Supplier `json:"suppliers"`
	TotalHits int64             `json:"totalHits"`
	MaxScore  float64           `json:"maxScore"`
}

// Search matches q against the supplier text fields. An empty q lists all.
func (s *SupplierIndex) Search(ctx context.Context, q string, size int) (*SearchResult, error) {
	if size < 1 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	body, err := json.Marshal(buildSupplierQuery(q))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search failed: %s", res.Status()))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				ID     string          `json:"_id"`
				Source models.Supplier `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	out := &SearchResult{
		Suppliers: make([]models.Supplier, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		supplier := hit.Source
		supplier.ID = hit.ID
		out.Suppliers = append(out.Suppliers, supplier)
	}

	s.logger.Debug("supplier search", map[string]interface{}{
		"query": q,
		"hits":  out.TotalHits,
	})
	return out, nil
}

func buildSupplierQuery(q string) map[string]interface{} {
	q = strings.TrimSpace(q)
	if q == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"name.keyword": map[string]interface{}{"order": "asc", "unmapped_type": "keyword"}}},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q,
				"fields":    models.SupplierSearchFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
}
