// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-backoffice/internal/api"
	"tour-backoffice/internal/common/config"
	"tour-backoffice/internal/common/database"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/documents"
	"tour-backoffice/internal/spreadsheet"
	"tour-backoffice/internal/store"
)

// The suite needs Postgres, Redis and Elasticsearch on localhost. Set
// BACKOFFICE_E2E=1 to run it.
func TestMain(m *testing.M) {
	if os.Getenv("BACKOFFICE_E2E") == "" {
		fmt.Println("skipping e2e suite: BACKOFFICE_E2E is not set")
		os.Exit(0)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type env struct {
	server *httptest.Server
	client *http.Client
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	cfg.Database.Elasticsearch.SupplierIdx = fmt.Sprintf("suppliers-e2e-%d", time.Now().UnixNano())

	e := setup(t, cfg)

	t.Run("suppliers", func(t *testing.T) { testSuppliers(t, e) })
	t.Run("templates", func(t *testing.T) { testTemplates(t, e) })
	t.Run("overnight lists", func(t *testing.T) { testOvernightList(t, e) })
	t.Run("quote schedule", func(t *testing.T) { testQuoteSchedule(t, e) })
}

// ==========================
// Setup
// ==========================

func setup(t *testing.T, cfg *config.Config) *env {
	t.Helper()
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	t.Cleanup(func() { _ = pg.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { _ = rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")
	created, err := es.EnsureIndex(ctx, cfg.Database.Elasticsearch.SupplierIdx, store.SupplierMapping)
	require.NoError(t, err)
	require.True(t, created, "supplier index should be new")

	pgRepo := store.NewPostgresRepository(pg, log)
	require.NoError(t, pgRepo.EnsureSchema(ctx))

	repo := store.NewCachedRepository(pgRepo, rdb, time.Minute, log)
	index := store.NewSupplierIndex(es.Client, cfg.Database.Elasticsearch.SupplierIdx, log)
	records := store.NewService(repo, log, append(api.WriteHooks(), store.WithIndexer(index))...)

	router := api.NewRouter(api.Options{
		Records:     records,
		Search:      index,
		Logger:      log,
		Server:      cfg.Server,
		Documents:   cfg.Documents,
		Spreadsheet: cfg.Spreadsheet,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{server: srv, client: srv.Client()}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	contentType := "application/json"
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
		contentType = "application/octet-stream"
	} else if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (e *env) create(t *testing.T, resource string, body interface{}) map[string]interface{} {
	t.Helper()
	status, out := e.do(t, http.MethodPost, "/api/"+resource, body)
	require.Equal(t, http.StatusCreated, status, string(out))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	id := rec["id"].(string)
	t.Cleanup(func() { e.do(t, http.MethodDelete, "/api/"+resource+"/"+id, nil) })
	return rec
}

// ==========================
// Flows
// ==========================

func testSuppliers(t *testing.T, e *env) {
	rec := e.create(t, "suppliers", map[string]interface{}{
		"name":     "Okaukuejo Resort",
		"type":     "lodge",
		"location": "Etosha",
		"email":    "res@okaukuejo.example.com",
	})
	id := rec["id"].(string)

	// second read is served from redis
	for i := 0; i < 2; i++ {
		status, out := e.do(t, http.MethodGet, "/api/suppliers/"+id, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(out), "Okaukuejo Resort")
	}

	status, out := e.do(t, http.MethodPatch, "/api/suppliers/"+id, map[string]interface{}{"phone": "+264 67 229 800"})
	require.Equal(t, http.StatusOK, status, string(out))

	status, out = e.do(t, http.MethodGet, "/api/suppliers/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(out), "+264 67 229 800")

	status, out = e.do(t, http.MethodGet, "/api/suppliers/search?q=okaukuejo", nil)
	require.Equal(t, http.StatusOK, status, string(out))
	var result store.SearchResult
	require.NoError(t, json.Unmarshal(out, &result))
	require.NotEmpty(t, result.Suppliers)
	assert.Equal(t, "Okaukuejo Resort", result.Suppliers[0].Name)
}

func testTemplates(t *testing.T, e *env) {
	rec := e.create(t, "templates", map[string]interface{}{
		"name":    "Release",
		"type":    "release",
		"subject": "Release of {{reference}}",
		"body":    "Please release the rooms held for {{reference}}.",
	})

	status, out := e.do(t, http.MethodPost, "/api/templates/"+rec["id"].(string)+"/render", map[string]interface{}{
		"context": map[string]string{"reference": "BK-900"},
	})
	require.Equal(t, http.StatusOK, status, string(out))
	assert.JSONEq(t, `{"subject":"Release of BK-900","body":"Please release the rooms held for BK-900."}`, string(out))

	status, _ = e.do(t, http.MethodPost, "/api/templates/"+rec["id"].(string)+"/send", map[string]interface{}{"to": "a@b.example.com"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func testOvernightList(t *testing.T, e *env) {
	rec := e.create(t, "overnight-lists", documents.OvernightList{
		TourName: "Skeleton Coast",
		TourCode: "SC-9",
		Guide:    "Petrus",
		Entries: []documents.OvernightEntry{
			{Day: 0, Activity: "Windhoek", Breakfast: "0", Lunch: "0", Dinner: "1"},
			{Day: 1, Activity: "Swakopmund", Breakfast: "1", Lunch: "0", Dinner: "1"},
			{Day: 2, Activity: "Mowe Bay", Breakfast: "1", Lunch: "1", Dinner: "1"},
		},
	})
	id := rec["id"].(string)

	status, out := e.do(t, http.MethodDelete, "/api/overnight-lists/"+id+"/entries/0", nil)
	require.Equal(t, http.StatusOK, status, string(out))

	status, out = e.do(t, http.MethodGet, "/api/overnight-lists/"+id+"/document", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(out), "Windhoek")
	assert.Contains(t, string(out), "Nights: 2")
}

func testQuoteSchedule(t *testing.T, e *env) {
	workbook, err := spreadsheet.Render([]spreadsheet.QuoteScheduleRow{
		{QuoteNumber: "E2E-1", ClientName: "Jane Smith", TourType: spreadsheet.TourTypeFIT, Status: spreadsheet.StatusPending, PaxCount: 2, Currency: "NAD"},
	})
	require.NoError(t, err)

	status, out := e.do(t, http.MethodPost, "/api/quote-schedule/import", workbook)
	require.Equal(t, http.StatusCreated, status, string(out))

	var imported struct {
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(out, &imported))
	for _, rec := range imported.Records {
		id := rec["id"].(string)
		t.Cleanup(func() { e.do(t, http.MethodDelete, "/api/quote-schedule/"+id, nil) })
	}

	status, out = e.do(t, http.MethodGet, "/api/quote-schedule/export", nil)
	require.Equal(t, http.StatusOK, status)

	rows, err := spreadsheet.Parse(out)
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		if row.QuoteNumber == "E2E-1" {
			found = true
		}
	}
	assert.True(t, found, "imported row missing from export")
}
