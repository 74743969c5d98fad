package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sheetclean/app"
	"sheetclean/domain/core"
	"sheetclean/domain/table"
	"sheetclean/internal"
	"sheetclean/internal/errors"
	"sheetclean/internal/profiling"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryRepository struct {
	records []table.TableRecord
}

func (r *memoryRepository) EnsureSchema(ctx context.Context) error { return nil }

func (r *memoryRepository) Save(ctx context.Context, name, sourceSheet string, t *table.CleanTable) (*table.TableRecord, error) {
	record := table.TableRecord{
		ID:          core.ID(fmt.Sprintf("t%d", len(r.records)+1)),
		Name:        name,
		SQLTable:    "clean_" + name,
		SourceSheet: sourceSheet,
		ColumnCount: len(t.Columns),
		RowCount:    t.RowCount(),
		CreatedAt:   time.Now().UTC(),
	}
	r.records = append(r.records, record)
	return &record, nil
}

func (r *memoryRepository) List(ctx context.Context, limit, offset int) ([]table.TableRecord, error) {
	return r.records, nil
}

func (r *memoryRepository) Drop(ctx context.Context, id string) error {
	for i, rec := range r.records {
		if rec.ID.String() == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrTableNotFound, id)
}

func newTestServer(repo *memoryRepository) *Server {
	logger := internal.NewLoggerWithWriter(internal.LogLevelError, io.Discard)
	opts := app.CleanServiceOptions{Logger: logger}
	if repo != nil {
		opts.Repository = repo
	}
	return NewServer(app.NewCleanService(opts), logger)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const ordersBody = `{"columns":[
	{"name":" amount ","values":["1,200","3.5","abc","na"]},
	{"name":"paid","values":["Yes"," no ","YES","N"]},
	{"name":"count","values":[1,2,null,4]}
]}`

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["storage"])
}

func TestNormalize(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/normalize", ordersBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Table struct {
			Columns []struct {
				Name    string        `json:"name"`
				Type    string        `json:"type"`
				Storage string        `json:"storage"`
				Values  []interface{} `json:"values"`
			} `json:"columns"`
		} `json:"table"`
		Reports []map[string]interface{} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Table.Columns, 3)

	amount := resp.Table.Columns[0]
	assert.Equal(t, "amount", amount.Name)
	assert.Equal(t, "numeric", amount.Type)
	assert.Equal(t, []interface{}{1200.0, 3.5, nil, nil}, amount.Values)

	paid := resp.Table.Columns[1]
	assert.Equal(t, "boolean", paid.Type)
	assert.Equal(t, []interface{}{true, false, true, false}, paid.Values)

	count := resp.Table.Columns[2]
	assert.Equal(t, "numeric", count.Type)
	assert.Equal(t, "int64", count.Storage)
	assert.Len(t, resp.Reports, 3)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"columns":`, errors.CodeInvalidInput},
		{"nested cell", `{"columns":[{"name":"a","values":[{"x":1}]}]}`, errors.CodeInvalidInput},
		{"ragged", `{"columns":[{"name":"a","values":[1,2]},{"name":"b","values":[1]}]}`, errors.CodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/normalize", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestProfile(t *testing.T) {
	body := `{"columns":[{"name":"paid","values":["yes","no",null,"yes"]}],"descriptions":{"paid":"Paid in full"}}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/profile", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile profiling.TableProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Len(t, profile.Columns, 1)
	col := profile.Columns[0]
	assert.Equal(t, "Paid in full", col.Description)
	assert.Equal(t, table.TypeBoolean, col.Type)
	assert.Equal(t, 1, col.NullCount)
	require.NotNil(t, col.Boolean)
	assert.Equal(t, 2, col.Boolean.TrueCount)
}

func TestTablesWithoutStorage(t *testing.T) {
	s := newTestServer(nil)

	rec := doRequest(t, s, http.MethodPost, "/api/tables", `{"name":"orders","columns":[]}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/tables", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeUnavailable, resp.Code)
}

func TestTablesLifecycle(t *testing.T) {
	repo := &memoryRepository{}
	s := newTestServer(repo)

	body := strings.Replace(ordersBody, `{"columns"`, `{"name":"orders","source_sheet":"Sheet1","columns"`, 1)
	rec := doRequest(t, s, http.MethodPost, "/api/tables", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved SaveTableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "orders", saved.Record.Name)
	assert.Equal(t, "Sheet1", saved.Record.SourceSheet)
	assert.Equal(t, 3, saved.Record.ColumnCount)
	assert.Equal(t, 4, saved.Record.RowCount)

	rec = doRequest(t, s, http.MethodGet, "/api/tables?limit=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Tables []table.TableRecord `json:"tables"`
		Count  int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)

	rec = doRequest(t, s, http.MethodDelete, "/api/tables/"+saved.Record.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/tables/"+saved.Record.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveTableRequiresName(t *testing.T) {
	rec := doRequest(t, newTestServer(&memoryRepository{}), http.MethodPost, "/api/tables", ordersBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
