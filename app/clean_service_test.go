package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"testing"
	"time"

	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/domain/core"
	"sheetclean/domain/table"
	"sheetclean/internal"
	"sheetclean/internal/errors"
	"sheetclean/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	sheets       []table.Sheet
	descriptions map[string]string
}

func (r *fakeReader) SheetNames(path string) ([]string, error) {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.Name
	}
	return names, nil
}

func (r *fakeReader) ReadSheet(path, sheet string) (*table.RawTable, error) {
	for _, s := range r.sheets {
		if s.Name == sheet {
			return s.Table.Clone(), nil
		}
	}
	return nil, core.NewSheetNotFoundError(sheet)
}

func (r *fakeReader) ReadWorkbook(path string) ([]table.Sheet, error) {
	return r.sheets, nil
}

func (r *fakeReader) ReadColumnDescriptions(path string) (map[string]string, error) {
	return r.descriptions, nil
}

type fakeWriter struct {
	path   string
	sheets []normalizer.CleanSheet
}

func (w *fakeWriter) WriteWorkbook(path string, sheets []normalizer.CleanSheet) error {
	w.path, w.sheets = path, sheets
	return nil
}

type fakeRepository struct {
	records []table.TableRecord
	failing error
}

func (r *fakeRepository) EnsureSchema(ctx context.Context) error { return nil }

func (r *fakeRepository) Save(ctx context.Context, name, sourceSheet string, t *table.CleanTable) (*table.TableRecord, error) {
	if r.failing != nil {
		return nil, r.failing
	}
	record := table.TableRecord{
		ID:          core.ID(fmt.Sprintf("id-%d", len(r.records)+1)),
		Name:        name,
		SQLTable:    "clean_" + name,
		SourceSheet: sourceSheet,
		ColumnCount: len(t.Columns),
		RowCount:    t.RowCount(),
		CreatedAt:   time.Now(),
	}
	r.records = append(r.records, record)
	return &record, nil
}

func (r *fakeRepository) List(ctx context.Context, limit, offset int) ([]table.TableRecord, error) {
	if r.failing != nil {
		return nil, r.failing
	}
	return r.records, nil
}

func (r *fakeRepository) Drop(ctx context.Context, id string) error {
	for i, rec := range r.records {
		if rec.ID.String() == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrTableNotFound, id)
}

func testSheets() []table.Sheet {
	return []table.Sheet{
		{Name: "Orders", Table: table.NewRawTable(
			table.NewRawColumn(" amount ", "1,200", "3.5", "abc", "na"),
			table.NewRawColumn("paid", "Yes", " no ", "YES", "N"),
		)},
		{Name: "Stock", Table: table.NewRawTable(table.NewRawColumn("qty", "1", "2"))},
	}
}

func newTestService(repo *fakeRepository, writer *fakeWriter) *CleanService {
	opts := CleanServiceOptions{
		Reader:           &fakeReader{sheets: testSheets(), descriptions: map[string]string{"paid": "Paid in full"}},
		SheetConcurrency: 2,
		Logger:           internal.NewLoggerWithWriter(internal.LogLevelError, io.Discard),
	}
	if repo != nil {
		opts.Repository = repo
	}
	if writer != nil {
		opts.Writer = writer
	}
	return NewCleanService(opts)
}

func TestCleanSheet(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.CleanSheet("book.xlsx", "Orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "paid"}, result.Clean.ColumnNames())
	assert.Equal(t, []table.SemanticType{table.TypeNumeric, table.TypeBoolean}, result.Clean.Types())
	assert.Len(t, result.Reports, 2)

	_, err = svc.CleanSheet("book.xlsx", "Nope")
	assert.True(t, core.IsNotFoundError(err))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestProfileSheetAttachesDescriptions(t *testing.T) {
	svc := newTestService(nil, nil)

	profile, err := svc.ProfileSheet("book.xlsx", "Orders")
	require.NoError(t, err)
	require.Len(t, profile.Columns, 2)
	assert.Equal(t, "Paid in full", profile.Columns[1].Description)
	assert.Empty(t, profile.Columns[0].Description)
	assert.NotNil(t, profile.Columns[0].Numeric)
}

func TestExportWorkbook(t *testing.T) {
	writer := &fakeWriter{}
	svc := newTestService(nil, writer)

	cleaned, err := svc.ExportWorkbook(context.Background(), "book.xlsx", "clean.xlsx")
	require.NoError(t, err)
	assert.Len(t, cleaned, 2)
	assert.Equal(t, "clean.xlsx", writer.path)
	assert.Equal(t, "Orders", writer.sheets[0].Name)
	assert.Equal(t, "Stock", writer.sheets[1].Name)

	_, err = newTestService(nil, nil).ExportWorkbook(context.Background(), "book.xlsx", "clean.xlsx")
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
}

func TestStorageRequiresRepository(t *testing.T) {
	svc := newTestService(nil, nil)
	assert.False(t, svc.StorageEnabled())

	_, _, err := svc.SaveTable(context.Background(), "orders", "", testSheets()[0].Table)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
	_, err = svc.ListTables(context.Background(), 10, 0)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(svc.DropTable(context.Background(), "x")))
}

func TestSaveListDropTables(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil)
	require.True(t, svc.StorageEnabled())

	record, clean, err := svc.SaveTable(context.Background(), "orders", "Orders", testSheets()[0].Table)
	require.NoError(t, err)
	assert.Equal(t, "orders", record.Name)
	assert.Equal(t, 4, record.RowCount)
	assert.Equal(t, table.TypeNumeric, clean.Columns[0].Type)

	records, err := svc.ListTables(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, svc.DropTable(context.Background(), record.ID.String()))
	err = svc.DropTable(context.Background(), record.ID.String())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSaveTableErrors(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)
	ragged := table.NewRawTable(table.NewRawColumn("a", "1"), table.NewRawColumn("b"))

	_, _, err := svc.SaveTable(context.Background(), "bad", "", ragged)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	failing := newTestService(&fakeRepository{failing: stderrors.New("connection refused")}, nil)
	_, _, err = failing.SaveTable(context.Background(), "orders", "", testSheets()[0].Table)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))

	invalid := newTestService(&fakeRepository{failing: fmt.Errorf("%w: %q", core.ErrInvalidTableRef, "***")}, nil)
	_, _, err = invalid.SaveTable(context.Background(), "***", "", testSheets()[0].Table)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestProfileTable(t *testing.T) {
	svc := newTestService(nil, nil)

	profile, err := svc.ProfileTable(testSheets()[0].Table, nil)
	require.NoError(t, err)
	assert.False(t, profile.Columns[0].HasWarning(profiling.WarningMixedKinds))
	assert.Equal(t, 4, profile.RowCount)
}
