package app

import (
	"context"
	"fmt"

	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/domain/table"
	"sheetclean/internal"
	"sheetclean/internal/errors"
	"sheetclean/internal/profiling"
	"sheetclean/ports"
)

// WorkbookWriter exports cleaned sheets to a workbook file
type WorkbookWriter interface {
	WriteWorkbook(path string, sheets []normalizer.CleanSheet) error
}

// CleanService ties sheet sources, the normalizer, the profiler and optional
// storage together for the CLI and the HTTP API
type CleanService struct {
	reader      ports.SheetReader
	writer      WorkbookWriter
	normalizer  *normalizer.TableNormalizer
	profiler    *profiling.DataProfiler
	repository  ports.CleanTableRepository
	concurrency int
	logger      *internal.Logger
}

// CleanServiceOptions configures a CleanService. Repository may be nil, which
// disables persistence.
type CleanServiceOptions struct {
	Reader           ports.SheetReader
	Writer           WorkbookWriter
	Normalizer       *normalizer.TableNormalizer
	Profiler         *profiling.DataProfiler
	Repository       ports.CleanTableRepository
	SheetConcurrency int
	Logger           *internal.Logger
}

// SheetResult is a sheet read from a file together with its cleaned form
type SheetResult struct {
	Name    string                    `json:"name"`
	Raw     *table.RawTable           `json:"-"`
	Clean   *table.CleanTable         `json:"table"`
	Reports []normalizer.ColumnReport `json:"reports"`
}

// NewCleanService creates a clean service
func NewCleanService(opts CleanServiceOptions) *CleanService {
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	n := opts.Normalizer
	if n == nil {
		n = normalizer.NewDefaultTableNormalizer()
	}
	p := opts.Profiler
	if p == nil {
		p = profiling.NewDataProfiler()
	}
	concurrency := opts.SheetConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &CleanService{
		reader:      opts.Reader,
		writer:      opts.Writer,
		normalizer:  n,
		profiler:    p,
		repository:  opts.Repository,
		concurrency: concurrency,
		logger:      logger.WithComponent("CleanService"),
	}
}

// StorageEnabled reports whether clean tables can be persisted
func (s *CleanService) StorageEnabled() bool {
	return s.repository != nil
}

// SheetNames lists the sheets of a workbook file
func (s *CleanService) SheetNames(path string) ([]string, error) {
	names, err := s.reader.SheetNames(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	return names, nil
}

// CleanSheet reads one sheet of a file and normalizes it
func (s *CleanService) CleanSheet(path, sheet string) (*SheetResult, error) {
	raw, err := s.reader.ReadSheet(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	clean, reports, err := s.normalizer.NormalizeTableWithReport(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize sheet %s: %w", sheet, err)
	}

	return &SheetResult{Name: sheet, Raw: raw, Clean: clean, Reports: reports}, nil
}

// CleanWorkbook reads and normalizes every data sheet of a file
func (s *CleanService) CleanWorkbook(ctx context.Context, path string) ([]normalizer.CleanSheet, error) {
	sheets, err := s.reader.ReadWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	cleaned, err := s.normalizer.NormalizeWorkbook(ctx, sheets, s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize workbook: %w", err)
	}
	return cleaned, nil
}

// ExportWorkbook cleans every data sheet of src and writes them to dst
func (s *CleanService) ExportWorkbook(ctx context.Context, src, dst string) ([]normalizer.CleanSheet, error) {
	if s.writer == nil {
		return nil, errors.Unavailable("workbook export")
	}

	cleaned, err := s.CleanWorkbook(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteWorkbook(dst, cleaned); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("exported %d sheets from %s to %s", len(cleaned), src, dst)
	return cleaned, nil
}

// ProfileSheet cleans one sheet of a file and profiles it, attaching column
// descriptions from the workbook's description sheet when present
func (s *CleanService) ProfileSheet(path, sheet string) (*profiling.TableProfile, error) {
	result, err := s.CleanSheet(path, sheet)
	if err != nil {
		return nil, err
	}

	descriptions, err := s.reader.ReadColumnDescriptions(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column descriptions: %w", err)
	}

	return s.profiler.ProfileTable(result.Raw, result.Clean, descriptions)
}

// NormalizeTable normalizes an in-memory table
func (s *CleanService) NormalizeTable(raw *table.RawTable) (*table.CleanTable, []normalizer.ColumnReport, error) {
	return s.normalizer.NormalizeTableWithReport(raw)
}

// ProfileTable normalizes an in-memory table and profiles the result
func (s *CleanService) ProfileTable(raw *table.RawTable, descriptions map[string]string) (*profiling.TableProfile, error) {
	clean, err := s.normalizer.NormalizeTable(raw)
	if err != nil {
		return nil, err
	}
	return s.profiler.ProfileTable(raw, clean, descriptions)
}

// SaveTable normalizes raw and persists the result under name
func (s *CleanService) SaveTable(ctx context.Context, name, sourceSheet string, raw *table.RawTable) (*table.TableRecord, *table.CleanTable, error) {
	if s.repository == nil {
		return nil, nil, errors.Unavailable("table storage")
	}

	clean, err := s.normalizer.NormalizeTable(raw)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.repository.Save(ctx, name, sourceSheet, clean)
	if err != nil {
		return nil, nil, storageError("failed to save table", err)
	}

	s.logger.Info("saved table %q as %s (%d rows)", name, record.SQLTable, record.RowCount)
	return record, clean, nil
}

// ListTables lists persisted tables, newest first
func (s *CleanService) ListTables(ctx context.Context, limit, offset int) ([]table.TableRecord, error) {
	if s.repository == nil {
		return nil, errors.Unavailable("table storage")
	}

	records, err := s.repository.List(ctx, limit, offset)
	if err != nil {
		return nil, storageError("failed to list tables", err)
	}
	return records, nil
}

// DropTable removes a persisted table
func (s *CleanService) DropTable(ctx context.Context, id string) error {
	if s.repository == nil {
		return errors.Unavailable("table storage")
	}
	if err := s.repository.Drop(ctx, id); err != nil {
		return storageError(fmt.Sprintf("failed to drop table %s", id), err)
	}
	return nil
}

// storageError keeps domain classifications such as not found or invalid
// names and reports everything else as a database failure
func storageError(message string, err error) error {
	if errors.GetCode(err) != errors.CodeInternalError {
		return errors.Wrap(err, message)
	}
	return errors.DatabaseError(message, err)
}
