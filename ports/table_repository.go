package ports

import (
	"context"

	"sheetclean/domain/table"
)

// CleanTableRepository persists clean tables with one typed SQL column per
// settled column type
type CleanTableRepository interface {
	// EnsureSchema creates the catalog if it does not exist
	EnsureSchema(ctx context.Context) error
	// Save stores a clean table under name and records it in the catalog
	Save(ctx context.Context, name, sourceSheet string, t *table.CleanTable) (*table.TableRecord, error)
	// List returns catalog entries, newest first
	List(ctx context.Context, limit, offset int) ([]table.TableRecord, error)
	// Drop removes a stored table and its catalog entry
	Drop(ctx context.Context, id string) error
}
