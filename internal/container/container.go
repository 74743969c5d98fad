package container

import (
	"context"
	"fmt"

	"sheetclean/adapters/datareadiness/coercer"
	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/adapters/excel"
	"sheetclean/adapters/postgres"
	"sheetclean/app"
	"sheetclean/internal"
	"sheetclean/internal/config"
	"sheetclean/internal/errors"
	"sheetclean/internal/profiling"
	"sheetclean/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Sheet sources and sinks
	Reader *excel.DataReader
	Writer *excel.WorkbookWriter

	// Cleaning pipeline
	Normalizer *normalizer.TableNormalizer
	Profiler   *profiling.DataProfiler

	// Storage, nil until InitWithDatabase
	TableRepo ports.CleanTableRepository

	CleanService *app.CleanService
}

// New creates a new dependency injection container. Storage stays disabled
// until InitWithDatabase is called.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(cfg.LogLevel)
	readerConfig := excel.DefaultReaderConfig()
	readerConfig.DescriptionSheet = cfg.Workbook.DescriptionSheet

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Reader:     excel.NewDataReader(readerConfig, logger),
		Writer:     excel.NewWorkbookWriter(logger),
		Normalizer: normalizer.NewTableNormalizer(coercer.NewTypeCoercer(cfg.Coercion.Coercer()), logger),
		Profiler:   profiling.NewDataProfiler(),
	}
	c.buildService()

	return c, nil
}

// ConnectDatabase opens the configured PostgreSQL database
func ConnectDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if !cfg.Database.Enabled() {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

// InitWithDatabase enables table storage on db, creating the catalog if needed
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	repo := postgres.NewTableRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return errors.DatabaseError("failed to initialize schema", err)
	}

	c.DB = db
	c.TableRepo = repo
	c.buildService()

	c.Logger.Info("table storage enabled")
	return nil
}

func (c *Container) buildService() {
	opts := app.CleanServiceOptions{
		Reader:           c.Reader,
		Writer:           c.Writer,
		Normalizer:       c.Normalizer,
		Profiler:         c.Profiler,
		SheetConcurrency: c.Config.Workbook.SheetConcurrency,
		Logger:           c.Logger,
	}
	// a nil interface keeps storage disabled
	if c.TableRepo != nil {
		opts.Repository = c.TableRepo
	}
	c.CleanService = app.NewCleanService(opts)
}

// Shutdown releases the database connection
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
