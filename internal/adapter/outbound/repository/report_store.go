package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gradlemeta/internal/application/common/logging"
	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/config"
	"gradlemeta/internal/port/outbound"
)

// Tables of the report store, created inside the configured schema.
const (
	reportsTable      = "reports"
	scriptsTable      = "scripts"
	dependenciesTable = "dependencies"
	pluginsTable      = "plugins"
	repositoriesTable = "repositories"
	propertiesTable   = "properties"
	subprojectsTable  = "subprojects"
)

// PostgreSQLReportStore saves extraction reports to PostgreSQL. Every script
// of a report becomes a row of the scripts table; its records are copied into
// one table per record kind, keyed by script id and source position.
type PostgreSQLReportStore struct {
	db     DB
	schema string
	logger logging.ApplicationLogger
}

var _ outbound.ReportStore = (*PostgreSQLReportStore)(nil)

// OpenPostgreSQLReportStore connects to the database described by cfg and
// creates the store tables when they do not exist yet.
func OpenPostgreSQLReportStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgreSQLReportStore, error) {
	pool, err := NewDatabaseConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := NewPostgreSQLReportStore(pool, cfg.Schema)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgreSQLReportStore creates a store over db. Tables live in schema.
func NewPostgreSQLReportStore(db DB, schema string) *PostgreSQLReportStore {
	return &PostgreSQLReportStore{
		db:     db,
		schema: schema,
		logger: slogger.WithComponent("report-store"),
	}
}

func (s *PostgreSQLReportStore) table(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}

func (s *PostgreSQLReportStore) schemaStatements() []string {
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pgx.Identifier{s.schema}.Sanitize()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			stored_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table(reportsTable)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			report_id UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			script TEXT NOT NULL,
			extracted_at TIMESTAMPTZ NOT NULL,
			UNIQUE (report_id, position)
		)`, s.table(scriptsTable), s.table(reportsTable)),
		s.recordTable(dependenciesTable, "group_name TEXT NOT NULL, name TEXT NOT NULL, version TEXT NOT NULL"),
		s.recordTable(pluginsTable, "plugin_id TEXT NOT NULL, version TEXT NOT NULL"),
		s.recordTable(repositoriesTable, "url TEXT NOT NULL"),
		s.recordTable(propertiesTable, "name TEXT NOT NULL, value TEXT NOT NULL"),
		s.recordTable(subprojectsTable, "path TEXT NOT NULL"),
	}
}

func (s *PostgreSQLReportStore) recordTable(name, columns string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			script_id UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			%s,
			PRIMARY KEY (script_id, position)
		)`, s.table(name), s.table(scriptsTable), columns)
}

// EnsureSchema creates the schema and tables of the store if needed.
func (s *PostgreSQLReportStore) EnsureSchema(ctx context.Context) error {
	for _, statement := range s.schemaStatements() {
		if _, err := s.db.Exec(ctx, statement); err != nil {
			return WrapError(err, "create report store schema")
		}
	}
	return nil
}

// Save stores report and all of its records in one transaction. Saving the
// same report twice fails with ErrAlreadyExists.
func (s *PostgreSQLReportStore) Save(ctx context.Context, report outbound.StorableReport) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}
	reportID, err := uuid.Parse(report.ReportID())
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", report.ReportID(), err)
	}

	start := time.Now()
	scripts := report.ScriptRecords()
	err = withTransaction(ctx, s.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`INSERT INTO %s (id) VALUES ($1)`, s.table(reportsTable))
		if _, err := tx.Exec(ctx, query, reportID); err != nil {
			return WrapError(err, "save report")
		}
		for position, records := range scripts {
			if err := s.saveScript(ctx, tx, reportID, position, records); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorWithError(ctx, err, "Failed to store report", slogger.Field("report_id", reportID.String()))
		return err
	}

	s.logger.LogPerformance(ctx, "store_report", time.Since(start), slogger.Fields2(
		"report_id", reportID.String(),
		"scripts", len(scripts),
	))
	return nil
}

func (s *PostgreSQLReportStore) saveScript(
	ctx context.Context,
	tx pgx.Tx,
	reportID uuid.UUID,
	position int,
	records outbound.ScriptRecords,
) error {
	scriptID := uuid.New()
	query := fmt.Sprintf(
		`INSERT INTO %s (id, report_id, position, script, extracted_at) VALUES ($1, $2, $3, $4, $5)`,
		s.table(scriptsTable),
	)
	if _, err := tx.Exec(ctx, query, scriptID, reportID, position, records.Script, records.ExtractedAt); err != nil {
		return WrapError(err, "save script")
	}

	dependencies := make([][]any, 0, len(records.Dependencies))
	for i, d := range records.Dependencies {
		dependencies = append(dependencies, []any{scriptID, i, d.Group, d.Name, d.Version})
	}
	plugins := make([][]any, 0, len(records.Plugins))
	for i, p := range records.Plugins {
		plugins = append(plugins, []any{scriptID, i, p.ID, p.Version})
	}
	repositories := make([][]any, 0, len(records.Repositories))
	for i, r := range records.Repositories {
		repositories = append(repositories, []any{scriptID, i, r.URL})
	}
	properties := make([][]any, 0, len(records.Properties))
	for i, p := range records.Properties {
		properties = append(properties, []any{scriptID, i, p.Name, p.Value})
	}
	subprojects := make([][]any, 0, len(records.Subprojects))
	for i, p := range records.Subprojects {
		subprojects = append(subprojects, []any{scriptID, i, string(p)})
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{dependenciesTable, []string{"script_id", "position", "group_name", "name", "version"}, dependencies},
		{pluginsTable, []string{"script_id", "position", "plugin_id", "version"}, plugins},
		{repositoriesTable, []string{"script_id", "position", "url"}, repositories},
		{propertiesTable, []string{"script_id", "position", "name", "value"}, properties},
		{subprojectsTable, []string{"script_id", "position", "path"}, subprojects},
	}
	for _, c := range copies {
		if err := s.copyRows(ctx, tx, c.table, c.columns, c.rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgreSQLReportStore) copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{s.schema, table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return WrapError(err, "save "+table)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("save %s: copied %d of %d rows", table, copied, len(rows))
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgreSQLReportStore) Close() {
	s.db.Close()
}
