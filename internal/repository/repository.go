package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/postcodes"
	"github.com/UnknownOlympus/postcodes/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db  Database
	log *slog.Logger
}

// Database is the subset of *pgxpool.Pool the repository uses.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Interface interface {
	FetchTasksForEnrichment(ctx context.Context, limit int) ([]models.Task, error)
	SaveTaskPostcode(ctx context.Context, taskID int, pc postcodes.Postcode) error
	IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
