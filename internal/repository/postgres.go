package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/postcodes"
	"github.com/UnknownOlympus/postcodes/internal/models"
)

// maxAttempts is the number of failed enrichments after which a task is skipped.
const maxAttempts = 5

// FetchTasksForEnrichment retrieves a list of tasks that still need postcode metadata.
// It returns open tasks without a resolved postcode, with fewer than maxAttempts failures,
// and with either a postcode or an address to resolve. The results are ordered by creation
// date and limited to the specified count.
func (r *Repository) FetchTasksForEnrichment(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT task_id, COALESCE(postcode, ''), COALESCE(address, '')
		FROM public.tasks
		WHERE
			resolved_postcode IS NULL
			AND is_closed = false
			AND enrichment_attempts < $1
			AND (COALESCE(postcode, '') <> '' OR COALESCE(address, '') <> '')
		ORDER BY created_at ASC, task_id ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks awaiting enrichment: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		if errScan := rows.Scan(&task.ID, &task.Postcode, &task.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan task awaiting enrichment: %w", errScan)
		}
		r.log.DebugContext(ctx, "A task awaiting enrichment has been received.",
			"ID", task.ID, "Postcode", task.Postcode, "Address", task.Address)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// SaveTaskPostcode stores the resolved postcode and its headline metadata on the task
// and clears any previous enrichment error.
func (r *Repository) SaveTaskPostcode(ctx context.Context, taskID int, pc postcodes.Postcode) error {
	query := `
		UPDATE tasks
		SET
			resolved_postcode = $1,
			latitude = $2,
			longitude = $3,
			region = $4,
			country = $5,
			admin_district = $6,
			enrichment_error = NULL
		WHERE
			task_id = $7;
	`

	_, err := r.db.Exec(ctx, query,
		pc.Postcode, pc.Latitude, pc.Longitude, pc.Region, pc.Country, pc.AdminDistrict, taskID)
	if err != nil {
		return fmt.Errorf("failed to save task postcode: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the enrichment attempt count for a specific task
// and records the error message that caused the failure.
func (r *Repository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE tasks
		SET
			enrichment_attempts = enrichment_attempts + 1,
			enrichment_error = $1
		WHERE task_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to update enrichment error and number of attempts: %w", err)
	}

	return nil
}
