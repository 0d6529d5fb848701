package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/oceanstay/booking-service/internal/database"
)

// ListRunsRequest represents query parameters for listing import runs
type ListRunsRequest struct {
	Source string `form:"source" json:"source" jsonschema:"enum=official,enum=offline"`
	Status string `form:"status" json:"status" jsonschema:"enum=running,enum=completed,enum=failed,enum=interrupted"`
	Limit  int    `form:"limit" json:"limit" binding:"min=0,max=100" jsonschema:"minimum=1,maximum=100"`
	Offset int    `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListRunsResponse represents the response for listing import runs
type ListRunsResponse struct {
	Runs  []ImportRun `json:"runs" jsonschema:"required"`
	Total int         `json:"total" jsonschema:"required"`
}

// ImportRun represents an import run response
type ImportRun struct {
	ID                    int64      `json:"id" jsonschema:"required"`
	Filename              string     `json:"filename" jsonschema:"required"`
	Source                string     `json:"source" jsonschema:"required,enum=official,enum=offline"`
	Channel               string     `json:"channel" jsonschema:"required"`
	IngestionID           string     `json:"ingestionId" jsonschema:"required"`
	Status                string     `json:"status" jsonschema:"required,enum=running,enum=completed,enum=failed,enum=interrupted"`
	RowsTotal             int        `json:"rowsTotal"`
	RowsInserted          int        `json:"rowsInserted"`
	RowsSkipped           int        `json:"rowsSkipped"`
	RowsErrors            int        `json:"rowsErrors"`
	FileSizeBytes         int64      `json:"fileSizeBytes"`
	ProcessingTimeSeconds float64    `json:"processingTimeSeconds"`
	ErrorLogFile          *string    `json:"errorLogFile"`
	CreatedAt             time.Time  `json:"createdAt" jsonschema:"required"`
	CompletedAt           *time.Time `json:"completedAt"`
}

const importRunColumns = `
	id, filename, source, channel, ingestion_id, status,
	rows_total, rows_inserted, rows_skipped, rows_errors,
	file_size_bytes, processing_time_seconds, error_log_file,
	created_at, completed_at
`

func scanImportRun(row pgx.Row) (ImportRun, error) {
	var run ImportRun
	err := row.Scan(
		&run.ID, &run.Filename, &run.Source, &run.Channel,
		&run.IngestionID, &run.Status,
		&run.RowsTotal, &run.RowsInserted, &run.RowsSkipped, &run.RowsErrors,
		&run.FileSizeBytes, &run.ProcessingTimeSeconds, &run.ErrorLogFile,
		&run.CreatedAt, &run.CompletedAt,
	)
	return run, err
}

// ListRuns returns a paginated list of import runs with optional filters
// GET /internal/imports/runs
func ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if req.Source != "" {
		where += fmt.Sprintf(" AND source = $%d", argIdx)
		args = append(args, req.Source)
		argIdx++
	}

	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, req.Status)
		argIdx++
	}

	var total int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM import_runs"+where, args...).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count runs"})
		return
	}

	query := "SELECT " + importRunColumns + " FROM import_runs" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}
	defer rows.Close()

	runs := []ImportRun{}
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan run"})
			return
		}
		runs = append(runs, run)
	}

	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating runs"})
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Total: total,
	})
}

// GetRun returns a single import run by its ingestion ID
// GET /internal/imports/runs/:ingestionId
func GetRun(c *gin.Context) {
	ingestionID := c.Param("ingestionId")
	if ingestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingestionId is required"})
		return
	}

	pool := database.Pool()
	query := "SELECT " + importRunColumns + " FROM import_runs WHERE ingestion_id = $1"

	run, err := scanImportRun(pool.QueryRow(c.Request.Context(), query, ingestionID))
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetRunErrors serves the error-row CSV artifact of a run
// GET /internal/imports/runs/:ingestionId/errors
func GetRunErrors(c *gin.Context) {
	ingestionID := c.Param("ingestionId")
	if ingestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingestionId is required"})
		return
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	var errorLogFile *string
	err := pool.QueryRow(ctx, `
		SELECT error_log_file FROM import_runs WHERE ingestion_id = $1
	`, ingestionID).Scan(&errorLogFile)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
		return
	}

	if errorLogFile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run has no error artifact"})
		return
	}

	content, err := artifactStore.Get(ctx, *errorLogFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read error artifact"})
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(*errorLogFile)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}
