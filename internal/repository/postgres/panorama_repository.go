package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/domain"
)

type panoramaRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewPanoramaRepository(db *dbpg.DB, strategy retry.Strategy) domain.PanoramaRepository {
	return &panoramaRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *panoramaRepository) Create(ctx context.Context, pano *domain.Panorama) error {
	query := `
		INSERT INTO panoramas (
			id, source_count, decoded_count, skipped_count,
			width, height, size_bytes, output_path, preview_path,
			status, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecWithRetry(ctx, r.strategy, query,
		pano.ID,
		pano.SourceCount,
		pano.DecodedCount,
		pano.SkippedCount,
		nullInt(pano.Width),
		nullInt(pano.Height),
		nullInt64(pano.SizeBytes),
		nullString(pano.OutputPath),
		nullString(pano.PreviewPath),
		pano.Status,
		nullString(pano.ErrorMessage),
		pano.CreatedAt,
	)

	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", pano.ID).Msg("failed to create panorama record")
		return fmt.Errorf("create panorama: %w", err)
	}

	zlog.Logger.Info().Str("panorama_id", pano.ID).Msg("panorama record created")
	return nil
}

func (r *panoramaRepository) FindByID(ctx context.Context, id string) (*domain.Panorama, error) {
	query := `
		SELECT id, source_count, decoded_count, skipped_count,
		       width, height, size_bytes, output_path, preview_path,
		       status, error_message, created_at
		FROM panoramas
		WHERE id = $1
	`

	row := r.db.Master.QueryRowContext(ctx, query, id)
	pano, err := scanPanorama(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPanoramaNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to find panorama")
		return nil, fmt.Errorf("find panorama: %w", err)
	}

	return pano, nil
}

func (r *panoramaRepository) List(ctx context.Context, limit, offset int) ([]*domain.Panorama, error) {
	query := `
		SELECT id, source_count, decoded_count, skipped_count,
		       width, height, size_bytes, output_path, preview_path,
		       status, error_message, created_at
		FROM panoramas
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, limit, offset)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list panoramas")
		return nil, fmt.Errorf("list panoramas: %w", err)
	}
	defer rows.Close()

	return r.scanPanoramas(rows)
}

func (r *panoramaRepository) FindByStatus(ctx context.Context, status domain.ComposeStatus, limit, offset int) ([]*domain.Panorama, error) {
	query := `
		SELECT id, source_count, decoded_count, skipped_count,
		       width, height, size_bytes, output_path, preview_path,
		       status, error_message, created_at
		FROM panoramas
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, status, limit, offset)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("status", string(status)).Msg("failed to find panoramas by status")
		return nil, fmt.Errorf("find panoramas by status: %w", err)
	}
	defer rows.Close()

	return r.scanPanoramas(rows)
}

func (r *panoramaRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM panoramas WHERE id = $1`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to delete panorama")
		return fmt.Errorf("delete panorama: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrPanoramaNotFound
	}

	zlog.Logger.Info().Str("panorama_id", id).Msg("panorama record deleted")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPanorama(row rowScanner) (*domain.Panorama, error) {
	var pano domain.Panorama
	var outputPath, previewPath, errorMsg sql.NullString
	var width, height sql.NullInt32
	var sizeBytes sql.NullInt64

	err := row.Scan(
		&pano.ID,
		&pano.SourceCount,
		&pano.DecodedCount,
		&pano.SkippedCount,
		&width,
		&height,
		&sizeBytes,
		&outputPath,
		&previewPath,
		&pano.Status,
		&errorMsg,
		&pano.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if width.Valid {
		pano.Width = int(width.Int32)
	}
	if height.Valid {
		pano.Height = int(height.Int32)
	}
	if sizeBytes.Valid {
		pano.SizeBytes = sizeBytes.Int64
	}
	if outputPath.Valid {
		pano.OutputPath = outputPath.String
	}
	if previewPath.Valid {
		pano.PreviewPath = previewPath.String
	}
	if errorMsg.Valid {
		pano.ErrorMessage = errorMsg.String
	}

	return &pano, nil
}

func (r *panoramaRepository) scanPanoramas(rows *sql.Rows) ([]*domain.Panorama, error) {
	var panoramas []*domain.Panorama

	for rows.Next() {
		pano, err := scanPanorama(rows)
		if err != nil {
			return nil, fmt.Errorf("scan panorama row: %w", err)
		}
		panoramas = append(panoramas, pano)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate panorama rows: %w", err)
	}

	return panoramas, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(i), Valid: i != 0}
}

func nullInt64(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}
