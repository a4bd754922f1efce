package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/config"
	"github.com/yokitheyo/panostitcher/internal/domain"
	"github.com/yokitheyo/panostitcher/internal/infrastructure/storage"
	"github.com/yokitheyo/panostitcher/internal/stitching"
)

// MinSourceImages is the smallest batch the stitcher accepts.
const MinSourceImages = 2

// ComposeUsecase runs the composition pipeline: load the source files,
// stitch them into a panorama, trim the black borders, then persist the
// JPEG artifact plus a preview and record the outcome. The pipeline is
// strictly sequential within a request and is never retried; concurrent
// requests do not share buffers, only the append-only artifact namespace.
type ComposeUsecase struct {
	repo     domain.PanoramaRepository
	storage  storage.Storage
	stitcher stitching.Stitcher
	cfg      config.StitchingConfig
}

func NewComposeUsecase(
	repo domain.PanoramaRepository,
	storage storage.Storage,
	stitcher stitching.Stitcher,
	cfg config.StitchingConfig,
) *ComposeUsecase {
	return &ComposeUsecase{
		repo:     repo,
		storage:  storage,
		stitcher: stitcher,
		cfg:      cfg,
	}
}

// ComposeFromPaths composes the images at the given paths into a single
// panorama artifact. Undecodable paths are skipped; fewer than two decoded
// images fail with ErrInsufficientImages before the stitcher is ever
// invoked. A stitcher failure is reported with its status code verbatim.
func (u *ComposeUsecase) ComposeFromPaths(ctx context.Context, paths []string) (*domain.Panorama, error) {
	images, skipped := stitching.LoadImages(paths)
	defer stitching.CloseAll(images)

	if len(images) < MinSourceImages {
		err := fmt.Errorf("%w: got %d decodable image(s), need at least %d",
			domain.ErrInsufficientImages, len(images), MinSourceImages)
		u.recordFailure(ctx, len(paths), len(images), skipped, err)
		return nil, err
	}

	zlog.Logger.Info().
		Int("sources", len(paths)).
		Int("decoded", len(images)).
		Int("skipped", skipped).
		Msg("starting panorama composition")

	result := u.stitcher.Stitch(images)
	if !result.OK() {
		err := fmt.Errorf("%w: %s (error code %d)",
			domain.ErrStitchingFailed, result.Status, int(result.Status))
		u.recordFailure(ctx, len(paths), len(images), skipped, err)
		return nil, err
	}
	pano := result.Pano
	defer pano.Close()

	cropped := stitching.CropBorders(pano, u.cfg.CropKernelSize)
	defer cropped.Close()

	zlog.Logger.Info().
		Int("stitched_width", pano.Cols()).
		Int("stitched_height", pano.Rows()).
		Int("cropped_width", cropped.Cols()).
		Int("cropped_height", cropped.Rows()).
		Msg("panorama stitched and cropped")

	data, err := stitching.EncodeJPEG(cropped, u.cfg.OutputQuality)
	if err != nil {
		err = fmt.Errorf("encode panorama: %w", err)
		u.recordFailure(ctx, len(paths), len(images), skipped, err)
		return nil, err
	}

	id := newArtifactID(time.Now())

	outputPath, err := u.storage.SaveOutput(ctx, id+".jpg", bytes.NewReader(data))
	if err != nil {
		err = fmt.Errorf("%w: save panorama: %v", domain.ErrStorageFailed, err)
		u.recordFailure(ctx, len(paths), len(images), skipped, err)
		return nil, err
	}

	previewPath := ""
	if previewData, perr := u.renderPreview(data); perr != nil {
		zlog.Logger.Warn().Err(perr).Str("panorama_id", id).Msg("preview generation failed, continuing without one")
	} else if previewPath, perr = u.storage.SavePreview(ctx, id+"_preview.jpg", bytes.NewReader(previewData)); perr != nil {
		zlog.Logger.Warn().Err(perr).Str("panorama_id", id).Msg("preview save failed, continuing without one")
		previewPath = ""
	}

	pan := &domain.Panorama{
		ID:           id,
		SourceCount:  len(paths),
		DecodedCount: len(images),
		SkippedCount: skipped,
		Width:        cropped.Cols(),
		Height:       cropped.Rows(),
		SizeBytes:    int64(len(data)),
		OutputPath:   outputPath,
		PreviewPath:  previewPath,
		Status:       domain.StatusCompleted,
		CreatedAt:    time.Now(),
	}

	if err := u.repo.Create(ctx, pan); err != nil {
		_ = u.storage.DeleteAll(ctx, outputPath, previewPath)
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to record panorama")
		return nil, fmt.Errorf("record panorama: %w", err)
	}

	zlog.Logger.Info().
		Str("panorama_id", id).
		Int("width", pan.Width).
		Int("height", pan.Height).
		Int64("size_bytes", pan.SizeBytes).
		Msg("panorama composed successfully")

	return pan, nil
}

// recordFailure keeps a failed attempt in the database for diagnostics.
// Best effort: a record that cannot be written only logs.
func (u *ComposeUsecase) recordFailure(ctx context.Context, sources, decoded, skipped int, cause error) {
	pan := &domain.Panorama{
		ID:           newArtifactID(time.Now()),
		SourceCount:  sources,
		DecodedCount: decoded,
		SkippedCount: skipped,
		Status:       domain.StatusFailed,
		ErrorMessage: cause.Error(),
		CreatedAt:    time.Now(),
	}
	if err := u.repo.Create(ctx, pan); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to record failed composition")
	}
}

func (u *ComposeUsecase) renderPreview(jpegData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("decode panorama for preview: %w", err)
	}

	preview := imaging.Fit(img, u.cfg.PreviewWidth, u.cfg.PreviewHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, preview, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	return buf.Bytes(), nil
}

// newArtifactID derives the identifier from the current time at second
// resolution, as the output naming scheme promises, with a short random
// suffix so two requests finishing within the same second cannot overwrite
// each other's artifact.
func newArtifactID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("stitched_%d_%s", now.Unix(), suffix)
}
