package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/domain"
	"github.com/yokitheyo/panostitcher/internal/infrastructure/storage"
)

// PanoramaUsecase is the request-facing service: it lands uploads on disk,
// hands their paths to the composer, and serves stored artifacts back.
type PanoramaUsecase struct {
	repo     domain.PanoramaRepository
	storage  storage.Storage
	uploads  *storage.UploadStore
	composer *ComposeUsecase
}

func NewPanoramaUsecase(
	repo domain.PanoramaRepository,
	store storage.Storage,
	uploads *storage.UploadStore,
	composer *ComposeUsecase,
) *PanoramaUsecase {
	return &PanoramaUsecase{
		repo:     repo,
		storage:  store,
		uploads:  uploads,
		composer: composer,
	}
}

func (u *PanoramaUsecase) Compose(ctx context.Context, sources []domain.SourceFile) (*domain.Panorama, error) {
	paths := make([]string, 0, len(sources))

	for _, src := range sources {
		ext := filepath.Ext(src.Filename)
		uniqueFilename := uuid.New().String() + ext

		path, err := u.uploads.Save(uniqueFilename, src.Reader)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("filename", src.Filename).Msg("failed to save upload")
			return nil, fmt.Errorf("%w: save upload %s: %v", domain.ErrStorageFailed, src.Filename, err)
		}
		paths = append(paths, path)
	}

	return u.composer.ComposeFromPaths(ctx, paths)
}

func (u *PanoramaUsecase) GetPanorama(ctx context.Context, id string) (*domain.Panorama, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *PanoramaUsecase) GetPanoramaImage(ctx context.Context, id string) (io.ReadCloser, string, error) {
	pano, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if !pano.IsCompleted() {
		zlog.Logger.Warn().Str("panorama_id", id).Str("status", string(pano.Status)).Msg("panorama has no stored image")
		return nil, "", domain.ErrArtifactUnavailable
	}

	file, err := u.storage.GetOutput(ctx, pano.OutputPath)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Str("path", pano.OutputPath).Msg("failed to get panorama image")
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", domain.ErrPanoramaNotFound
		}
		return nil, "", err
	}

	return file, pano.ID + ".jpg", nil
}

func (u *PanoramaUsecase) GetPanoramaPreview(ctx context.Context, id string) (io.ReadCloser, string, error) {
	pano, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if !pano.IsCompleted() || pano.PreviewPath == "" {
		return nil, "", domain.ErrArtifactUnavailable
	}

	file, err := u.storage.GetPreview(ctx, pano.PreviewPath)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Str("path", pano.PreviewPath).Msg("failed to get panorama preview")
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", domain.ErrPanoramaNotFound
		}
		return nil, "", err
	}

	return file, pano.ID + "_preview.jpg", nil
}

func (u *PanoramaUsecase) ListPanoramas(ctx context.Context, limit, offset int) ([]*domain.Panorama, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	panoramas, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list panoramas")
		return nil, err
	}
	return panoramas, nil
}

func (u *PanoramaUsecase) DeletePanorama(ctx context.Context, id string) error {
	pano, err := u.repo.FindByID(ctx, id)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to find panorama for delete")
		return err
	}

	if err := u.storage.DeleteAll(ctx, pano.OutputPath, pano.PreviewPath); err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to delete artifact files")
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to delete panorama record")
		return err
	}

	zlog.Logger.Info().Str("panorama_id", id).Msg("panorama deleted")
	return nil
}
