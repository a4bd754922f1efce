package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/panostitcher/internal/domain"
	"github.com/yokitheyo/panostitcher/internal/dto"
)

type PanoramaHandler struct {
	service        domain.PanoramaService
	maxUploadSize  int64
	allowedFormats []string
}

func NewPanoramaHandler(service domain.PanoramaService, maxUploadSizeMB int, allowedFormats []string) *PanoramaHandler {
	return &PanoramaHandler{
		service:        service,
		maxUploadSize:  int64(maxUploadSizeMB) * 1024 * 1024,
		allowedFormats: allowedFormats,
	}
}

func (h *PanoramaHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.POST("/stitch", h.Stitch)
	engine.GET("/panoramas", h.ListPanoramas)
	engine.GET("/panoramas/:id", h.GetPanorama)
	engine.GET("/panoramas/:id/image", h.GetPanoramaImage)
	engine.GET("/panoramas/:id/preview", h.GetPanoramaPreview)
	engine.DELETE("/panoramas/:id", h.DeletePanorama)
}

// Stitch POST /stitch
//
// Accepts a multipart form with two or more files under the "images"
// field and composes them synchronously; the response carries either the
// finished artifact or the reason composition failed.
func (h *PanoramaHandler) Stitch(c *ginext.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadSize); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to parse multipart form")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Could not parse the upload form",
		})
		return
	}

	form := c.Request.MultipartForm
	if form == nil || len(form.File["images"]) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "No image files provided in the 'images' field",
		})
		return
	}

	sources, closeSources, err := h.collectSources(form.File["images"])
	defer closeSources()
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	pano, err := h.service.Compose(c.Request.Context(), sources)
	if err != nil {
		h.writeComposeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPanoramaToResponse(pano, h.getBaseURL(c)))
}

// collectSources validates the uploaded parts and opens the usable ones.
// The returned closer releases every opened file and is safe to call even
// when an error is returned.
func (h *PanoramaHandler) collectSources(headers []*multipart.FileHeader) ([]domain.SourceFile, func(), error) {
	var openFiles []io.Closer
	closeAll := func() {
		for _, f := range openFiles {
			f.Close()
		}
	}

	sources := make([]domain.SourceFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > h.maxUploadSize {
			return nil, closeAll, fmt.Errorf("%w: %s exceeds the %d MB limit",
				domain.ErrFileTooLarge, header.Filename, h.maxUploadSize/(1024*1024))
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !h.isAllowedFormat(ext) {
			// Disallowed extensions are dropped, not fatal; the checks
			// below decide whether the request can proceed.
			zlog.Logger.Warn().Str("filename", header.Filename).Msg("skipping file with disallowed extension")
			continue
		}

		file, err := header.Open()
		if err != nil {
			zlog.Logger.Error().Err(err).Str("filename", header.Filename).Msg("failed to open uploaded file")
			return nil, closeAll, fmt.Errorf("open upload %s: %w", header.Filename, err)
		}
		openFiles = append(openFiles, file)

		sources = append(sources, domain.SourceFile{
			Filename: header.Filename,
			Size:     header.Size,
			Reader:   file,
		})
	}

	if len(sources) == 0 {
		return nil, closeAll, fmt.Errorf("%w: no uploaded file has an allowed extension (%v)",
			domain.ErrInvalidFormat, h.allowedFormats)
	}
	if len(sources) < 2 {
		return nil, closeAll, fmt.Errorf("%w: got %d usable file(s) (allowed formats: %v)",
			domain.ErrInsufficientImages, len(sources), h.allowedFormats)
	}

	return sources, closeAll, nil
}

func (h *PanoramaHandler) writeUploadError(c *ginext.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file_too_large", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_format", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientImages):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "insufficient_images", Message: err.Error()})
	default:
		zlog.Logger.Error().Err(err).Msg("failed to read uploaded files")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "upload_failed",
			Message: "Failed to read uploaded file",
		})
	}
}

func (h *PanoramaHandler) writeComposeError(c *ginext.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientImages):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "insufficient_images", Message: err.Error()})
	case errors.Is(err, domain.ErrStitchingFailed):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "stitching_failed", Message: err.Error()})
	case errors.Is(err, domain.ErrStorageFailed):
		zlog.Logger.Error().Err(err).Msg("failed to store panorama")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "storage_failed",
			Message: "Failed to store the composed panorama",
		})
	default:
		zlog.Logger.Error().Err(err).Msg("failed to compose panorama")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "compose_failed",
			Message: "Failed to compose panorama",
		})
	}
}

// GetPanorama GET /panoramas/:id
func (h *PanoramaHandler) GetPanorama(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Panorama ID is required",
		})
		return
	}

	pano, err := h.service.GetPanorama(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPanoramaNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: "Panorama not found",
			})
			return
		}
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to get panorama")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to retrieve panorama",
		})
		return
	}

	c.JSON(http.StatusOK, dto.MapPanoramaToResponse(pano, h.getBaseURL(c)))
}

// GetPanoramaImage GET /panoramas/:id/image
func (h *PanoramaHandler) GetPanoramaImage(c *ginext.Context) {
	h.serveArtifact(c, false)
}

// GetPanoramaPreview GET /panoramas/:id/preview
func (h *PanoramaHandler) GetPanoramaPreview(c *ginext.Context) {
	h.serveArtifact(c, true)
}

func (h *PanoramaHandler) serveArtifact(c *ginext.Context, preview bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Panorama ID is required",
		})
		return
	}

	var (
		file     io.ReadCloser
		filename string
		err      error
	)
	if preview {
		file, filename, err = h.service.GetPanoramaPreview(c.Request.Context(), id)
	} else {
		file, filename, err = h.service.GetPanoramaImage(c.Request.Context(), id)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPanoramaNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: "No stitched image available",
			})
		case errors.Is(err, domain.ErrArtifactUnavailable):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "not_available",
				Message: "This composition did not produce an image",
			})
		default:
			zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to get panorama artifact")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "server_error",
				Message: "Failed to retrieve image",
			})
		}
		return
	}
	defer file.Close()

	if stat, ok := file.(interface{ Stat() (os.FileInfo, error) }); ok {
		if info, err := stat.Stat(); err == nil {
			c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
		}
	}

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))

	written, err := io.Copy(c.Writer, file)
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("panorama_id", id).
			Int64("bytes_written", written).
			Msg("failed to write image to response")
		return
	}
}

// DeletePanorama DELETE /panoramas/:id
func (h *PanoramaHandler) DeletePanorama(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Panorama ID is required",
		})
		return
	}

	if err := h.service.DeletePanorama(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPanoramaNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: "Panorama not found",
			})
			return
		}
		zlog.Logger.Error().Err(err).Str("panorama_id", id).Msg("failed to delete panorama")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to delete panorama",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPanoramas GET /panoramas
func (h *PanoramaHandler) ListPanoramas(c *ginext.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	panoramas, err := h.service.ListPanoramas(c.Request.Context(), limit, offset)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list panoramas")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to retrieve panoramas",
		})
		return
	}

	c.JSON(http.StatusOK, dto.MapPanoramasToResponse(panoramas, h.getBaseURL(c), limit, offset))
}

// Helper methods

func (h *PanoramaHandler) isAllowedFormat(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range h.allowedFormats {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func (h *PanoramaHandler) getBaseURL(c *ginext.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
