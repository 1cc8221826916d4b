package http

import (
	"log/slog"
	"net/http"
	"strings"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/transport/http/dto"
	"photoshare/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UploadPhoto godoc
// @Summary Загрузка фотографии
// @Description Загружает файл в галерею. Заголовок уникален в рамках галереи, первое фото становится обложкой.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Param file formData file true "Файл изображения"
// @Param title formData string true "Заголовок фотографии"
// @Param tags formData string false "Теги через запятую"
// @Param is_cover formData boolean false "Сделать обложкой галереи"
// @Success 201 {object} dto.PhotoResponse
// @Failure 400 {object} response.ErrorResponse "Нет файла или заголовка"
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Failure 409 {object} response.ErrorResponse "Заголовок занят"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Security ApiKeyAuth
// @Router /api/v1/galleries/{gallery_id}/photos [post]
func (r *Routers) UploadPhoto(c echo.Context) error {
	const op = "http.routers.UploadPhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", "image file is required"))
	}

	title := c.FormValue("title")
	asCover := c.FormValue("is_cover") == "true"

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	photo, err := r.PhotoService.AddPhoto(c.Request().Context(), actorFromContext(c), galleryID, title, file, tags, asCover)
	if err != nil {
		return r.respondError(c, err)
	}

	log.Info("photo uploaded",
		slog.String("photo_id", photo.ID.String()),
		slog.String("gallery_id", galleryID.String()),
	)

	return c.JSON(http.StatusCreated, dto.NewPhotoResponse(photo, models.RateSummary{}))
}

// GetPhoto godoc
// @Summary Фотография по ID
// @Description Каждый просмотр атомарно увеличивает счетчик.
// @Tags photos
// @Produce json
// @Param photo_id path string true "UUID фотографии" format(uuid)
// @Success 200 {object} dto.PhotoResponse
// @Failure 404 {object} response.ErrorResponse "Фотография не найдена"
// @Router /api/v1/photos/{photo_id} [get]
func (r *Routers) GetPhoto(c echo.Context) error {
	photoID, err := uuid.Parse(c.Param("photo_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid photo ID format"))
	}

	photo, summary, err := r.PhotoService.GetPhoto(c.Request().Context(), actorFromContext(c), photoID)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewPhotoResponse(photo, summary))
}

// DownloadPhoto godoc
// @Summary Скачивание фотографии
// @Description Отдает файл вложением с именем Photoshare_<title>_by_<owner>.jpg.
// @Tags photos
// @Produce octet-stream
// @Param photo_id path string true "UUID фотографии" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse "Фотография не найдена"
// @Router /api/v1/photos/{photo_id}/download [get]
func (r *Routers) DownloadPhoto(c echo.Context) error {
	photoID, err := uuid.Parse(c.Param("photo_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid photo ID format"))
	}

	_, fullPath, filename, err := r.PhotoService.DownloadPhoto(c.Request().Context(), actorFromContext(c), photoID)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.Attachment(fullPath, filename)
}

// ListGalleryPhotos godoc
// @Summary Фотографии галереи
// @Tags photos
// @Produce json
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.PhotoPageResponse
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Router /api/v1/galleries/{gallery_id}/photos [get]
func (r *Routers) ListGalleryPhotos(c echo.Context) error {
	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	page := pageParam(c)

	photos, total, err := r.PhotoService.ListGalleryPhotos(c.Request().Context(), actorFromContext(c), galleryID, page, defaultPerPage)
	if err != nil {
		return r.respondError(c, err)
	}

	items := make([]dto.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		items = append(items, dto.NewPhotoResponse(p, models.RateSummary{}))
	}

	return c.JSON(http.StatusOK, dto.PhotoPageResponse{
		Items:   items,
		Page:    page,
		PerPage: defaultPerPage,
		Total:   total,
	})
}

// DeletePhoto godoc
// @Summary Удаление фотографии
// @Description Последнее фото удаляет и саму галерею.
// @Tags photos
// @Produce json
// @Param photo_id path string true "UUID фотографии" format(uuid)
// @Success 200 {object} response.Response{data=object{gallery_deleted=bool}}
// @Failure 403 {object} response.ErrorResponse "Нет прав на удаление"
// @Failure 404 {object} response.ErrorResponse "Фотография не найдена"
// @Security ApiKeyAuth
// @Router /api/v1/photos/{photo_id} [delete]
func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := uuid.Parse(c.Param("photo_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid photo ID format"))
	}

	galleryDeleted, err := r.PhotoService.DeletePhoto(c.Request().Context(), actorFromContext(c), photoID)
	if err != nil {
		return r.respondError(c, err)
	}

	log.Info("photo deleted", slog.Bool("gallery_deleted", galleryDeleted))

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{
		"gallery_deleted": galleryDeleted,
	}))
}

// SetCover godoc
// @Summary Смена обложки галереи
// @Description Делает фото обложкой своей галереи, прежняя обложка снимается.
// @Tags photos
// @Param photo_id path string true "UUID фотографии" format(uuid)
// @Success 204 "Обложка обновлена"
// @Failure 403 {object} response.ErrorResponse "Нет прав на изменение"
// @Failure 404 {object} response.ErrorResponse "Фотография не найдена"
// @Security ApiKeyAuth
// @Router /api/v1/photos/{photo_id}/cover [post]
func (r *Routers) SetCover(c echo.Context) error {
	photoID, err := uuid.Parse(c.Param("photo_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid photo ID format"))
	}

	if err := r.PhotoService.SetCover(c.Request().Context(), actorFromContext(c), photoID); err != nil {
		return r.respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RatePhoto godoc
// @Summary Оценка фотографии
// @Description Перезаписывает оценку пользователя, дубликаты невозможны.
// @Tags photos
// @Accept json
// @Produce json
// @Param photo_id path string true "UUID фотографии" format(uuid)
// @Param request body dto.RateRequest true "Оценка"
// @Success 200 {object} response.Response{data=models.RateSummary}
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 404 {object} response.ErrorResponse "Фотография не найдена"
// @Security ApiKeyAuth
// @Router /api/v1/photos/{photo_id}/rate [post]
func (r *Routers) RatePhoto(c echo.Context) error {
	const op = "http.routers.RatePhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := uuid.Parse(c.Param("photo_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid photo ID format"))
	}

	var req dto.RateRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	summary, err := r.PhotoService.RatePhoto(c.Request().Context(), actorFromContext(c), photoID, req.Liked, req.Starred)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(summary))
}
