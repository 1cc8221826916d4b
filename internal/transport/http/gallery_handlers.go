package http

import (
	"log/slog"
	"net/http"

	"photoshare/internal/lib/logger/sl"
	gallerysvc "photoshare/internal/services/gallery_service"
	"photoshare/internal/transport/http/dto"
	"photoshare/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CreateGallery godoc
// @Summary Создание галереи
// @Description Создает галерею текущего пользователя. Имя уникально в рамках владельца.
// @Tags galleries
// @Accept json
// @Produce json
// @Param request body dto.CreateGalleryRequest true "Данные галереи"
// @Success 201 {object} dto.GalleryResponse
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Failure 409 {object} response.ErrorResponse "Имя галереи занято"
// @Security ApiKeyAuth
// @Router /api/v1/galleries [post]
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateGalleryRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationErrorResponse("validation_failed", err))
	}

	gallery, err := r.GalleryService.CreateGallery(c.Request().Context(), actorFromContext(c), req.Name, req.Public, req.Category)
	if err != nil {
		return r.respondError(c, err)
	}

	log.Info("gallery created", slog.String("gallery_id", gallery.ID.String()))

	return c.JSON(http.StatusCreated, dto.NewGalleryResponse(gallery))
}

// ListGalleries godoc
// @Summary Витрина и поиск галерей
// @Description Без параметра q отдает витрину по популярности. С q ищет по имени галереи, владельцу и категории.
// @Tags galleries
// @Produce json
// @Param q query string false "Поисковый запрос"
// @Param page query int false "Номер страницы (только при поиске)"
// @Success 200 {object} dto.GalleryPageResponse
// @Router /api/v1/galleries [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	actor := actorFromContext(c)
	query := c.QueryParam("q")

	if query == "" {
		items, err := r.GalleryService.ListGalleries(c.Request().Context(), actor)
		if err != nil {
			return r.respondError(c, err)
		}

		return c.JSON(http.StatusOK, dto.GalleryPageResponse{
			Items:   dto.NewGalleryListResponse(items),
			Page:    1,
			PerPage: len(items),
			Total:   len(items),
		})
	}

	page := pageParam(c)

	items, total, err := r.GalleryService.SearchGalleries(c.Request().Context(), actor, query, page, defaultPerPage)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.GalleryPageResponse{
		Items:   dto.NewGalleryListResponse(items),
		Page:    page,
		PerPage: defaultPerPage,
		Total:   total,
	})
}

// GetGallery godoc
// @Summary Галерея по ID
// @Description Чужая приватная галерея отдается как 404.
// @Tags galleries
// @Produce json
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Success 200 {object} dto.GalleryResponse
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Router /api/v1/galleries/{gallery_id} [get]
func (r *Routers) GetGallery(c echo.Context) error {
	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	gallery, err := r.GalleryService.GetGallery(c.Request().Context(), actorFromContext(c), galleryID)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewGalleryResponse(gallery))
}

// UpdateGallery godoc
// @Summary Изменение галереи
// @Tags galleries
// @Accept json
// @Produce json
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Param request body dto.UpdateGalleryRequest true "Изменяемые поля"
// @Success 200 {object} dto.GalleryResponse
// @Failure 403 {object} response.ErrorResponse "Нет прав на изменение"
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Failure 409 {object} response.ErrorResponse "Имя галереи занято"
// @Security ApiKeyAuth
// @Router /api/v1/galleries/{gallery_id} [patch]
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	var req dto.UpdateGalleryRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationErrorResponse("validation_failed", err))
	}

	gallery, err := r.GalleryService.UpdateGallery(c.Request().Context(), actorFromContext(c), galleryID, gallerysvc.UpdateInput{
		Name:        req.Name,
		Public:      req.Public,
		CategoryRef: req.Category,
	})
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewGalleryResponse(gallery))
}

// DeleteGallery godoc
// @Summary Удаление галереи
// @Description Удаляет галерею со всеми фотографиями и их файлами.
// @Tags galleries
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Success 204 "Галерея удалена"
// @Failure 403 {object} response.ErrorResponse "Нет прав на удаление"
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Security ApiKeyAuth
// @Router /api/v1/galleries/{gallery_id} [delete]
func (r *Routers) DeleteGallery(c echo.Context) error {
	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	if err := r.GalleryService.DeleteGallery(c.Request().Context(), actorFromContext(c), galleryID); err != nil {
		return r.respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RelatedGalleries godoc
// @Summary Похожие галереи
// @Description Публичные галереи той же категории, отсортированные по просмотрам.
// @Tags galleries
// @Produce json
// @Param gallery_id path string true "UUID галереи" format(uuid)
// @Success 200 {object} response.Response{data=[]dto.GalleryListItemResponse}
// @Failure 404 {object} response.ErrorResponse "Галерея не найдена"
// @Router /api/v1/galleries/{gallery_id}/related [get]
func (r *Routers) RelatedGalleries(c echo.Context) error {
	const relatedLimit = 6

	galleryID, err := uuid.Parse(c.Param("gallery_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid gallery ID format"))
	}

	items, err := r.GalleryService.RelatedGalleries(c.Request().Context(), actorFromContext(c), galleryID, relatedLimit)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewGalleryListResponse(items)))
}

// ListCategories godoc
// @Summary Каталог категорий
// @Tags categories
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Router /api/v1/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.CategoryService.List()))
}

// TopCategories godoc
// @Summary Популярные категории
// @Description Категории с наибольшим числом публичных галерей.
// @Tags categories
// @Produce json
// @Success 200 {object} response.Response{data=[]models.CategoryCount}
// @Router /api/v1/categories/top [get]
func (r *Routers) TopCategories(c echo.Context) error {
	const topLimit = 10

	counts, err := r.GalleryService.TopCategories(c.Request().Context(), topLimit)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(counts))
}
