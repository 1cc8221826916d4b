package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/services/access"
	gallerysvc "photoshare/internal/services/gallery_service"
	photosvc "photoshare/internal/services/photo_service"
	usersvc "photoshare/internal/services/user_service"
	"photoshare/internal/storage"
	"photoshare/internal/transport/http/dto"
	"photoshare/internal/transport/http/dto/request"
	"photoshare/internal/transport/http/dto/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const defaultPerPage = 25

type UserService interface {
	Login(ctx context.Context, identifier, password string) (models.User, error)
	RegisterNewUser(ctx context.Context, username, email, password string) (uuid.UUID, error)
	IsStaff(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type AuthService interface {
	GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type GalleryService interface {
	CreateGallery(ctx context.Context, actor models.Actor, name string, public bool, categoryRef string) (models.Gallery, error)
	GetGallery(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Gallery, error)
	UpdateGallery(ctx context.Context, actor models.Actor, id uuid.UUID, input gallerysvc.UpdateInput) (models.Gallery, error)
	DeleteGallery(ctx context.Context, actor models.Actor, id uuid.UUID) error
	ListGalleries(ctx context.Context, actor models.Actor) ([]models.GalleryListItem, error)
	SearchGalleries(ctx context.Context, actor models.Actor, query string, page, perPage int) ([]models.GalleryListItem, int, error)
	RelatedGalleries(ctx context.Context, actor models.Actor, galleryID uuid.UUID, limit int) ([]models.GalleryListItem, error)
	TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error)
}

type PhotoService interface {
	AddPhoto(ctx context.Context, actor models.Actor, galleryID uuid.UUID, title string, file *multipart.FileHeader, tags []string, asCover bool) (models.Photo, error)
	GetPhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Photo, models.RateSummary, error)
	DownloadPhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Photo, string, string, error)
	ListGalleryPhotos(ctx context.Context, actor models.Actor, galleryID uuid.UUID, page, perPage int) ([]models.Photo, int, error)
	DeletePhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (bool, error)
	SetCover(ctx context.Context, actor models.Actor, id uuid.UUID) error
	RatePhoto(ctx context.Context, actor models.Actor, photoID uuid.UUID, liked, starred bool) (models.RateSummary, error)
}

type CategoryService interface {
	List() []models.Category
	Resolve(ref string) (models.Category, error)
}

type Routers struct {
	log             *slog.Logger
	UserService     UserService
	AuthService     AuthService
	GalleryService  GalleryService
	PhotoService    PhotoService
	CategoryService CategoryService
}

func NewRouter(log *slog.Logger, userService UserService, authService AuthService, galleryService GalleryService, photoService PhotoService, categoryService CategoryService) *Routers {
	return &Routers{
		log:             log,
		UserService:     userService,
		AuthService:     authService,
		GalleryService:  galleryService,
		PhotoService:    photoService,
		CategoryService: categoryService,
	}
}

// respondError переводит доменные ошибки в HTTP-статусы. Приватные
// ресурсы чужих пользователей отдаются как 404, а не 403.
func (r *Routers) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	case errors.Is(err, access.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, storage.ErrGalleryNotFound),
		errors.Is(err, storage.ErrPhotoNotFound),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, usersvc.ErrUserNotFound),
		errors.Is(err, storage.ErrCategoryNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, storage.ErrGalleryExists):
		return c.JSON(http.StatusConflict, response.ErrorResponseWithDetails("gallery_name_taken", "You already have a gallery with this name"))
	case errors.Is(err, storage.ErrPhotoTitleTaken):
		return c.JSON(http.StatusConflict, response.ErrorResponseWithDetails("photo_title_taken", "This gallery already has a photo with this title"))
	case errors.Is(err, gallerysvc.ErrInvalidGalleryName),
		errors.Is(err, photosvc.ErrInvalidPhotoTitle),
		errors.Is(err, photosvc.ErrMissingImage):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	case errors.Is(err, storage.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails("file_too_large", "Uploaded file exceeds the size limit"))
	case errors.Is(err, storage.ErrInvalidFileType):
		return c.JSON(http.StatusUnsupportedMediaType, response.ErrorResponseWithDetails("unsupported_file_type", "Unsupported file type"))
	default:
		r.log.Error("request failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Вход по имени пользователя или email. Возвращает пару JWT-токенов.
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=map[string]string} "Успешный вход (токены)"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("identifier", req.Identifier))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	user, err := r.UserService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	tokens, err := r.AuthService.GenerateTokens(c.Request().Context(), user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	// Сессия нужна только для служебных разделов (/debug).
	if sess, err := session.Get("session", c); err == nil {
		sess.Values["user_id"] = user.ID.String()
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to save session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: map[string]string{
			"user_id":       tokens.UserID.String(),
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
		},
	})
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создание аккаунта. Возвращает ID пользователя.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Данные для регистрации"
// @Success 201 {object} response.Response{data=object{user_id=string}} "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UserRegisterInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRegisterRequest)
	}

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, validationErrorResponse("invalid_register_request", err))
	}

	userID, err := r.UserService.RegisterNewUser(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserExist) || errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", slog.String("username", req.Username))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("user registered successfully", slog.String("user_id", userID.String()))

	return c.JSON(http.StatusCreated, response.Response{
		Status: "success",
		Data: map[string]uuid.UUID{
			"user_id": userID,
		},
	})
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Description Ротация refresh-токена: старый отзывается, выдается новая пара.
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh-токен"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} response.ErrorResponse "Невалидный refresh-токен"
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		log.Error("validation bind", sl.Err(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	newTokens, err := r.AuthService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Error("error refresh tokens", sl.Err(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, newTokens)
}

// IsStaffPermission godoc
// @Summary Проверка служебного статуса пользователя
// @Description Проверяет, входит ли пользователь в персонал сервиса
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path string true "UUID пользователя" format(uuid)
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorResponse "Невалидный UUID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security ApiKeyAuth
// @Router /api/v1/users/{user_id}/is-staff [get]
func (r *Routers) IsStaffPermission(c echo.Context) error {
	const op = "http.routers.IsStaffPermission"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		log.Error("error parse uuid", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid user ID format"))
	}

	isStaff, err := r.UserService.IsStaff(c.Request().Context(), userID)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"is_staff": isStaff,
	})
}

// GetUserByID godoc
// @Summary Информация о пользователе
// @Tags users
// @Produce json
// @Param user_id path string true "UUID пользователя" format(uuid)
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security ApiKeyAuth
// @Router /api/v1/users/{user_id} [get]
func (r *Routers) GetUserByID(c echo.Context) error {
	const op = "http.routers.GetUserByID"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		log.Error("error parse uuid", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_uuid", "invalid user ID format"))
	}

	user, err := r.UserService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return r.respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Logout godoc
// @Summary Выход из аккаунта
// @Description Отзывает все refresh-токены пользователя.
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Требуется аутентификация"
// @Security ApiKeyAuth
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	actor := actorFromContext(c)
	if actor.IsAnonymous() {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	if err := r.AuthService.Logout(c.Request().Context(), actor.ID); err != nil {
		log.Error("failed to revoke tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if sess, err := session.Get("session", c); err == nil {
		delete(sess.Values, "user_id")
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to save session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// validationErrorResponse раскладывает ошибки валидатора по полям,
// чтобы клиент мог подсветить конкретные поля формы.
func validationErrorResponse(code string, err error) response.ErrorResponse {
	resp := response.ErrorResponseWithDetails(code, err.Error())

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	}

	return resp
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
