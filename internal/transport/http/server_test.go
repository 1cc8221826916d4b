package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photoshare/internal/domain/models"
	libjwt "photoshare/internal/lib/jwt"
	gallerysvc "photoshare/internal/services/gallery_service"
	usersvc "photoshare/internal/services/user_service"
	"photoshare/internal/storage"
	"photoshare/internal/transport/http/dto/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, identifier, password string) (models.User, error) {
	args := m.Called(ctx, identifier, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) RegisterNewUser(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserService) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) CreateGallery(ctx context.Context, actor models.Actor, name string, public bool, categoryRef string) (models.Gallery, error) {
	args := m.Called(ctx, actor, name, public, categoryRef)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) GetGallery(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Gallery, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) UpdateGallery(ctx context.Context, actor models.Actor, id uuid.UUID, input gallerysvc.UpdateInput) (models.Gallery, error) {
	args := m.Called(ctx, actor, id, input)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) DeleteGallery(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockGalleryService) ListGalleries(ctx context.Context, actor models.Actor) ([]models.GalleryListItem, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]models.GalleryListItem), args.Error(1)
}

func (m *MockGalleryService) SearchGalleries(ctx context.Context, actor models.Actor, query string, page, perPage int) ([]models.GalleryListItem, int, error) {
	args := m.Called(ctx, actor, query, page, perPage)
	return args.Get(0).([]models.GalleryListItem), args.Int(1), args.Error(2)
}

func (m *MockGalleryService) RelatedGalleries(ctx context.Context, actor models.Actor, galleryID uuid.UUID, limit int) ([]models.GalleryListItem, error) {
	args := m.Called(ctx, actor, galleryID, limit)
	return args.Get(0).([]models.GalleryListItem), args.Error(1)
}

func (m *MockGalleryService) TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.CategoryCount), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetGallery(t *testing.T) {
	svc := new(MockGalleryService)
	routers := &Routers{log: slog.Default(), GalleryService: svc}

	galleryID := uuid.New()

	t.Run("found", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/api/v1/galleries/"+galleryID.String(), "")
		c.SetParamNames("gallery_id")
		c.SetParamValues(galleryID.String())

		svc.On("GetGallery", mock.Anything, models.Actor{}, galleryID).
			Return(models.Gallery{ID: galleryID, Name: "Trips", Public: true}, nil).Once()

		require.NoError(t, routers.GetGallery(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Trips", resp["name"])
	})

	t.Run("hidden private gallery is a 404", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/api/v1/galleries/"+galleryID.String(), "")
		c.SetParamNames("gallery_id")
		c.SetParamValues(galleryID.String())

		svc.On("GetGallery", mock.Anything, models.Actor{}, galleryID).
			Return(models.Gallery{}, storage.ErrGalleryNotFound).Once()

		require.NoError(t, routers.GetGallery(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/api/v1/galleries/not-a-uuid", "")
		c.SetParamNames("gallery_id")
		c.SetParamValues("not-a-uuid")

		require.NoError(t, routers.GetGallery(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	svc.AssertExpectations(t)
}

func TestCreateGallery_Validation(t *testing.T) {
	svc := new(MockGalleryService)
	routers := &Routers{log: slog.Default(), GalleryService: svc}

	t.Run("name shorter than 3 characters", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/api/v1/galleries", `{"name":"ab"}`)

		require.NoError(t, routers.CreateGallery(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "validation_failed", resp.Error)
		assert.Equal(t, "min", resp.Fields["Name"])
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/api/v1/galleries", `{"name":"Summer trip","public":true}`)

		svc.On("CreateGallery", mock.Anything, models.Actor{}, "Summer trip", true, "").
			Return(models.Gallery{}, storage.ErrGalleryExists).Once()

		require.NoError(t, routers.CreateGallery(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	svc.AssertExpectations(t)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc := new(MockUserService)
	routers := &Routers{log: slog.Default(), UserService: svc}

	userID := uuid.New()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/"+userID.String(), "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	svc.On("GetUserByID", mock.Anything, userID).
		Return(models.User{}, fmt.Errorf("services.user_service.GetUserByID: %w", usersvc.ErrUserNotFound)).Once()

	require.NoError(t, routers.GetUserByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestIsStaffPermission_NotFound(t *testing.T) {
	svc := new(MockUserService)
	routers := &Routers{log: slog.Default(), UserService: svc}

	userID := uuid.New()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/"+userID.String()+"/is-staff", "")
	c.SetParamNames("user_id")
	c.SetParamValues(userID.String())

	svc.On("IsStaff", mock.Anything, userID).
		Return(false, fmt.Errorf("services.user_service.IsStaff: %w", usersvc.ErrUserNotFound)).Once()

	require.NoError(t, routers.IsStaffPermission(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	svc := new(MockUserService)
	routers := &Routers{log: slog.Default(), UserService: svc}

	body := `{"username":"alice","email":"alice@example.com","password":"secret-pass"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/register", body)

	svc.On("RegisterNewUser", mock.Anything, "alice", "alice@example.com", "secret-pass").
		Return(uuid.Nil, fmt.Errorf("services.user_service.RegisterNewUser: %w", usersvc.ErrUserExist)).Once()

	require.NoError(t, routers.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	svc.AssertExpectations(t)
}

func TestParseActor(t *testing.T) {
	const secret = "test-secret"

	user := models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		IsStaff:  true,
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := libjwt.NewToken(user, secret, time.Hour)
		require.NoError(t, err)

		actor := parseActor("Bearer "+token, secret)
		assert.True(t, actor.Authenticated)
		assert.Equal(t, user.ID, actor.ID)
		assert.True(t, actor.IsStaff)
	})

	t.Run("missing header", func(t *testing.T) {
		actor := parseActor("", secret)
		assert.True(t, actor.IsAnonymous())
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := libjwt.NewToken(user, "other-secret", time.Hour)
		require.NoError(t, err)

		actor := parseActor("Bearer "+token, secret)
		assert.True(t, actor.IsAnonymous())
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := libjwt.NewToken(user, secret, -time.Minute)
		require.NoError(t, err)

		actor := parseActor("Bearer "+token, secret)
		assert.True(t, actor.IsAnonymous())
	})

	t.Run("garbage token", func(t *testing.T) {
		actor := parseActor("Bearer not.a.token", secret)
		assert.True(t, actor.IsAnonymous())
	})
}
