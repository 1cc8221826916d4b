package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"testing"

	"photoshare/internal/domain/models"
	"photoshare/internal/services/access"
	"photoshare/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockGalleryRepository) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

func (m *MockGalleryRepository) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGalleryRepository) ListGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, limit int) ([]models.GalleryListItem, error) {
	args := m.Called(ctx, viewerID, viewAll, limit)
	return args.Get(0).([]models.GalleryListItem), args.Error(1)
}

func (m *MockGalleryRepository) SearchGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, query string, categoryCodes []int, page, perPage int) ([]models.GalleryListItem, int, error) {
	args := m.Called(ctx, viewerID, viewAll, query, categoryCodes, page, perPage)
	return args.Get(0).([]models.GalleryListItem), args.Int(1), args.Error(2)
}

func (m *MockGalleryRepository) RelatedGalleries(ctx context.Context, categoryCode int, excludeID, viewerID uuid.UUID, limit int) ([]models.GalleryListItem, error) {
	args := m.Called(ctx, categoryCode, excludeID, viewerID, limit)
	return args.Get(0).([]models.GalleryListItem), args.Error(1)
}

func (m *MockGalleryRepository) TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.CategoryCount), args.Error(1)
}

func (m *MockGalleryRepository) GalleryImagePaths(ctx context.Context, galleryID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, galleryID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGalleryRepository) OwnerUsername(ctx context.Context, galleryID uuid.UUID) (string, error) {
	args := m.Called(ctx, galleryID)
	return args.String(0), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	args := m.Called(ctx, file, subPath)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileStorage) Delete(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

func (m *MockFileStorage) GetFullPath(relativePath string) string {
	args := m.Called(relativePath)
	return args.String(0)
}

func (m *MockFileStorage) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFileStorage) GetBaseDir() string {
	args := m.Called()
	return args.String(0)
}

var testCtx = context.Background()

func newService(repo *MockGalleryRepository, files *MockFileStorage) *GalleryService {
	return NewGalleryService(slog.Default(), repo, files)
}

func authedActor() models.Actor {
	return models.Actor{ID: uuid.New(), Authenticated: true}
}

func TestCreateGallery(t *testing.T) {
	actor := authedActor()

	t.Run("successful creation with category by name", func(t *testing.T) {
		repo := new(MockGalleryRepository)
		service := newService(repo, new(MockFileStorage))

		expectedID := uuid.New()
		repo.On("NameExists", testCtx, actor.ID, "Summer trip", uuid.Nil).Return(false, nil).Once()
		repo.On("CreateGallery", testCtx, mock.MatchedBy(func(g models.Gallery) bool {
			return g.Name == "Summer trip" &&
				g.Slug == "summer-trip" &&
				g.UserID == actor.ID &&
				g.Public &&
				g.CategoryCode != nil
		})).Return(expectedID, nil).Once()

		gallery, err := service.CreateGallery(testCtx, actor, "  Summer   trip ", true, "travel")
		require.NoError(t, err)
		assert.Equal(t, expectedID, gallery.ID)
		assert.Equal(t, "Summer trip", gallery.Name)
		repo.AssertExpectations(t)
	})

	t.Run("anonymous actor", func(t *testing.T) {
		service := newService(new(MockGalleryRepository), new(MockFileStorage))

		_, err := service.CreateGallery(testCtx, models.Actor{}, "Summer trip", true, "")
		assert.ErrorIs(t, err, access.ErrUnauthenticated)
	})

	t.Run("too short name", func(t *testing.T) {
		service := newService(new(MockGalleryRepository), new(MockFileStorage))

		_, err := service.CreateGallery(testCtx, actor, "  ab ", true, "")
		assert.ErrorIs(t, err, ErrInvalidGalleryName)
	})

	t.Run("unknown category", func(t *testing.T) {
		repo := new(MockGalleryRepository)
		service := newService(repo, new(MockFileStorage))

		repo.On("NameExists", testCtx, actor.ID, "Summer trip", uuid.Nil).Return(false, nil).Once()

		_, err := service.CreateGallery(testCtx, actor, "Summer trip", true, "no-such-category")
		assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
	})

	t.Run("duplicate name caught by the pre-check", func(t *testing.T) {
		repo := new(MockGalleryRepository)
		service := newService(repo, new(MockFileStorage))

		repo.On("NameExists", testCtx, actor.ID, "Summer trip", uuid.Nil).Return(true, nil).Once()

		_, err := service.CreateGallery(testCtx, actor, "Summer trip", true, "")
		assert.ErrorIs(t, err, storage.ErrGalleryExists)
		repo.AssertNotCalled(t, "CreateGallery", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name caught by the constraint", func(t *testing.T) {
		// Гонка: проверка прошла, но индекс успел занять другой запрос.
		repo := new(MockGalleryRepository)
		service := newService(repo, new(MockFileStorage))

		repo.On("NameExists", testCtx, actor.ID, "Summer trip", uuid.Nil).Return(false, nil).Once()
		repo.On("CreateGallery", testCtx, mock.Anything).
			Return(uuid.Nil, storage.ErrGalleryExists).Once()

		_, err := service.CreateGallery(testCtx, actor, "Summer trip", true, "")
		assert.ErrorIs(t, err, storage.ErrGalleryExists)
		repo.AssertExpectations(t)
	})
}

func TestGetGallery_Visibility(t *testing.T) {
	owner := authedActor()
	stranger := authedActor()
	staff := models.Actor{ID: uuid.New(), Authenticated: true, IsStaff: true}

	private := models.Gallery{
		ID:     uuid.New(),
		Name:   "Private album",
		UserID: owner.ID,
		Public: false,
	}

	tests := []struct {
		name    string
		actor   models.Actor
		wantErr error
	}{
		{name: "owner sees own private gallery", actor: owner},
		{name: "staff sees any gallery", actor: staff},
		{name: "stranger gets not found", actor: stranger, wantErr: storage.ErrGalleryNotFound},
		{name: "anonymous gets not found", actor: models.Actor{}, wantErr: storage.ErrGalleryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockGalleryRepository)
			service := newService(repo, new(MockFileStorage))

			repo.On("GetGalleryByID", testCtx, private.ID).Return(private, nil).Once()

			_, err := service.GetGallery(testCtx, tt.actor, private.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateGallery_PermissionDenied(t *testing.T) {
	owner := authedActor()
	stranger := authedActor()

	public := models.Gallery{
		ID:     uuid.New(),
		Name:   "Street photos",
		UserID: owner.ID,
		Public: true,
	}

	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	repo.On("GetGalleryByID", testCtx, public.ID).Return(public, nil).Once()

	newName := "Renamed"
	_, err := service.UpdateGallery(testCtx, stranger, public.ID, UpdateInput{Name: &newName})
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
	repo.AssertExpectations(t)
}

func TestUpdateGallery_DuplicateName(t *testing.T) {
	owner := authedActor()
	gallery := models.Gallery{
		ID:     uuid.New(),
		Name:   "Street photos",
		UserID: owner.ID,
		Public: true,
	}

	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	repo.On("GetGalleryByID", testCtx, gallery.ID).Return(gallery, nil).Once()
	repo.On("NameExists", testCtx, owner.ID, "Night walks", gallery.ID).Return(true, nil).Once()

	taken := "Night walks"
	_, err := service.UpdateGallery(testCtx, owner, gallery.ID, UpdateInput{Name: &taken})
	assert.ErrorIs(t, err, storage.ErrGalleryExists)
	repo.AssertNotCalled(t, "UpdateGallery", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdateGallery_ClearCategory(t *testing.T) {
	owner := authedActor()
	code := 45
	gallery := models.Gallery{
		ID:           uuid.New(),
		Name:         "Travel shots",
		UserID:       owner.ID,
		Public:       true,
		CategoryCode: &code,
	}

	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	repo.On("GetGalleryByID", testCtx, gallery.ID).Return(gallery, nil).Once()
	repo.On("UpdateGallery", testCtx, mock.MatchedBy(func(g models.Gallery) bool {
		return g.CategoryCode == nil
	})).Return(nil).Once()

	empty := ""
	updated, err := service.UpdateGallery(testCtx, owner, gallery.ID, UpdateInput{CategoryRef: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryCode)
	repo.AssertExpectations(t)
}

func TestDeleteGallery_RemovesFiles(t *testing.T) {
	owner := authedActor()
	gallery := models.Gallery{
		ID:     uuid.New(),
		Name:   "Old stuff",
		UserID: owner.ID,
	}

	repo := new(MockGalleryRepository)
	files := new(MockFileStorage)
	service := newService(repo, files)

	paths := []string{"photos/a.jpg", "photos/b.jpg"}

	repo.On("GetGalleryByID", testCtx, gallery.ID).Return(gallery, nil).Once()
	repo.On("GalleryImagePaths", testCtx, gallery.ID).Return(paths, nil).Once()
	repo.On("DeleteGallery", testCtx, gallery.ID).Return(nil).Once()
	files.On("Delete", testCtx, "photos/a.jpg").Return(nil).Once()
	files.On("Delete", testCtx, "photos/b.jpg").Return(nil).Once()

	err := service.DeleteGallery(testCtx, owner, gallery.ID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestListGalleries_AnonymousCached(t *testing.T) {
	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	items := []models.GalleryListItem{
		{Gallery: models.Gallery{ID: uuid.New(), Name: "Top gallery", Public: true}},
	}

	// Репозиторий должен быть вызван один раз, второй ответ идет из кэша.
	repo.On("ListGalleries", testCtx, uuid.Nil, false, trendingLimit).Return(items, nil).Once()

	first, err := service.ListGalleries(testCtx, models.Actor{})
	require.NoError(t, err)

	second, err := service.ListGalleries(testCtx, models.Actor{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestListGalleries_AuthenticatedBypassesCache(t *testing.T) {
	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	actor := authedActor()

	repo.On("ListGalleries", testCtx, actor.ID, false, trendingLimit).
		Return([]models.GalleryListItem{}, nil).Twice()

	_, err := service.ListGalleries(testCtx, actor)
	require.NoError(t, err)
	_, err = service.ListGalleries(testCtx, actor)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestSearchGalleries_CategoryCodes(t *testing.T) {
	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	actor := authedActor()

	// "landscape" совпадает со slug категории, коды должны уйти в запрос.
	repo.On("SearchGalleries", testCtx, actor.ID, false, "landscape", mock.MatchedBy(func(codes []int) bool {
		return len(codes) > 0
	}), 1, 25).Return([]models.GalleryListItem{}, 0, nil).Once()

	_, _, err := service.SearchGalleries(testCtx, actor, " landscape ", 0, 25)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRelatedGalleries_NoCategory(t *testing.T) {
	owner := authedActor()
	gallery := models.Gallery{
		ID:     uuid.New(),
		Name:   "Uncategorized",
		UserID: owner.ID,
		Public: true,
	}

	repo := new(MockGalleryRepository)
	service := newService(repo, new(MockFileStorage))

	repo.On("GetGalleryByID", testCtx, gallery.ID).Return(gallery, nil).Once()

	items, err := service.RelatedGalleries(testCtx, owner, gallery.ID, 6)
	require.NoError(t, err)
	assert.Empty(t, items)
	repo.AssertExpectations(t)
}
