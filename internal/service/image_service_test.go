package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/provider"
	"github.com/mbeckett/visage/internal/repository/postgres"
	"github.com/mbeckett/visage/internal/service"
	"github.com/mbeckett/visage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageServiceEnv struct {
	service   *service.ImageService
	db        *testutil.TestDB
	generator *testutil.FakeGenerator
	blobs     *testutil.FakeBlobStore
}

func newImageService(t *testing.T) *imageServiceEnv {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	fakeGenerator := testutil.NewFakeGenerator()
	fakeBlobs := testutil.NewFakeBlobStore()

	return &imageServiceEnv{
		service:   service.NewImageService(repos.Image, fakeGenerator, fakeBlobs, cfg),
		db:        testDB,
		generator: fakeGenerator,
		blobs:     fakeBlobs,
	}
}

func TestImageService_Generate(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	image, err := env.service.Generate(ctx, user.ID, "a cat in a hat")
	require.NoError(t, err)

	assert.Equal(t, user.ID, image.UserID)
	assert.Equal(t, "a cat in a hat", image.Prompt)
	assert.NotEmpty(t, image.ImageURL)
	assert.NotEmpty(t, image.StorageKey)

	meta := image.Metadata.Data()
	assert.Equal(t, "fake-model", meta.Model)
	assert.Equal(t, 768, meta.Width)

	assert.Equal(t, 1, env.blobs.UploadCount())
}

func TestImageService_Generate_EmptyPrompt(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	_, err := env.service.Generate(ctx, user.ID, "")
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
	assert.Equal(t, 0, env.generator.Calls)
}

func TestImageService_Generate_Quota(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	// 9 images in the window: the 10th call still succeeds
	for i := 0; i < 9; i++ {
		testutil.NewImageBuilder(user.ID).Build(t, env.db.DB)
	}
	_, err := env.service.Generate(ctx, user.ID, "the tenth image")
	require.NoError(t, err)

	// 10 in the window: the 11th call fails
	_, err = env.service.Generate(ctx, user.ID, "one too many")
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	// The window slides: age the oldest image past 24h and the call
	// succeeds again
	var oldest domain.GeneratedImage
	require.NoError(t, env.db.DB.
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		First(&oldest).Error)
	require.NoError(t, env.db.DB.Model(&domain.GeneratedImage{}).
		Where("id = ?", oldest.ID).
		Update("created_at", time.Now().Add(-24*time.Hour-time.Second)).Error)

	_, err = env.service.Generate(ctx, user.ID, "allowed again")
	assert.NoError(t, err)
}

func TestImageService_Generate_QuotaIsPerUser(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	heavy, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	light, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	for i := 0; i < 10; i++ {
		testutil.NewImageBuilder(heavy.ID).Build(t, env.db.DB)
	}

	_, err := env.service.Generate(ctx, heavy.ID, "denied")
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	_, err = env.service.Generate(ctx, light.ID, "allowed")
	assert.NoError(t, err)
}

func TestImageService_Generate_ProviderFailure(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	env.generator.Err = errors.New("model exploded")
	_, err := env.service.Generate(ctx, user.ID, "doomed")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)

	// No record, no orphaned blob
	var count int64
	env.db.DB.Model(&domain.GeneratedImage{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, env.blobs.UploadCount())
}

func TestImageService_Generate_ProviderRateLimited(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	env.generator.Err = provider.ErrRateLimited
	_, err := env.service.Generate(ctx, user.ID, "throttled")
	assert.ErrorIs(t, err, domain.ErrProviderRateLimited)
}

func TestImageService_Generate_UploadFailure(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	env.blobs.FailUpload = true
	_, err := env.service.Generate(ctx, user.ID, "unstorable")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)

	// Upload failed after generation succeeded: no dangling DB record
	var count int64
	env.db.DB.Model(&domain.GeneratedImage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImageService_ListOwned(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	other, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	for i := 0; i < 15; i++ {
		testutil.NewImageBuilder(user.ID).
			WithCreatedAt(time.Now().Add(-time.Duration(i) * time.Minute)).
			Build(t, env.db.DB)
	}
	testutil.NewImageBuilder(other.ID).Build(t, env.db.DB)

	page1, pagination, err := env.service.ListOwned(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.Equal(t, 1, pagination.Current)
	assert.Equal(t, int64(2), pagination.Total)
	assert.True(t, pagination.HasMore)

	// Newest first
	for i := 1; i < len(page1); i++ {
		assert.True(t, !page1[i-1].CreatedAt.Before(page1[i].CreatedAt))
	}

	page2, pagination, err := env.service.ListOwned(ctx, user.ID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	assert.False(t, pagination.HasMore)

	// Other users' images never appear
	for _, img := range append(page1, page2...) {
		assert.Equal(t, user.ID, img.UserID)
	}
}

func TestImageService_ListOwned_Defaults(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	testutil.NewImageBuilder(user.ID).Build(t, env.db.DB)

	images, pagination, err := env.service.ListOwned(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, images, 1)
	assert.Equal(t, 1, pagination.Current)
	assert.False(t, pagination.HasMore)
}

func TestImageService_Delete(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, env.db.DB)

	image := testutil.NewImageBuilder(owner.ID).Build(t, env.db.DB)

	// Another user's attempt reads as not found, never revealing existence
	err := env.service.Delete(ctx, stranger.ID, image.ID)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)

	require.NoError(t, env.service.Delete(ctx, owner.ID, image.ID))
	assert.Contains(t, env.blobs.Deleted, image.StorageKey)

	var count int64
	env.db.DB.Model(&domain.GeneratedImage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImageService_Delete_BlobFailureStillRemovesRecord(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	image := testutil.NewImageBuilder(owner.ID).Build(t, env.db.DB)

	env.blobs.FailDelete = true
	require.NoError(t, env.service.Delete(ctx, owner.ID, image.ID))

	// DB consistency wins over storage cleanliness
	var count int64
	env.db.DB.Model(&domain.GeneratedImage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImageService_GetDetails(t *testing.T) {
	env := newImageService(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	image := testutil.NewImageBuilder(owner.ID).Build(t, env.db.DB)

	got, err := env.service.GetDetails(ctx, owner.ID, image.ID)
	require.NoError(t, err)
	assert.Equal(t, image.ID, got.ID)

	_, err = env.service.GetDetails(ctx, stranger.ID, image.ID)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}
