package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/repository/postgres"
	"github.com/mbeckett/visage/internal/service"
	"github.com/mbeckett/visage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_GetStats(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	adminService := service.NewAdminService(repos.User, repos.Image)
	ctx := context.Background()

	// Admins are excluded from the user count
	testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, testDB.DB)
	alice, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithUsername("bob").Build(t, testDB.DB)

	for i := 0; i < 8; i++ {
		testutil.NewImageBuilder(alice.ID).
			WithCreatedAt(time.Now().Add(-time.Duration(i+10) * time.Minute)).
			Build(t, testDB.DB)
	}
	for i := 0; i < 4; i++ {
		testutil.NewImageBuilder(bob.ID).
			WithCreatedAt(time.Now().Add(-time.Duration(i) * time.Minute)).
			Build(t, testDB.DB)
	}

	stats, err := adminService.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.UserCount)
	assert.Equal(t, int64(12), stats.ImageCount)
	require.Len(t, stats.RecentImages, 10)

	// Newest first, across all owners, with the owner loaded
	for i := 1; i < len(stats.RecentImages); i++ {
		assert.True(t, !stats.RecentImages[i-1].CreatedAt.Before(stats.RecentImages[i].CreatedAt))
	}
	require.NotNil(t, stats.RecentImages[0].User)
	assert.Equal(t, "bob", stats.RecentImages[0].User.Username)
}

func TestAdminService_GetStats_Empty(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	adminService := service.NewAdminService(repos.User, repos.Image)

	stats, err := adminService.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.UserCount)
	assert.Equal(t, int64(0), stats.ImageCount)
	assert.Empty(t, stats.RecentImages)
}
