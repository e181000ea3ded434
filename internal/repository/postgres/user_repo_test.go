package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/repository/postgres"
	"github.com/mbeckett/visage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr bool
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "testuser",
				Email:        "testuser@example.com",
				PasswordHash: "hashedpassword",
				Role:         domain.RoleUser,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: false,
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "othername",
				Email:        "testuser@example.com", // Same as above
				PasswordHash: "hashedpassword2",
				Role:         domain.RoleUser,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: true,
		},
		{
			name: "duplicate username",
			user: &domain.User{
				ID:           uuid.New(),
				Username:     "testuser", // Same as above
				Email:        "other@example.com",
				PasswordHash: "hashedpassword3",
				Role:         domain.RoleUser,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("getbyemail@example.com").
		Build(t, testDB.DB)

	got, err := repo.GetByEmail(ctx, "getbyemail@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.Error(t, err)
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("eitherway").
		WithEmail("eitherway@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		username string
		found    bool
	}{
		{name: "matches email", email: "eitherway@example.com", username: "unrelated", found: true},
		{name: "matches username", email: "unrelated@example.com", username: "eitherway", found: true},
		{name: "matches neither", email: "unrelated@example.com", username: "unrelated", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByEmailOrUsername(ctx, tt.email, tt.username)
			if !tt.found {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		})
	}
}

func TestUserRepository_CountByRole(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, testDB.DB)

	users, err := repo.CountByRole(ctx, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	admins, err := repo.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)
}
