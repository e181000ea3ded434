package handlers_test

import (
	"net/http"
	"testing"

	"github.com/mbeckett/visage/internal/domain"
	"github.com/mbeckett/visage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_GetStats(t *testing.T) {
	ts := testutil.NewTestServer(t)

	admin, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, ts.DB.DB)
	alice, _ := testutil.NewUserBuilder().WithUsername("stats_alice").Build(t, ts.DB.DB)
	testutil.NewImageBuilder(alice.ID).Build(t, ts.DB.DB)

	resp := authedRequest(t, http.MethodGet, ts.URL("/admin/stats"), ts.LoginToken(t, admin), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		UserCount    int64 `json:"userCount"`
		ImageCount   int64 `json:"imageCount"`
		RecentImages []struct {
			Username string `json:"username"`
			ImageURL string `json:"imageUrl"`
		} `json:"recentImages"`
	}
	decodeJSON(t, resp, &result)
	assert.Equal(t, int64(1), result.UserCount)
	assert.Equal(t, int64(1), result.ImageCount)
	require.Len(t, result.RecentImages, 1)
	assert.Equal(t, "stats_alice", result.RecentImages[0].Username)
}

func TestAdminHandler_GetStats_Forbidden(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := authedRequest(t, http.MethodGet, ts.URL("/admin/stats"), ts.LoginToken(t, user), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminHandler_GetStats_Unauthenticated(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL("/admin/stats"), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
