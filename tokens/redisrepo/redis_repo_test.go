package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/tokens"
	"github.com/jrsteele09/go-course-client/tokens/redisrepo"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupRepo(t *testing.T, options ...redisrepo.Option) (*miniredis.Miniredis, *redisrepo.RedisRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	repo, err := redisrepo.New(context.Background(), mr.Addr(), options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return mr, repo
}

func TestRedisRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, repo := setupRepo(t, redisrepo.WithPrefix("cc:"))

	_, err := repo.Get(ctx, "access_token_tab-a")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "access_token_tab-a", "abc"))
	v, err := repo.Get(ctx, "access_token_tab-a")
	require.NoError(t, err)
	require.Equal(t, "abc", v)
	require.True(t, mr.Exists("cc:access_token_tab-a"))

	require.NoError(t, repo.Delete(ctx, "access_token_tab-a"))
	_, err = repo.Get(ctx, "access_token_tab-a")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisRepoTTL(t *testing.T) {
	ctx := context.Background()
	mr, repo := setupRepo(t, redisrepo.WithTTL(time.Minute))

	require.NoError(t, repo.Set(ctx, "refresh_token_tab-a", "r1"))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "refresh_token_tab-a")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisBackedTabStore(t *testing.T) {
	ctx := context.Background()
	_, repo := setupRepo(t)

	a := tokens.NewTabStore(repo, "tab-a")
	b := tokens.NewTabStore(repo, "tab-b")

	require.NoError(t, a.Save(ctx, &oauth2.Token{AccessToken: "access-a", RefreshToken: "refresh-a"}))
	require.Empty(t, b.AccessToken(ctx))
	require.Equal(t, "access-a", a.AccessToken(ctx))
}

func TestNewFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redisrepo.New(context.Background(), addr)
	require.Error(t, err)
}
