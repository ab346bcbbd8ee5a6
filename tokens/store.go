package tokens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"golang.org/x/oauth2"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// NewTabID returns an opaque identifier unique to one client tab.
func NewTabID() string {
	return "tab_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Key namespaces name by tabID, e.g. "access_token_tab_1234".
func Key(name, tabID string) string {
	return fmt.Sprintf("%s_%s", name, tabID)
}

// TabStore reads and writes the token pair of a single tab. Two stores with different tab ids
// never touch each other's keys, even when they share a Repo.
type TabStore struct {
	repo  Repo
	tabID string
}

func NewTabStore(repo Repo, tabID string) *TabStore {
	if tabID == "" {
		tabID = NewTabID()
	}
	return &TabStore{repo: repo, tabID: tabID}
}

func (s *TabStore) TabID() string {
	return s.tabID
}

// Load returns the stored pair, with Expiry taken from the access token's exp claim when it is a JWT.
// It returns errors.ErrNotFound when no access token is stored.
func (s *TabStore) Load(ctx context.Context) (*oauth2.Token, error) {
	access, err := s.get(ctx, accessTokenKey)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, apperrors.ErrNotFound
	}
	refresh, err := s.get(ctx, refreshTokenKey)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	if exp, ok := Expiry(access); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

// Save writes the access token and, when present, the refresh token. An empty refresh token
// leaves the stored one untouched so non-rotating refreshes keep working.
func (s *TabStore) Save(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return apperrors.Wrapf(apperrors.ErrNoAccessToken, "[TabStore.Save]")
	}
	if err := s.repo.Set(ctx, Key(accessTokenKey, s.tabID), tok.AccessToken); err != nil {
		return apperrors.Wrapf(err, "[TabStore.Save] access token")
	}
	if tok.RefreshToken != "" {
		if err := s.repo.Set(ctx, Key(refreshTokenKey, s.tabID), tok.RefreshToken); err != nil {
			return apperrors.Wrapf(err, "[TabStore.Save] refresh token")
		}
	}
	return nil
}

// Clear removes both tokens of the tab.
func (s *TabStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, Key(accessTokenKey, s.tabID)); err != nil {
		return apperrors.Wrapf(err, "[TabStore.Clear] access token")
	}
	if err := s.repo.Delete(ctx, Key(refreshTokenKey, s.tabID)); err != nil {
		return apperrors.Wrapf(err, "[TabStore.Clear] refresh token")
	}
	return nil
}

// AccessToken returns the stored access token or "".
func (s *TabStore) AccessToken(ctx context.Context) string {
	v, _ := s.get(ctx, accessTokenKey)
	return v
}

// RefreshToken returns the stored refresh token or "".
func (s *TabStore) RefreshToken(ctx context.Context) string {
	v, _ := s.get(ctx, refreshTokenKey)
	return v
}

func (s *TabStore) get(ctx context.Context, name string) (string, error) {
	v, err := s.repo.Get(ctx, Key(name, s.tabID))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "[TabStore] get %s", name)
	}
	return v, nil
}

// Usable reports whether tok can still be sent or refreshed at now: either the access token is
// not known to be expired, or a refresh token is available.
func Usable(tok *oauth2.Token, now time.Time) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.RefreshToken != "" || tok.Expiry.IsZero() {
		return true
	}
	return now.Before(tok.Expiry)
}
