package sessions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-course-client/apiclient"
	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/internal/fakebackend"
	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/jrsteele09/go-course-client/sessions"
	"github.com/jrsteele09/go-course-client/tokens"
	tokenrepofake "github.com/jrsteele09/go-course-client/tokens/repofake"
	"github.com/jrsteele09/go-course-client/users"
)

const (
	instructorName = "instructor1"
	studentName    = "student1"
	testPassword   = "Password123"
)

type testFixture struct {
	backend *fakebackend.Backend
	repo    *tokenrepofake.FakeTokenRepo
	store   *tokens.TabStore
	nav     *navigation.History
	client  *apiclient.Client
	manager *sessions.Manager
}

func setupTestFixture(t *testing.T, start string, options ...sessions.ManagerOption) *testFixture {
	t.Helper()

	f := &testFixture{
		backend: fakebackend.New(),
		repo:    tokenrepofake.NewFakeTokenRepo(),
		nav:     navigation.NewHistory(start),
	}
	f.backend.AddUser(instructorName, testPassword, "instructor1@example.com", users.RoleInstructor)
	f.backend.AddUser(studentName, testPassword, "student1@example.com", users.RoleStudent)
	server := httptest.NewServer(f.backend)
	t.Cleanup(server.Close)

	f.store = tokens.NewTabStore(f.repo, "tab_a")
	client, err := apiclient.New(server.URL, f.store, f.nav, apiclient.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	f.client = client

	options = append([]sessions.ManagerOption{sessions.WithLogger(zerolog.Nop())}, options...)
	manager, err := sessions.New(client, f.nav, options...)
	require.NoError(t, err)
	f.manager = manager
	t.Cleanup(manager.Close)
	return f
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := sessions.New(nil, navigation.NewHistory("/"))
	require.Error(t, err)
}

func TestInitWithoutTokens(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRoot)
	require.True(t, f.manager.State().Loading)

	require.NoError(t, f.manager.Init(context.Background()))

	state := f.manager.State()
	require.False(t, state.Loading)
	require.Nil(t, state.User)
	require.Equal(t, sessions.StatusAnonymous, state.Status)
	require.Equal(t, "tab_a", state.TabID)
	require.Equal(t, 0, f.backend.TotalCalls())
}

func TestLoginRedirectsStaffToAdmin(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Init(ctx))

	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))

	state := f.manager.State()
	require.Equal(t, sessions.StatusAuthenticated, state.Status)
	require.Equal(t, instructorName, state.User.Username)
	require.Empty(t, state.Error)
	require.NotEmpty(t, f.store.AccessToken(ctx))
	require.NotEmpty(t, f.store.RefreshToken(ctx))
	require.Equal(t, navigation.RouteAdmin, f.nav.CurrentPath())
	require.Equal(t, 1, f.backend.Calls(http.MethodGet, apiclient.RouteCurrentUser))
}

func TestLoginRedirectsStudentToDashboard(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRoot)
	require.NoError(t, f.manager.Login(context.Background(), studentName, testPassword))
	require.Equal(t, navigation.RouteDashboard, f.nav.CurrentPath())
}

func TestLoginDoesNotRedirectFromOtherPages(t *testing.T) {
	f := setupTestFixture(t, "/courses/12")
	require.NoError(t, f.manager.Login(context.Background(), instructorName, testPassword))
	require.Equal(t, "/courses/12", f.nav.CurrentPath())
	require.Equal(t, []string{"/courses/12"}, f.nav.Entries())
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()

	err := f.manager.Login(ctx, instructorName, "wrong")
	require.Error(t, err)
	require.Equal(t, apperrors.KindRemote, apperrors.KindOf(err))

	state := f.manager.State()
	require.Equal(t, "Unable to log in with provided credentials.", state.Error)
	require.Equal(t, apperrors.KindRemote, state.ErrorKind)
	require.Equal(t, sessions.StatusAnonymous, state.Status)
	require.Nil(t, state.User)
	require.Empty(t, f.store.AccessToken(ctx))
	require.Equal(t, 0, f.backend.Calls(http.MethodPost, apiclient.RouteAuthRefresh))
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())
}

func TestNextOperationClearsError(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()

	require.Error(t, f.manager.Login(ctx, instructorName, "wrong"))
	require.NotEmpty(t, f.manager.State().Error)

	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))
	require.Empty(t, f.manager.State().Error)
}

func TestInitRestoresSession(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Login(ctx, studentName, testPassword))

	// a second manager in the same tab picks up the stored tokens
	nav := navigation.NewHistory(navigation.RouteRegister)
	restored, err := sessions.New(f.client, nav, sessions.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer restored.Close()

	require.NoError(t, restored.Init(ctx))
	require.Equal(t, studentName, restored.State().User.Username)
	require.Equal(t, sessions.StatusAuthenticated, restored.State().Status)
	require.Equal(t, navigation.RouteDashboard, nav.CurrentPath())
}

func TestRedirectOnlyOnFirstUser(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))
	require.Equal(t, navigation.RouteAdmin, f.nav.CurrentPath())

	// logging in again replaces a non-nil user and must not redirect
	f.nav.Navigate(navigation.RouteLogin)
	require.NoError(t, f.manager.Login(ctx, studentName, testPassword))
	require.Equal(t, studentName, f.manager.State().User.Username)
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())
}

func TestInitDiscardsExpiredTokenWithoutRefresh(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, navigation.RouteRoot, sessions.WithNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, f.store.Save(ctx, &oauth2.Token{AccessToken: expired}))

	require.NoError(t, f.manager.Init(ctx))
	require.Nil(t, f.manager.State().User)
	require.False(t, f.manager.State().Loading)
	require.Empty(t, f.store.AccessToken(ctx))
	require.Equal(t, 0, f.backend.TotalCalls())
}

func TestInitWithBadTokenEndsAnonymous(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRoot)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, &oauth2.Token{AccessToken: "garbage", RefreshToken: "garbage"}))

	err := f.manager.Init(ctx)
	require.Error(t, err)

	state := f.manager.State()
	require.Nil(t, state.User)
	require.False(t, state.Loading)
	require.Equal(t, sessions.StatusAnonymous, state.Status)
	require.Empty(t, f.store.AccessToken(ctx))
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())
}

func TestSignup(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRegister)
	ctx := context.Background()

	err := f.manager.Signup(ctx, sessions.Registration{Username: "newbie", Email: "newbie@example.com", Password1: "pw123456", Password2: "pw123456"})
	require.NoError(t, err)

	state := f.manager.State()
	require.Equal(t, "Registration successful! Check your email to verify your account.", state.InfoMessage)
	require.Nil(t, state.User)
	require.Empty(t, f.store.AccessToken(ctx))
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())

	// unverified accounts cannot sign in yet
	require.Error(t, f.manager.Login(ctx, "newbie", "pw123456"))
	require.Equal(t, "E-mail is not verified.", f.manager.State().Error)
}

func TestSignupValidation(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRegister)
	ctx := context.Background()

	err := f.manager.Signup(ctx, sessions.Registration{Username: "x", Email: "x@example.com", Password1: "a", Password2: "b"})
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrPasswordsMismatch)
	require.Equal(t, apperrors.KindValidation, f.manager.State().ErrorKind)
	require.Equal(t, "Passwords do not match", f.manager.State().Error)

	err = f.manager.Signup(ctx, sessions.Registration{Username: " ", Email: "x@example.com", Password1: "a", Password2: "a"})
	require.Error(t, err)
	require.Equal(t, "username cannot be blank", f.manager.State().Error)

	require.Equal(t, 0, f.backend.TotalCalls())
	require.Equal(t, navigation.RouteRegister, f.nav.CurrentPath())
}

func TestSignupDuplicateUsername(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteRegister)

	err := f.manager.Signup(context.Background(), sessions.Registration{Username: studentName, Email: "s@example.com", Password1: "pw", Password2: "pw"})
	require.Error(t, err)
	require.Equal(t, "A user with that username already exists.", f.manager.State().Error)
	require.Empty(t, f.manager.State().InfoMessage)
}

func TestResendVerification(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Signup(ctx, sessions.Registration{Username: "newbie", Email: "newbie@example.com", Password1: "pw", Password2: "pw"}))

	require.NoError(t, f.manager.ResendVerification(ctx, "newbie@example.com"))
	require.Equal(t, "Verification email resent. Check your inbox.", f.manager.State().InfoMessage)

	require.Error(t, f.manager.ResendVerification(ctx, "nobody@example.com"))
	require.Equal(t, "No pending verification for this e-mail.", f.manager.State().Error)
	require.Empty(t, f.manager.State().InfoMessage)
}

func TestPasswordResetFlow(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()

	require.NoError(t, f.manager.RequestPasswordReset(ctx, "student1@example.com"))
	require.Equal(t, "Password reset link sent. Check your email.", f.manager.State().InfoMessage)

	token := f.backend.ResetToken("student1@example.com")
	require.NotEmpty(t, token)

	f.nav.Navigate("/reset-password")
	require.NoError(t, f.manager.ConfirmPasswordReset(ctx, token, "NewPassword1"))
	require.Equal(t, "Password reset successful! You may now log in.", f.manager.State().InfoMessage)
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())

	require.NoError(t, f.manager.Login(ctx, studentName, "NewPassword1"))
	require.Equal(t, navigation.RouteDashboard, f.nav.CurrentPath())
}

func TestConfirmPasswordResetInvalidToken(t *testing.T) {
	f := setupTestFixture(t, "/reset-password")

	err := f.manager.ConfirmPasswordReset(context.Background(), "bogus", "pw")
	require.Error(t, err)
	require.Equal(t, "Invalid value", f.manager.State().Error)
	require.Equal(t, "/reset-password", f.nav.CurrentPath())
}

func TestLoginWithGoogle(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	f.backend.AddGoogleToken("google-token", instructorName)
	ctx := context.Background()

	require.Error(t, f.manager.LoginWithGoogle(ctx, "unknown"))
	require.Equal(t, "Incorrect value", f.manager.State().Error)

	require.NoError(t, f.manager.LoginWithGoogle(ctx, "google-token"))
	require.Equal(t, instructorName, f.manager.State().User.Username)
	require.Equal(t, navigation.RouteAdmin, f.nav.CurrentPath())
}

type rejectingVerifier struct{ calls int }

func (v *rejectingVerifier) Verify(context.Context, string) error {
	v.calls++
	return apperrors.ErrInvalidIDToken
}

func TestLoginWithGoogleVerifiesLocally(t *testing.T) {
	verifier := &rejectingVerifier{}
	f := setupTestFixture(t, navigation.RouteLogin, sessions.WithGoogleVerifier(verifier))
	f.backend.AddGoogleToken("google-token", instructorName)

	err := f.manager.LoginWithGoogle(context.Background(), "google-token")
	require.ErrorIs(t, err, apperrors.ErrInvalidIDToken)
	require.Equal(t, apperrors.KindAuth, f.manager.State().ErrorKind)
	require.Equal(t, 1, verifier.calls)
	require.Equal(t, 0, f.backend.Calls(http.MethodPost, apiclient.RouteAuthGoogle))
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))

	cleared := 0
	f.manager.OnLogout(func() { cleared++ })
	removed := 0
	unregister := f.manager.OnLogout(func() { removed++ })
	unregister()

	f.manager.Logout(ctx)

	state := f.manager.State()
	require.Nil(t, state.User)
	require.Equal(t, sessions.StatusAnonymous, state.Status)
	require.Empty(t, f.store.AccessToken(ctx))
	require.Empty(t, f.store.RefreshToken(ctx))
	require.Equal(t, 1, cleared)
	require.Equal(t, 0, removed)
	require.Equal(t, navigation.RouteRoot, f.nav.CurrentPath())
}

func TestRefreshFailureDropsUser(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Init(ctx))
	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))

	cleared := 0
	f.manager.OnLogout(func() { cleared++ })
	f.nav.Navigate("/courses/1")
	f.backend.ExpireAccessTokens()
	f.backend.RevokeRefreshTokens()

	res := f.client.Request(ctx, http.MethodGet, apiclient.RouteCurrentUser, nil)
	require.Equal(t, apperrors.KindAuth, res.Kind())

	state := f.manager.State()
	require.Nil(t, state.User)
	require.Equal(t, sessions.StatusAnonymous, state.Status)
	require.Equal(t, 1, cleared)
	require.Equal(t, navigation.RouteLogin, f.nav.CurrentPath())
}

func TestTabsAreIsolated(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	ctx := context.Background()
	require.NoError(t, f.manager.Login(ctx, instructorName, testPassword))

	other := tokens.NewTabStore(f.repo, "tab_b")
	require.Empty(t, other.AccessToken(ctx))

	f.manager.Logout(ctx)
	require.NoError(t, other.Save(ctx, &oauth2.Token{AccessToken: "b-access", RefreshToken: "b-refresh"}))
	require.Empty(t, f.store.AccessToken(ctx))
	require.Equal(t, "b-access", other.AccessToken(ctx))
}

func TestClosedManagerRejectsOperations(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	f.manager.Close()

	err := f.manager.Login(context.Background(), instructorName, testPassword)
	require.ErrorIs(t, err, apperrors.ErrManagerClosed)
	require.ErrorIs(t, f.manager.Init(context.Background()), apperrors.ErrManagerClosed)
	require.Equal(t, 0, f.backend.TotalCalls())
}

func TestNetworkFailureUsesGenericMessage(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteLogin)
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := apiclient.New(server.URL, f.store, f.nav, apiclient.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	manager, err := sessions.New(client, f.nav, sessions.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	require.Error(t, manager.Login(context.Background(), instructorName, testPassword))
	require.Equal(t, "Login failed. Please try again.", manager.State().Error)
	require.Equal(t, apperrors.KindNetwork, manager.State().ErrorKind)
}
