package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-course-client/apiclient"
	"github.com/jrsteele09/go-course-client/courses"
	"github.com/jrsteele09/go-course-client/internal/config"
	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/jrsteele09/go-course-client/sessions"
	"github.com/jrsteele09/go-course-client/tokens"
	"github.com/jrsteele09/go-course-client/tokens/redisrepo"
	tokenrepofake "github.com/jrsteele09/go-course-client/tokens/repofake"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("coursectl failed")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	loadEnv(".env")
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := newTokenRepo(ctx, c)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := tokens.NewTabStore(repo, c.GetTabID())
	nav := navigation.NewHistory(navigation.RouteLogin)
	client, err := apiclient.New(c.GetBaseURL(), store, nav,
		apiclient.WithTimeout(c.GetRequestTimeout()),
		apiclient.WithRefreshCoalescing(c.GetCoalesceRefresh()))
	if err != nil {
		return fmt.Errorf("apiclient.New: %w", err)
	}

	manager, err := newSessionManager(ctx, c, client, nav)
	if err != nil {
		return err
	}
	defer manager.Close()

	if err := signIn(ctx, c, manager); err != nil {
		return err
	}

	doc, err := loadDocument(c.GetCourseFile())
	if err != nil {
		return err
	}

	reconciler, err := courses.NewReconciler(courses.NewHTTPAPI(client))
	if err != nil {
		return fmt.Errorf("courses.NewReconciler: %w", err)
	}
	editor, err := courses.NewEditor(reconciler, doc.draft())
	if err != nil {
		return fmt.Errorf("courses.NewEditor: %w", err)
	}
	defer editor.Close()

	report, saveErr := editor.Save(ctx)
	for _, msg := range report.Errors {
		log.Warn().Msg(msg)
	}
	log.Info().
		Int("modules", report.SavedModules).
		Int("lessons", report.SavedLessons).
		Str("outcome", string(report.Outcome)).
		Msg("course saved")

	if err := saveDocument(c.GetCourseFile(), editor.Draft()); err != nil {
		return err
	}
	if report.Outcome == courses.OutcomeFailed {
		return saveErr
	}

	if c.GetPublish() {
		if err := editor.Publish(ctx); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		if err := saveDocument(c.GetCourseFile(), editor.Draft()); err != nil {
			return err
		}
		log.Info().Str("course", editor.Draft().Course.ID.String()).Msg("course published")
	}
	return nil
}

// loadEnv reads path into the environment before any configuration is read, unless the process
// already runs in production. Variables set in the process win over the file.
func loadEnv(path string) {
	if strings.EqualFold(os.Getenv("ENV"), "PRODUCTION") {
		return
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", path).Msg("failed to load env file")
	}
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if strings.EqualFold(c.GetEnv(), "DEV") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newTokenRepo(ctx context.Context, c config.Config) (tokens.Repo, func(), error) {
	switch c.GetTokenStore() {
	case config.TokenStoreRedis:
		repo, err := redisrepo.New(ctx, c.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("redisrepo.New: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.TokenStoreMemory:
		return tokenrepofake.NewFakeTokenRepo(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", c.GetTokenStore())
	}
}

func newSessionManager(ctx context.Context, c config.Config, client *apiclient.Client, nav navigation.Navigator) (*sessions.Manager, error) {
	var options []sessions.ManagerOption
	if clientID := c.GetGoogleClientID(); clientID != "" {
		verifier, err := sessions.NewGoogleVerifier(ctx, clientID)
		if err != nil {
			return nil, err
		}
		options = append(options, sessions.WithGoogleVerifier(verifier))
	}
	manager, err := sessions.New(client, nav, options...)
	if err != nil {
		return nil, fmt.Errorf("sessions.New: %w", err)
	}
	return manager, nil
}

// signIn reuses a stored session when the tab has one, otherwise logs in with the configured
// credentials.
func signIn(ctx context.Context, c config.Config, manager *sessions.Manager) error {
	if err := manager.Init(ctx); err != nil {
		log.Debug().Err(err).Msg("stored session not usable")
	}
	if user := manager.CurrentUser(); user != nil {
		log.Info().Str("user", user.DisplayName()).Msg("using stored session")
		return nil
	}
	if c.GetUsername() == "" {
		return errors.New("COURSE_USERNAME is not set")
	}
	if err := manager.Login(ctx, c.GetUsername(), c.GetPassword()); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	user := manager.CurrentUser()
	if user == nil {
		return errors.New("login: no user returned")
	}
	if !user.IsStaff() {
		return fmt.Errorf("user %s (%s) cannot author courses", user.Username, user.EffectiveRole())
	}
	log.Info().Str("user", user.DisplayName()).Str("role", string(user.EffectiveRole())).Msg("logged in")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
