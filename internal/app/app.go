package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ostvang/leaguedesk/internal/config"
	"github.com/ostvang/leaguedesk/internal/domain/assignment"
	"github.com/ostvang/leaguedesk/internal/domain/audit"
	"github.com/ostvang/leaguedesk/internal/domain/joinrequest"
	"github.com/ostvang/leaguedesk/internal/domain/league"
	"github.com/ostvang/leaguedesk/internal/domain/match"
	"github.com/ostvang/leaguedesk/internal/domain/notification"
	"github.com/ostvang/leaguedesk/internal/domain/team"
	"github.com/ostvang/leaguedesk/internal/domain/user"
	"github.com/ostvang/leaguedesk/internal/infrastructure/account/devtoken"
	"github.com/ostvang/leaguedesk/internal/infrastructure/account/introspection"
	"github.com/ostvang/leaguedesk/internal/infrastructure/broadcast"
	repocache "github.com/ostvang/leaguedesk/internal/infrastructure/repository/cache"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/memory"
	"github.com/ostvang/leaguedesk/internal/infrastructure/repository/postgres"
	"github.com/ostvang/leaguedesk/internal/interfaces/httpapi"
	basecache "github.com/ostvang/leaguedesk/internal/platform/cache"
	idgen "github.com/ostvang/leaguedesk/internal/platform/id"
	"github.com/ostvang/leaguedesk/internal/platform/resilience"
	"github.com/ostvang/leaguedesk/internal/usecase"
)

const bootstrapSeedTimeout = 30 * time.Second

// NewHTTPServer wires storage, services and the HTTP surface. The
// returned cleanup stops the broadcast workers and closes the database
// pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeRepos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = repocache.NewTeamRepository(repos.teams, store)
		repos.leagues = repocache.NewLeagueRepository(repos.leagues, store)
		repos.users = repocache.NewUserRepository(repos.users, store)
	}

	dispatcher, err := buildDispatcher(cfg, logger)
	if err != nil {
		_ = closeRepos(context.Background())
		return nil, nil, err
	}

	idGen := idgen.NewRandomGenerator()

	notificationSvc := usecase.NewNotificationService(
		repos.notifications,
		repos.assignments,
		repos.joinRequests,
		repos.matches,
		dispatcher,
		idGen,
		logger,
	)
	authoritySvc := usecase.NewAuthorityService(repos.teams, repos.leagues, repos.audit, notificationSvc, idGen, logger)
	joinSvc := usecase.NewJoinService(repos.joinRequests, repos.teams, repos.leagues, repos.users, repos.audit, notificationSvc, idGen, logger)
	scoreSvc := usecase.NewScoreService(repos.matches, repos.teams, repos.leagues, repos.audit, notificationSvc, idGen, logger)
	assignmentSvc := usecase.NewAssignmentService(repos.assignments, repos.matches, repos.audit, notificationSvc, idGen, logger)

	verifier, err := buildTokenVerifier(cfg, logger)
	if err != nil {
		if dispatcher != nil {
			dispatcher.Close()
		}
		_ = closeRepos(context.Background())
		return nil, nil, err
	}

	handler := httpapi.NewHandler(authoritySvc, joinSvc, scoreSvc, notificationSvc, assignmentSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		SwaggerEnabled:      cfg.SwaggerEnabled,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		InternalJobToken:    cfg.InternalJobToken,
		CaptureRequestBody:  cfg.UptraceCaptureRequestBody,
		RequestBodyMaxBytes: cfg.UptraceRequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(ctx context.Context) error {
		if dispatcher != nil {
			dispatcher.Close()
		}
		return closeRepos(ctx)
	}

	return server, cleanup, nil
}

type repositories struct {
	teams         team.Repository
	leagues       league.Repository
	users         user.Repository
	matches       match.Repository
	joinRequests  joinrequest.Repository
	notifications notification.Repository
	assignments   assignment.Repository
	audit         audit.Repository
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, func(context.Context) error, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return buildPostgresRepositories(cfg, logger)
	default:
		logger.Info("using in-memory storage with seed data")
		return repositories{
			teams:         memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMemberships()),
			leagues:       memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedLeagueTeams()),
			users:         memory.NewUserRepository(memory.SeedUsers()),
			matches:       memory.NewMatchRepository(memory.SeedMatches()),
			joinRequests:  memory.NewJoinRequestRepository(),
			notifications: memory.NewNotificationRepository(),
			assignments:   memory.NewAssignmentRepository(),
			audit:         memory.NewAuditRepository(),
		}, func(context.Context) error { return nil }, nil
	}
}

func buildPostgresRepositories(cfg config.Config, logger *slog.Logger) (repositories, func(context.Context) error, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.AppEnv != config.EnvProd {
		seedCtx, cancel := context.WithTimeout(context.Background(), bootstrapSeedTimeout)
		defer cancel()
		if err := postgres.BootstrapSeed(seedCtx, db); err != nil {
			_ = db.Close()
			return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	logger.Info("using postgres storage", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
			teams:         postgres.NewTeamRepository(db),
			leagues:       postgres.NewLeagueRepository(db),
			users:         postgres.NewUserRepository(db),
			matches:       postgres.NewMatchRepository(db),
			joinRequests:  postgres.NewJoinRequestRepository(db),
			notifications: postgres.NewNotificationRepository(db),
			assignments:   postgres.NewAssignmentRepository(db),
			audit:         postgres.NewAuditRepository(db),
		}, func(context.Context) error {
			return db.Close()
		}, nil
}

func buildDispatcher(cfg config.Config, logger *slog.Logger) (*usecase.BroadcastDispatcher, error) {
	if !cfg.PusherEnabled {
		logger.Info("realtime broadcast disabled", "reason", "PUSHER_ENABLED=false")
		return nil, nil
	}

	client, err := broadcast.NewPusherClient(broadcast.PusherConfig{
		BaseURL: cfg.PusherBaseURL,
		AppID:   cfg.PusherAppID,
		Key:     cfg.PusherKey,
		Secret:  cfg.PusherSecret,
		Timeout: cfg.PusherTimeout,
		Circuit: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PusherCircuitEnabled,
			FailureThreshold: cfg.PusherCircuitFailureCount,
			OpenTimeout:      cfg.PusherCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PusherCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build pusher client: %w", err)
	}

	return usecase.NewBroadcastDispatcher(client, cfg.BroadcastWorkers, logger)
}

func buildTokenVerifier(cfg config.Config, logger *slog.Logger) (httpapi.TokenVerifier, error) {
	if cfg.AuthMode == config.AuthModeDevToken {
		logger.Warn("token verification uses locally signed dev tokens")
		verifier, err := devtoken.NewVerifier(cfg.DevTokenSecret)
		if err != nil {
			return nil, fmt.Errorf("build dev token verifier: %w", err)
		}
		return verifier, nil
	}

	return introspection.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		cfg.AccountAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
		logger,
	), nil
}
