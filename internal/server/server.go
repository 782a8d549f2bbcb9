package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/opaldesk/accounts-backend/config"
	"github.com/opaldesk/accounts-backend/internal/api"
	"github.com/opaldesk/accounts-backend/internal/database"
	"github.com/opaldesk/accounts-backend/internal/middleware"
	"github.com/opaldesk/accounts-backend/internal/service"
)

// Server wires the adapters, services and handlers together and owns the
// HTTP listener. Everything is constructed once here and passed down
// explicitly; there are no lazily-initialized globals.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New builds the full dependency graph from configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	ctx := context.Background()
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	cognitoCfg, err := config.NewCognitoConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	var verifier *service.TokenVerifier
	if cfg.JWKSEndpoint != "" {
		issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.AWSRegion, cfg.CognitoUserPoolID)
		verifier = service.NewTokenVerifierForIssuer(issuer, cfg.JWKSEndpoint, cfg.JWKSCacheTTL)
	} else {
		verifier = service.NewTokenVerifier(cfg.AWSRegion, cfg.CognitoUserPoolID, cfg.JWKSCacheTTL)
	}

	objects := service.NewStorageService(s3Cfg)
	identity := service.NewCognitoService(cognitoCfg)
	users := service.NewUserService(db, objects)
	deletion := service.NewAccountDeletionService(users, identity, objects)

	router := buildRouter(db, redisClient, verifier, users, identity, deletion)

	return &Server{
		router: router,
		db:     db,
		redis:  redisClient,
	}, nil
}

func buildRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	verifier middleware.TokenVerifier,
	users service.IUserService,
	identity service.IdentityAdmin,
	deletion *service.AccountDeletionService,
) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(verifier, users))

	optional := v1.Group("")
	optional.Use(middleware.OptionalAuthMiddleware(verifier))

	resetLimiter := middleware.NewPasswordResetRateLimiter(redisClient)

	api.NewHealthHandler(db).RegisterRoutes(v1)
	api.NewProfileHandler(users).RegisterRoutes(protected, optional)
	api.NewPasswordHandler(identity, resetLimiter).RegisterRoutes(v1)
	api.NewAccountHandler(deletion).RegisterRoutes(protected)

	return router
}

// Start begins serving on addr and blocks until the listener stops.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("Listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
