package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/backup-auth-server/internal/api/grpc/handler"
	"github.com/dtroode/backup-auth-server/internal/api/grpc/middleware"
	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/metrics"
	"github.com/dtroode/backup-auth-server/internal/model"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

// Router wires the Backups service, health checks and interceptors into a gRPC server.
type Router struct {
	authService    handler.BackupAuthService
	mediaService   handler.BackupMediaService
	accounts       handler.AccountReader
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	logger         *logger.Logger

	health *health.Server
}

// New creates new gRPC Router instance.
func New(
	authService handler.BackupAuthService,
	mediaService handler.BackupMediaService,
	accounts handler.AccountReader,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		mediaService:   mediaService,
		accounts:       accounts,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
		health:         health.NewServer(),
	}
}

func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), healthServicePrefix)
}

// Register builds the gRPC server with logging, metrics and authentication interceptors.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	requestMetrics := middleware.NewMetrics(r.metrics)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			requestMetrics.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)

	r.registerBackupRoutes(s)
	healthpb.RegisterHealthServer(s, r.health)
	r.health.SetServingStatus(handler.BackupsServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Shutdown marks every service as not serving so health probes fail before the server stops.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerBackupRoutes(server *grpc.Server) {
	backupHandler := handler.NewBackup(r.authService, r.mediaService, r.accounts, r.contextManager, r.logger)
	handler.RegisterBackupsServer(server, backupHandler)
}
