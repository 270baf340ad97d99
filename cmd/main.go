package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/backup-auth-server/internal/api/admin"
	grpcctx "github.com/dtroode/backup-auth-server/internal/api/grpc/context"
	"github.com/dtroode/backup-auth-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/backup-auth-server/internal/api/grpc/server"
	"github.com/dtroode/backup-auth-server/internal/config"
	"github.com/dtroode/backup-auth-server/internal/experiment"
	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/media"
	"github.com/dtroode/backup-auth-server/internal/metrics"
	"github.com/dtroode/backup-auth-server/internal/model"
	"github.com/dtroode/backup-auth-server/internal/ratelimit"
	"github.com/dtroode/backup-auth-server/internal/repository/postgres"
	"github.com/dtroode/backup-auth-server/internal/server"
	"github.com/dtroode/backup-auth-server/internal/service"
	minioStorage "github.com/dtroode/backup-auth-server/internal/storage/minio"
	s3Storage "github.com/dtroode/backup-auth-server/internal/storage/s3"
	"github.com/dtroode/backup-auth-server/internal/token"
	"github.com/dtroode/backup-auth-server/internal/zkcred"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	m := metrics.New()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	receiptRepo := postgres.NewRedeemedReceiptRepository(db)
	bucketRepo := postgres.NewBucketRepository(db)

	limiters, err := ratelimit.NewLimiters(cfg.RateLimit.Limiters(), bucketRepo)
	if err != nil {
		logger.Fatal("failed to configure rate limiters", "error", err)
	}

	experiments, err := experiment.Load(cfg.Experiments.File)
	if err != nil {
		logger.Fatal("failed to load experiments", "error", err)
	}

	issuer, err := zkcred.NewIssuer(cfg.ZK.BackupSecret)
	if err != nil {
		logger.Fatal("failed to create credential issuer", "error", err)
	}
	receipts, err := zkcred.NewReceiptOperations(cfg.ZK.ReceiptSecret)
	if err != nil {
		logger.Fatal("failed to create receipt verifier", "error", err)
	}

	signers, err := newUploadSigners(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize upload signers", "error", err)
	}
	encoder, err := media.NewDescriptorEncoder(cfg.Media.DescriptorKey, signers)
	if err != nil {
		logger.Fatal("failed to create upload descriptor encoder", "error", err)
	}

	authService := service.NewBackupAuth(accountRepo, limiters, receiptRepo, experiments, issuer, receipts, m, logger)
	mediaService, err := service.NewBackupMedia(encoder, cfg.Media.UploadCDN, logger)
	if err != nil {
		logger.Fatal("failed to create backup media service", "error", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	ctxMgr := grpcctx.NewManager()

	r := router.New(authService, mediaService, accountRepo, tokenManager, ctxMgr, m, logger)
	gs := r.Register()
	reflection.Register(gs)

	servers := []model.Server{
		grpcServer.NewGRPCServer(gs, fmt.Sprintf(":%s", cfg.GRPC.Port)),
		admin.NewServer(admin.NewAdmin(m.Handler(), db, logger).Router(), fmt.Sprintf(":%s", cfg.HTTP.Port)),
	}

	var grpcLayer model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		grpcLayer = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		grpcLayer = server.NewPlainListener()
	}
	layers := []model.SecurityLayer{grpcLayer, server.NewPlainListener()}

	var wg sync.WaitGroup
	for i, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s, layers[i])
	}

	janitor := service.NewJanitor(receiptRepo, bucketRepo, cfg.RateLimit.MaxRefillDuration(), logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Run(ctx, cfg.RateLimit.SweepInterval)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newUploadSigners(ctx context.Context, cfg *config.Config) (map[int]model.UploadSigner, error) {
	signers := make(map[int]model.UploadSigner, 2)

	if cfg.MinIO.Enabled {
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		signer, err := minioStorage.NewSigner(ctx, client, cfg.MinIO.Bucket, cfg.Media.UploadExpiration)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio signer: %w", err)
		}
		signers[config.CDNMinIO] = signer
	}

	if cfg.S3.Enabled {
		signer, err := s3Storage.NewSigner(ctx, s3Storage.Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Bucket:       cfg.S3.Bucket,
			UsePathStyle: cfg.S3.UsePathStyle,
			Expires:      cfg.Media.UploadExpiration,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 signer: %w", err)
		}
		signers[config.CDNS3] = signer
	}

	return signers, nil
}
