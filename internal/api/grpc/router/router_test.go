package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcContext "github.com/dtroode/backup-auth-server/internal/api/grpc/context"
	"github.com/dtroode/backup-auth-server/internal/api/grpc/handler"
	"github.com/dtroode/backup-auth-server/internal/metrics"
	"github.com/dtroode/backup-auth-server/internal/mocks"
	"github.com/dtroode/backup-auth-server/internal/model"
	"github.com/dtroode/backup-auth-server/internal/testutil"
	"github.com/dtroode/backup-auth-server/internal/token"
)

type testServer struct {
	client   *handler.BackupsClient
	health   healthpb.HealthClient
	auth     *mocks.BackupAuthService
	accounts *mocks.AccountStore
	tokens   *token.JWT
}

func startTestServer(t *testing.T) testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	ts := testServer{
		auth:     mocks.NewBackupAuthService(t),
		accounts: mocks.NewAccountStore(t),
		tokens:   token.NewJWT("router-test-secret", "backup-auth", time.Minute),
	}

	r := New(ts.auth, mocks.NewBackupMediaService(t), ts.accounts, ts.tokens,
		grpcContext.NewManager(), metrics.NewWithRegistry(reg, reg), testutil.MakeNoopLogger())
	s := r.Register()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		r.Shutdown()
		s.Stop()
	})

	ts.client = handler.NewBackupsClient(conn)
	ts.health = healthpb.NewHealthClient(conn)
	return ts
}

func (ts testServer) bearer(t *testing.T, accountID uuid.UUID, deviceID uint32) context.Context {
	t.Helper()
	tok, err := ts.tokens.GenerateAccessToken(accountID, deviceID)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func TestRouter_HealthSkipsAuth(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)

	resp, err := ts.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: handler.BackupsServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRouter_RequiresToken(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)

	_, err := ts.client.SetBackupID(context.Background(), &handler.SetBackupIDRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer garbage")
	_, err = ts.client.SetBackupID(ctx, &handler.SetBackupIDRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_SetBackupID(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)

	account := model.Account{ID: uuid.New()}
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	ts.auth.On("CommitBackupID", mock.Anything, account, model.Device{ID: 1}, []byte("messages"), []byte("media")).
		Return(nil).Once()

	_, err := ts.client.SetBackupID(ts.bearer(t, account.ID, 1), &handler.SetBackupIDRequest{
		MessagesBackupAuthCredentialRequest: []byte("messages"),
		MediaBackupAuthCredentialRequest:    []byte("media"),
	})
	require.NoError(t, err)
}

func TestRouter_SpoofedMetadataIgnored(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)

	account := model.Account{ID: uuid.New()}
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	ts.auth.On("CommitBackupID", mock.Anything, account, model.Device{ID: 2}, mock.Anything, mock.Anything).
		Return(model.NewErrPermissionDenied("only the primary device may set the backup-id")).Once()

	ctx := metadata.AppendToOutgoingContext(ts.bearer(t, account.ID, 2), "x-device-id", "1")
	_, err := ts.client.SetBackupID(ctx, &handler.SetBackupIDRequest{MessagesBackupAuthCredentialRequest: []byte("m")})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRouter_RateLimitTrailer(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)

	account := model.Account{ID: uuid.New()}
	ts.accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	ts.auth.On("CommitBackupID", mock.Anything, account, model.Device{ID: 1}, mock.Anything, mock.Anything).
		Return(model.NewErrRateLimitExceeded(90 * time.Second)).Once()

	var trailer metadata.MD
	_, err := ts.client.SetBackupID(ts.bearer(t, account.ID, 1),
		&handler.SetBackupIDRequest{MessagesBackupAuthCredentialRequest: []byte("m")},
		grpc.Trailer(&trailer))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, []string{"90"}, trailer.Get(handler.RetryAfterKey))
}
