package handler

import (
	"context"
	"errors"
	"math"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// RetryAfterKey is the trailer carrying the number of seconds to wait after ResourceExhausted.
const RetryAfterKey = "retry-after"

func handleError(ctx context.Context, err error) error {
	var modelErr *model.Error
	if !errors.As(err, &modelErr) {
		return status.Error(codes.Internal, "internal server error")
	}

	switch modelErr.Kind {
	case model.KindInvalidArgument, model.KindVerificationFailed:
		return status.Error(codes.InvalidArgument, modelErr.Message)
	case model.KindPermissionDenied:
		return status.Error(codes.PermissionDenied, modelErr.Message)
	case model.KindNotFound:
		return status.Error(codes.NotFound, modelErr.Message)
	case model.KindAborted:
		return status.Error(codes.Aborted, modelErr.Message)
	case model.KindUnauthenticated:
		return status.Error(codes.Unauthenticated, modelErr.Message)
	case model.KindRateLimitExceeded:
		seconds := int64(math.Ceil(modelErr.RetryAfter.Seconds()))
		// fails outside of a server stream, e.g. in tests; the status still carries the code
		_ = grpc.SetTrailer(ctx, metadata.Pairs(RetryAfterKey, strconv.FormatInt(seconds, 10)))
		return status.Error(codes.ResourceExhausted, modelErr.Message)
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
