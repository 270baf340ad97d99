package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/backup-auth-server/internal/api/grpc/codec"
)

// BackupsServiceName is the fully qualified gRPC service name.
const BackupsServiceName = "backup.v1.Backups"

// Full method names of the Backups service.
const (
	SetBackupIDMethod                = "/" + BackupsServiceName + "/SetBackupId"
	CheckBackupIDRotationLimitMethod = "/" + BackupsServiceName + "/CheckBackupIdRotationLimit"
	GetBackupAuthCredentialsMethod   = "/" + BackupsServiceName + "/GetBackupAuthCredentials"
	RedeemReceiptMethod              = "/" + BackupsServiceName + "/RedeemReceipt"
	GetUploadFormMethod              = "/" + BackupsServiceName + "/GetUploadForm"
	PrepareMediaCopyMethod           = "/" + BackupsServiceName + "/PrepareMediaCopy"
)

// BackupsServer is the server API for the Backups service.
type BackupsServer interface {
	SetBackupID(context.Context, *SetBackupIDRequest) (*SetBackupIDResponse, error)
	CheckBackupIDRotationLimit(context.Context, *CheckBackupIDRotationLimitRequest) (*CheckBackupIDRotationLimitResponse, error)
	GetBackupAuthCredentials(context.Context, *GetBackupAuthCredentialsRequest) (*GetBackupAuthCredentialsResponse, error)
	RedeemReceipt(context.Context, *RedeemReceiptRequest) (*RedeemReceiptResponse, error)
	GetUploadForm(context.Context, *GetUploadFormRequest) (*UploadForm, error)
	PrepareMediaCopy(context.Context, *PrepareMediaCopyRequest) (*PrepareMediaCopyResponse, error)
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(BackupsServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BackupsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BackupsServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BackupsServiceDesc describes the Backups service for grpc.Server.RegisterService.
var BackupsServiceDesc = grpc.ServiceDesc{
	ServiceName: BackupsServiceName,
	HandlerType: (*BackupsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SetBackupId",
			Handler:    unaryHandler(SetBackupIDMethod, BackupsServer.SetBackupID),
		},
		{
			MethodName: "CheckBackupIdRotationLimit",
			Handler:    unaryHandler(CheckBackupIDRotationLimitMethod, BackupsServer.CheckBackupIDRotationLimit),
		},
		{
			MethodName: "GetBackupAuthCredentials",
			Handler:    unaryHandler(GetBackupAuthCredentialsMethod, BackupsServer.GetBackupAuthCredentials),
		},
		{
			MethodName: "RedeemReceipt",
			Handler:    unaryHandler(RedeemReceiptMethod, BackupsServer.RedeemReceipt),
		},
		{
			MethodName: "GetUploadForm",
			Handler:    unaryHandler(GetUploadFormMethod, BackupsServer.GetUploadForm),
		},
		{
			MethodName: "PrepareMediaCopy",
			Handler:    unaryHandler(PrepareMediaCopyMethod, BackupsServer.PrepareMediaCopy),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "backup/v1/backups.json",
}

// RegisterBackupsServer registers srv on s.
func RegisterBackupsServer(s grpc.ServiceRegistrar, srv BackupsServer) {
	s.RegisterService(&BackupsServiceDesc, srv)
}

// BackupsClient calls the Backups service using the JSON codec.
type BackupsClient struct {
	cc grpc.ClientConnInterface
}

func NewBackupsClient(cc grpc.ClientConnInterface) *BackupsClient {
	return &BackupsClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackupsClient) SetBackupID(ctx context.Context, in *SetBackupIDRequest, opts ...grpc.CallOption) (*SetBackupIDResponse, error) {
	return invoke[SetBackupIDRequest, SetBackupIDResponse](ctx, c.cc, SetBackupIDMethod, in, opts...)
}

func (c *BackupsClient) CheckBackupIDRotationLimit(ctx context.Context, in *CheckBackupIDRotationLimitRequest, opts ...grpc.CallOption) (*CheckBackupIDRotationLimitResponse, error) {
	return invoke[CheckBackupIDRotationLimitRequest, CheckBackupIDRotationLimitResponse](ctx, c.cc, CheckBackupIDRotationLimitMethod, in, opts...)
}

func (c *BackupsClient) GetBackupAuthCredentials(ctx context.Context, in *GetBackupAuthCredentialsRequest, opts ...grpc.CallOption) (*GetBackupAuthCredentialsResponse, error) {
	return invoke[GetBackupAuthCredentialsRequest, GetBackupAuthCredentialsResponse](ctx, c.cc, GetBackupAuthCredentialsMethod, in, opts...)
}

func (c *BackupsClient) RedeemReceipt(ctx context.Context, in *RedeemReceiptRequest, opts ...grpc.CallOption) (*RedeemReceiptResponse, error) {
	return invoke[RedeemReceiptRequest, RedeemReceiptResponse](ctx, c.cc, RedeemReceiptMethod, in, opts...)
}

func (c *BackupsClient) GetUploadForm(ctx context.Context, in *GetUploadFormRequest, opts ...grpc.CallOption) (*UploadForm, error) {
	return invoke[GetUploadFormRequest, UploadForm](ctx, c.cc, GetUploadFormMethod, in, opts...)
}

func (c *BackupsClient) PrepareMediaCopy(ctx context.Context, in *PrepareMediaCopyRequest, opts ...grpc.CallOption) (*PrepareMediaCopyResponse, error) {
	return invoke[PrepareMediaCopyRequest, PrepareMediaCopyResponse](ctx, c.cc, PrepareMediaCopyMethod, in, opts...)
}
