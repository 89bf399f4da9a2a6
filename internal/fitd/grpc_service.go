package fitd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The fit service carries its messages as google.protobuf.Struct values
// whose fields mirror the JSON bodies of the HTTP API.

const fitServiceName = "kinfit.v1.FitService"

// Full method names
const (
	FitServiceFitMethod        = "/" + fitServiceName + "/Fit"
	FitServiceGetFitMethod     = "/" + fitServiceName + "/GetFit"
	FitServiceListModelsMethod = "/" + fitServiceName + "/ListModels"
)

// FitServiceServer is the server API for kinfit.v1.FitService
type FitServiceServer interface {
	Fit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListModels(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FitServiceDesc describes kinfit.v1.FitService for grpc.Server.RegisterService
var FitServiceDesc = grpc.ServiceDesc{
	ServiceName: fitServiceName,
	HandlerType: (*FitServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Fit",
			Handler: unaryHandler(FitServiceFitMethod, func(s FitServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.Fit(ctx, in)
			}),
		},
		{
			MethodName: "GetFit",
			Handler: unaryHandler(FitServiceGetFitMethod, func(s FitServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.GetFit(ctx, in)
			}),
		},
		{
			MethodName: "ListModels",
			Handler: unaryHandler(FitServiceListModelsMethod, func(s FitServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ListModels(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kinfit/v1/fit_service.proto",
}

// RegisterFitServiceServer registers srv on s
func RegisterFitServiceServer(s grpc.ServiceRegistrar, srv FitServiceServer) {
	s.RegisterService(&FitServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(FitServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FitServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FitServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FitServiceClient is the client API for kinfit.v1.FitService
type FitServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFitServiceClient(cc grpc.ClientConnInterface) *FitServiceClient {
	return &FitServiceClient{cc: cc}
}

func (c *FitServiceClient) Fit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FitServiceFitMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FitServiceClient) GetFit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FitServiceGetFitMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FitServiceClient) ListModels(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FitServiceListModelsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
