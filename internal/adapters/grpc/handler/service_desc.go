package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// HiringServiceName は gRPC のサービス名です。
const HiringServiceName = "hiring.v1.HiringService"

// HiringServiceServer は hiring.v1.HiringService のサーバー側インターフェースです。
// メッセージには well-known type の Struct / ListValue / Empty を使います。
type HiringServiceServer interface {
	Ingest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	HiresByQuarter(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	AboveAverageByDepartment(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	GetDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterHiringServiceServer は srv に HiringService を登録します。
func RegisterHiringServiceServer(s grpc.ServiceRegistrar, srv HiringServiceServer) {
	s.RegisterService(&HiringServiceDesc, srv)
}

// HiringServiceDesc は HiringService のサービス記述子です。
var HiringServiceDesc = grpc.ServiceDesc{
	ServiceName: HiringServiceName,
	HandlerType: (*HiringServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ingest", Handler: structHandler("Ingest", HiringServiceServer.Ingest)},
		{MethodName: "HiresByQuarter", Handler: emptyHandler("HiresByQuarter", HiringServiceServer.HiresByQuarter)},
		{MethodName: "AboveAverageByDepartment", Handler: emptyHandler("AboveAverageByDepartment", HiringServiceServer.AboveAverageByDepartment)},
		{MethodName: "GetDepartment", Handler: structHandler("GetDepartment", HiringServiceServer.GetDepartment)},
		{MethodName: "GetJob", Handler: structHandler("GetJob", HiringServiceServer.GetJob)},
		{MethodName: "GetEmployee", Handler: structHandler("GetEmployee", HiringServiceServer.GetEmployee)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hiring/v1/hiring.proto",
}

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func structHandler[Resp any](method string, call func(HiringServiceServer, context.Context, *structpb.Struct) (Resp, error)) methodHandler {
	return unaryHandler(method, func() *structpb.Struct { return new(structpb.Struct) }, call)
}

func emptyHandler[Resp any](method string, call func(HiringServiceServer, context.Context, *emptypb.Empty) (Resp, error)) methodHandler {
	return unaryHandler(method, func() *emptypb.Empty { return new(emptypb.Empty) }, call)
}

func unaryHandler[Req, Resp any](method string, newReq func() Req, call func(HiringServiceServer, context.Context, Req) (Resp, error)) methodHandler {
	fullMethod := "/" + HiringServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HiringServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		h := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HiringServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, h)
	}
}
