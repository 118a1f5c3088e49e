package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "digidex.v1alpha1.DigidexService"

// Full method names
const (
	ResolveEntityFullMethodName  = "/" + ServiceName + "/ResolveEntity"
	BeginSessionFullMethodName   = "/" + ServiceName + "/BeginSession"
	EndSessionFullMethodName     = "/" + ServiceName + "/EndSession"
	ToggleFavoriteFullMethodName = "/" + ServiceName + "/ToggleFavorite"
	ListEntitiesFullMethodName   = "/" + ServiceName + "/ListEntities"
)

// DigidexServiceServer is the server API. Messages are well-known types so
// the service needs no generated code.
type DigidexServiceServer interface {
	ResolveEntity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BeginSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndSession(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ToggleFavorite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEntities(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDigidexServiceServer registers srv on s
func RegisterDigidexServiceServer(s grpc.ServiceRegistrar, srv DigidexServiceServer) {
	s.RegisterService(&DigidexServiceDesc, srv)
}

func unaryHandler[Req any](
	fullMethod string,
	newReq func() *Req,
	call func(DigidexServiceServer, context.Context, *Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DigidexServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DigidexServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

// DigidexServiceDesc describes the service for grpc.ServiceRegistrar
var DigidexServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DigidexServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ResolveEntity",
			Handler:    unaryHandler(ResolveEntityFullMethodName, newStruct, DigidexServiceServer.ResolveEntity),
		},
		{
			MethodName: "BeginSession",
			Handler:    unaryHandler(BeginSessionFullMethodName, newStruct, DigidexServiceServer.BeginSession),
		},
		{
			MethodName: "EndSession",
			Handler:    unaryHandler(EndSessionFullMethodName, newEmpty, DigidexServiceServer.EndSession),
		},
		{
			MethodName: "ToggleFavorite",
			Handler:    unaryHandler(ToggleFavoriteFullMethodName, newStruct, DigidexServiceServer.ToggleFavorite),
		},
		{
			MethodName: "ListEntities",
			Handler:    unaryHandler(ListEntitiesFullMethodName, newStruct, DigidexServiceServer.ListEntities),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "",
}

// DigidexServiceClient is the client API
type DigidexServiceClient interface {
	ResolveEntity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	BeginSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	EndSession(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ToggleFavorite(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListEntities(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type digidexServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDigidexServiceClient creates a client on cc
func NewDigidexServiceClient(cc grpc.ClientConnInterface) DigidexServiceClient {
	return &digidexServiceClient{cc: cc}
}

func (c *digidexServiceClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *digidexServiceClient) ResolveEntity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ResolveEntityFullMethodName, in, opts...)
}

func (c *digidexServiceClient) BeginSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, BeginSessionFullMethodName, in, opts...)
}

func (c *digidexServiceClient) EndSession(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EndSessionFullMethodName, in, opts...)
}

func (c *digidexServiceClient) ToggleFavorite(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ToggleFavoriteFullMethodName, in, opts...)
}

func (c *digidexServiceClient) ListEntities(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListEntitiesFullMethodName, in, opts...)
}
