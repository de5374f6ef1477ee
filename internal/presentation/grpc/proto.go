package grpc

// proto.go holds the hand-written service descriptor and client stub for
// credit360.marketplace.v1.MarketplaceService. Messages are JSON encoded;
// see json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName = "credit360.marketplace.v1.MarketplaceService"

	// Full method names, as seen by interceptors.
	MethodListOffers          = "/" + serviceName + "/ListOffers"
	MethodSimulateInstallment = "/" + serviceName + "/SimulateInstallment"
)

// MarketplaceServiceServer is the server API for MarketplaceService.
type MarketplaceServiceServer interface {
	ListOffers(context.Context, *ListOffersRequest) (*ListOffersResponse, error)
	SimulateInstallment(context.Context, *SimulateInstallmentRequest) (*SimulateInstallmentResponse, error)
	mustEmbedUnimplementedMarketplaceServiceServer()
}

// UnimplementedMarketplaceServiceServer provides forward-compatible default implementations.
type UnimplementedMarketplaceServiceServer struct{}

func (UnimplementedMarketplaceServiceServer) ListOffers(context.Context, *ListOffersRequest) (*ListOffersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListOffers not implemented")
}
func (UnimplementedMarketplaceServiceServer) SimulateInstallment(context.Context, *SimulateInstallmentRequest) (*SimulateInstallmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SimulateInstallment not implemented")
}
func (UnimplementedMarketplaceServiceServer) mustEmbedUnimplementedMarketplaceServiceServer() {}

// RegisterMarketplaceServiceServer registers the MarketplaceServiceServer with the gRPC server.
func RegisterMarketplaceServiceServer(s grpclib.ServiceRegistrar, srv MarketplaceServiceServer) {
	s.RegisterService(&_MarketplaceService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _MarketplaceService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MarketplaceServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ListOffers", Handler: _MarketplaceService_ListOffers_Handler},                   //nolint:revive // gRPC handler registration
		{MethodName: "SimulateInstallment", Handler: _MarketplaceService_SimulateInstallment_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _MarketplaceService_ListOffers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListOffersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).ListOffers(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodListOffers,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketplaceServiceServer).ListOffers(ctx, req.(*ListOffersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _MarketplaceService_SimulateInstallment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(SimulateInstallmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).SimulateInstallment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodSimulateInstallment,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketplaceServiceServer).SimulateInstallment(ctx, req.(*SimulateInstallmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MarketplaceServiceClient is the client API for MarketplaceService.
type MarketplaceServiceClient interface {
	ListOffers(ctx context.Context, in *ListOffersRequest, opts ...grpclib.CallOption) (*ListOffersResponse, error)
	SimulateInstallment(ctx context.Context, in *SimulateInstallmentRequest, opts ...grpclib.CallOption) (*SimulateInstallmentResponse, error)
}

type marketplaceServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewMarketplaceServiceClient returns a client that speaks the JSON codec.
func NewMarketplaceServiceClient(cc grpclib.ClientConnInterface) MarketplaceServiceClient {
	return &marketplaceServiceClient{cc: cc}
}

func (c *marketplaceServiceClient) ListOffers(ctx context.Context, in *ListOffersRequest, opts ...grpclib.CallOption) (*ListOffersResponse, error) {
	out := new(ListOffersResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodListOffers, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) SimulateInstallment(ctx context.Context, in *SimulateInstallmentRequest, opts ...grpclib.CallOption) (*SimulateInstallmentResponse, error) {
	out := new(SimulateInstallmentResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, MethodSimulateInstallment, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
