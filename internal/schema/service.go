package schema

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	ServiceName = "codectrl.logs_service.LogClient"

	GetServerDetailsMethod = "/" + ServiceName + "/GetServerDetails"
	SendLogMethod          = "/" + ServiceName + "/SendLog"
	SendLogsMethod         = "/" + ServiceName + "/SendLogs"
)

// LogClientClient is the client API of the LogClient service.
type LogClientClient interface {
	GetServerDetails(ctx context.Context, opts ...grpc.CallOption) (*ServerDetails, error)
	SendLog(ctx context.Context, in *Log, opts ...grpc.CallOption) (*RequestResult, error)
	SendLogs(ctx context.Context, opts ...grpc.CallOption) (LogClient_SendLogsClient, error)
}

// LogClient_SendLogsClient is the client side of a SendLogs stream.
type LogClient_SendLogsClient interface {
	Send(*Log) error
	CloseAndRecv() (*RequestResult, error)
	grpc.ClientStream
}

type logClientClient struct {
	cc grpc.ClientConnInterface
}

// NewLogClientClient returns a client that always encodes with Codec.
func NewLogClientClient(cc grpc.ClientConnInterface) LogClientClient {
	return &logClientClient{cc: cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
}

func (c *logClientClient) GetServerDetails(ctx context.Context, opts ...grpc.CallOption) (*ServerDetails, error) {
	out := new(ServerDetails)
	if err := c.cc.Invoke(ctx, GetServerDetailsMethod, &emptypb.Empty{}, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *logClientClient) SendLog(ctx context.Context, in *Log, opts ...grpc.CallOption) (*RequestResult, error) {
	out := new(RequestResult)
	if err := c.cc.Invoke(ctx, SendLogMethod, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *logClientClient) SendLogs(ctx context.Context, opts ...grpc.CallOption) (LogClient_SendLogsClient, error) {
	stream, err := c.cc.NewStream(ctx, &LogClientServiceDesc.Streams[0], SendLogsMethod, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &logClientSendLogsClient{ClientStream: stream}, nil
}

type logClientSendLogsClient struct {
	grpc.ClientStream
}

func (x *logClientSendLogsClient) Send(m *Log) error {
	return x.ClientStream.SendMsg(m)
}

func (x *logClientSendLogsClient) CloseAndRecv() (*RequestResult, error) {
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	m := new(RequestResult)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// LogClientServer is the server API of the LogClient service.
type LogClientServer interface {
	GetServerDetails(context.Context) (*ServerDetails, error)
	SendLog(context.Context, *Log) (*RequestResult, error)
	SendLogs(LogClient_SendLogsServer) error
}

// LogClient_SendLogsServer is the server side of a SendLogs stream.
type LogClient_SendLogsServer interface {
	SendAndClose(*RequestResult) error
	Recv() (*Log, error)
	grpc.ServerStream
}

// UnimplementedLogClientServer can be embedded for forward compatibility.
type UnimplementedLogClientServer struct{}

func (UnimplementedLogClientServer) GetServerDetails(context.Context) (*ServerDetails, error) {
	return nil, status.Error(codes.Unimplemented, "method GetServerDetails not implemented")
}

func (UnimplementedLogClientServer) SendLog(context.Context, *Log) (*RequestResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SendLog not implemented")
}

func (UnimplementedLogClientServer) SendLogs(LogClient_SendLogsServer) error {
	return status.Error(codes.Unimplemented, "method SendLogs not implemented")
}

// RegisterLogClientServer registers srv on s. The server must be created
// with grpc.ForceServerCodec(Codec{}).
func RegisterLogClientServer(s grpc.ServiceRegistrar, srv LogClientServer) {
	s.RegisterService(&LogClientServiceDesc, srv)
}

func getServerDetailsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogClientServer).GetServerDetails(ctx)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetServerDetailsMethod}
	handler := func(ctx context.Context, _ any) (any, error) {
		return srv.(LogClientServer).GetServerDetails(ctx)
	}
	return interceptor(ctx, in, info, handler)
}

func sendLogHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Log)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LogClientServer).SendLog(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SendLogMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LogClientServer).SendLog(ctx, req.(*Log))
	}
	return interceptor(ctx, in, info, handler)
}

func sendLogsHandler(srv any, stream grpc.ServerStream) error {
	return srv.(LogClientServer).SendLogs(&logClientSendLogsServer{ServerStream: stream})
}

type logClientSendLogsServer struct {
	grpc.ServerStream
}

func (x *logClientSendLogsServer) SendAndClose(m *RequestResult) error {
	return x.ServerStream.SendMsg(m)
}

func (x *logClientSendLogsServer) Recv() (*Log, error) {
	m := new(Log)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// LogClientServiceDesc describes the LogClient service.
var LogClientServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LogClientServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetServerDetails", Handler: getServerDetailsHandler},
		{MethodName: "SendLog", Handler: sendLogHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SendLogs", Handler: sendLogsHandler, ClientStreams: true},
	},
	Metadata: "cc_service.proto",
}
