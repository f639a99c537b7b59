// Package api defines the daemon's gRPC surface: the horalis.v1.TrayService
// descriptor, its JSON-encoded messages and a typed client.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "horalis.v1.TrayService"

// TrayServiceServer is implemented by the daemon.
type TrayServiceServer interface {
	SetStatusLabel(context.Context, *LabelRequest) (*emptypb.Empty, error)
	ClearStatusLabel(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	SetStatusColor(context.Context, *ColorRequest) (*emptypb.Empty, error)
	ResetStatusIcon(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	UpdateMenu(context.Context, *MenuRequest) (*emptypb.Empty, error)

	StartTimer(context.Context, *StartTimerRequest) (*TimerStatus, error)
	StopTimer(context.Context, *emptypb.Empty) (*TimerStatus, error)
	GetTimer(context.Context, *emptypb.Empty) (*TimerStatus, error)

	StartReminder(context.Context, *ReminderRequest) (*ReminderStatus, error)
	StopReminder(context.Context, *emptypb.Empty) (*ReminderStatus, error)
	GetReminder(context.Context, *emptypb.Empty) (*ReminderStatus, error)

	GetStatus(context.Context, *emptypb.Empty) (*DaemonStatus, error)
	ListProjects(context.Context, *emptypb.Empty) (*ProjectList, error)
	CreateProject(context.Context, *CreateProjectRequest) (*Project, error)
	TrackProject(context.Context, *TrackRequest) (*Entry, error)
	ListEntries(context.Context, *ListEntriesRequest) (*EntryList, error)
	StopTracking(context.Context, *emptypb.Empty) (*StopResult, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)

	Subscribe(*emptypb.Empty, EventStream) error
}

// EventStream is the server side of Subscribe.
type EventStream interface {
	Send(*Event) error
	Context() context.Context
}

// RegisterTrayServiceServer registers srv on s.
func RegisterTrayServiceServer(s grpc.ServiceRegistrar, srv TrayServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes horalis.v1.TrayService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SetStatusLabel", TrayServiceServer.SetStatusLabel),
		unary("ClearStatusLabel", TrayServiceServer.ClearStatusLabel),
		unary("SetStatusColor", TrayServiceServer.SetStatusColor),
		unary("ResetStatusIcon", TrayServiceServer.ResetStatusIcon),
		unary("UpdateMenu", TrayServiceServer.UpdateMenu),
		unary("StartTimer", TrayServiceServer.StartTimer),
		unary("StopTimer", TrayServiceServer.StopTimer),
		unary("GetTimer", TrayServiceServer.GetTimer),
		unary("StartReminder", TrayServiceServer.StartReminder),
		unary("StopReminder", TrayServiceServer.StopReminder),
		unary("GetReminder", TrayServiceServer.GetReminder),
		unary("GetStatus", TrayServiceServer.GetStatus),
		unary("ListProjects", TrayServiceServer.ListProjects),
		unary("CreateProject", TrayServiceServer.CreateProject),
		unary("TrackProject", TrayServiceServer.TrackProject),
		unary("ListEntries", TrayServiceServer.ListEntries),
		unary("StopTracking", TrayServiceServer.StopTracking),
		unary("Shutdown", TrayServiceServer.Shutdown),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "horalis/v1/tray.proto",
}

// FullMethod returns the gRPC path of a TrayService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](name string, call func(TrayServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TrayServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TrayServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TrayServiceServer).Subscribe(in, &eventStream{stream})
}

type eventStream struct {
	grpc.ServerStream
}

func (s *eventStream) Send(ev *Event) error {
	return s.ServerStream.SendMsg(ev)
}
