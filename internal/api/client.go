package api

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client is a typed TrayService client.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the daemon at addr ("host:port").
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	opts = append(opts, grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)))

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any) (*Resp, error) {
	out := new(Resp)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetStatusLabel(ctx context.Context, text string) error {
	_, err := invoke[emptypb.Empty](ctx, c, "SetStatusLabel", &LabelRequest{Text: text})
	return err
}

func (c *Client) ClearStatusLabel(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c, "ClearStatusLabel", &emptypb.Empty{})
	return err
}

func (c *Client) SetStatusColor(ctx context.Context, color, name string) error {
	_, err := invoke[emptypb.Empty](ctx, c, "SetStatusColor", &ColorRequest{Color: color, Name: name})
	return err
}

func (c *Client) ResetStatusIcon(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c, "ResetStatusIcon", &emptypb.Empty{})
	return err
}

func (c *Client) UpdateMenu(ctx context.Context, req *MenuRequest) error {
	_, err := invoke[emptypb.Empty](ctx, c, "UpdateMenu", req)
	return err
}

func (c *Client) StartTimer(ctx context.Context, req *StartTimerRequest) (*TimerStatus, error) {
	return invoke[TimerStatus](ctx, c, "StartTimer", req)
}

func (c *Client) StopTimer(ctx context.Context) (*TimerStatus, error) {
	return invoke[TimerStatus](ctx, c, "StopTimer", &emptypb.Empty{})
}

func (c *Client) GetTimer(ctx context.Context) (*TimerStatus, error) {
	return invoke[TimerStatus](ctx, c, "GetTimer", &emptypb.Empty{})
}

func (c *Client) StartReminder(ctx context.Context, req *ReminderRequest) (*ReminderStatus, error) {
	return invoke[ReminderStatus](ctx, c, "StartReminder", req)
}

func (c *Client) StopReminder(ctx context.Context) (*ReminderStatus, error) {
	return invoke[ReminderStatus](ctx, c, "StopReminder", &emptypb.Empty{})
}

func (c *Client) GetReminder(ctx context.Context) (*ReminderStatus, error) {
	return invoke[ReminderStatus](ctx, c, "GetReminder", &emptypb.Empty{})
}

func (c *Client) GetStatus(ctx context.Context) (*DaemonStatus, error) {
	return invoke[DaemonStatus](ctx, c, "GetStatus", &emptypb.Empty{})
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	out, err := invoke[ProjectList](ctx, c, "ListProjects", &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, name, color string) (*Project, error) {
	return invoke[Project](ctx, c, "CreateProject", &CreateProjectRequest{Name: name, Color: color})
}

func (c *Client) TrackProject(ctx context.Context, projectID int64) (*Entry, error) {
	return invoke[Entry](ctx, c, "TrackProject", &TrackRequest{ProjectID: projectID})
}

func (c *Client) ListEntries(ctx context.Context, limit int) ([]Entry, error) {
	out, err := invoke[EntryList](ctx, c, "ListEntries", &ListEntriesRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) StopTracking(ctx context.Context) (*StopResult, error) {
	return invoke[StopResult](ctx, c, "StopTracking", &emptypb.Empty{})
}

func (c *Client) Shutdown(ctx context.Context) error {
	_, err := invoke[emptypb.Empty](ctx, c, "Shutdown", &emptypb.Empty{})
	return err
}

// Subscribe streams daemon events to fn until ctx is done, the daemon closes
// the stream, or fn returns an error.
func (c *Client) Subscribe(ctx context.Context, fn func(*Event) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod("Subscribe"))
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		ev := new(Event)
		if err := stream.RecvMsg(ev); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
