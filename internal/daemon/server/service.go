package server

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/buildinfo"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/reminder"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/daemon/tracker"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
	"github.com/fremvaerk/horalis/internal/models"
	"github.com/fremvaerk/horalis/internal/store"
)

// subscribeBuffer is the per-subscriber event backlog; beyond it events are
// dropped for that subscriber.
const subscribeBuffer = 64

type trayService struct {
	deps   Deps
	server *Server
}

func (s *trayService) SetStatusLabel(_ context.Context, req *api.LabelRequest) (*emptypb.Empty, error) {
	if err := s.deps.Surface.SetLabel(req.Text); err != nil {
		return nil, status.Errorf(codes.Internal, "set label: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *trayService) ClearStatusLabel(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.deps.Surface.ClearLabel(); err != nil {
		return nil, status.Errorf(codes.Internal, "clear label: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *trayService) SetStatusColor(_ context.Context, req *api.ColorRequest) (*emptypb.Empty, error) {
	if err := s.deps.Surface.SetColor(req.Color, req.Name); err != nil {
		return nil, status.Errorf(codes.Internal, "set color: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *trayService) ResetStatusIcon(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.deps.Surface.ResetIcon(); err != nil {
		return nil, status.Errorf(codes.Internal, "reset icon: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *trayService) UpdateMenu(_ context.Context, req *api.MenuRequest) (*emptypb.Empty, error) {
	items := make([]tray.ProjectItem, 0, len(req.Projects))
	for _, p := range req.Projects {
		items = append(items, tray.ProjectItem{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	if err := s.deps.Surface.UpdateMenu(items, req.Running); err != nil {
		return nil, status.Errorf(codes.Internal, "update menu: %v", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *trayService) StartTimer(_ context.Context, req *api.StartTimerRequest) (*api.TimerStatus, error) {
	startMs := req.StartTimeMs
	if startMs == 0 {
		startMs = time.Now().UnixMilli()
	}
	s.deps.Timer.Start(timer.StartOptions{
		StartMs:            startMs,
		IdleEnabled:        req.IdleEnabled,
		IdleTimeoutMinutes: req.IdleTimeoutMinutes,
	})
	return s.timerStatus(), nil
}

func (s *trayService) StopTimer(context.Context, *emptypb.Empty) (*api.TimerStatus, error) {
	s.deps.Timer.Stop()
	return s.timerStatus(), nil
}

func (s *trayService) GetTimer(context.Context, *emptypb.Empty) (*api.TimerStatus, error) {
	return s.timerStatus(), nil
}

func (s *trayService) StartReminder(_ context.Context, req *api.ReminderRequest) (*api.ReminderStatus, error) {
	p, err := reminderPolicy(req)
	if err != nil {
		return nil, err
	}
	s.deps.Reminder.Configure(p)
	return s.reminderStatus(), nil
}

func (s *trayService) StopReminder(context.Context, *emptypb.Empty) (*api.ReminderStatus, error) {
	s.deps.Reminder.Disable()
	return s.reminderStatus(), nil
}

func (s *trayService) GetReminder(context.Context, *emptypb.Empty) (*api.ReminderStatus, error) {
	return s.reminderStatus(), nil
}

func (s *trayService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*api.DaemonStatus, error) {
	snap := s.deps.Surface.Snapshot()
	st := &api.DaemonStatus{
		Version:     buildinfo.Version,
		PID:         os.Getpid(),
		Port:        s.server.Port(),
		WebPort:     s.server.WebPort(),
		StartedAtMs: s.server.startedAt.UnixMilli(),
		Label:       snap.Label,
		Color:       snap.Color,
		Timer:       *s.timerStatus(),
		Reminder:    *s.reminderStatus(),
		Subscribers: s.deps.Bus.Subscribers(),
	}

	entry, err := s.deps.Store.RunningEntry(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, toStatus(err)
	default:
		st.Tracking = toAPIEntry(entry)
	}

	total, err := s.deps.Store.TodayTotal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	st.TodaySeconds = int64(total / time.Second)

	week, err := s.deps.Store.WeekTotal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	st.WeekSeconds = int64(week / time.Second)

	st.UpdateAvailable, st.LatestVersion, _ = s.server.GetUpdateState()
	return st, nil
}

func (s *trayService) ListProjects(ctx context.Context, _ *emptypb.Empty) (*api.ProjectList, error) {
	projects, err := s.deps.Store.ListProjects(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	list := &api.ProjectList{Projects: make([]api.Project, 0, len(projects))}
	for _, p := range projects {
		list.Projects = append(list.Projects, toAPIProject(p))
	}
	return list, nil
}

func (s *trayService) CreateProject(ctx context.Context, req *api.CreateProjectRequest) (*api.Project, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "project name is required")
	}
	p, err := s.deps.Store.CreateProject(ctx, req.Name, req.Color)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.deps.Tracker.RefreshMenu(ctx); err != nil {
		log.Printf("[server] Failed to refresh menu: %v", err)
	}
	out := toAPIProject(p)
	return &out, nil
}

func (s *trayService) TrackProject(ctx context.Context, req *api.TrackRequest) (*api.Entry, error) {
	entry, err := s.deps.Tracker.StartProject(ctx, req.ProjectID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAPIEntry(entry), nil
}

func (s *trayService) ListEntries(ctx context.Context, req *api.ListEntriesRequest) (*api.EntryList, error) {
	entries, err := s.deps.Store.RecentEntries(ctx, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	list := &api.EntryList{Entries: make([]api.Entry, 0, len(entries))}
	for _, e := range entries {
		list.Entries = append(list.Entries, *toAPIEntry(e))
	}
	return list, nil
}

func (s *trayService) StopTracking(ctx context.Context, _ *emptypb.Empty) (*api.StopResult, error) {
	n, err := s.deps.Tracker.Stop(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.StopResult{Stopped: n}, nil
}

func (s *trayService) Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	if s.deps.Shutdown == nil {
		return nil, status.Error(codes.Unimplemented, "shutdown is not available")
	}
	// Let the reply go out before the listeners close.
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.deps.Shutdown()
	}()
	return &emptypb.Empty{}, nil
}

func (s *trayService) Subscribe(_ *emptypb.Empty, stream api.EventStream) error {
	ch, cancel := s.deps.Bus.Subscribe(subscribeBuffer)
	defer cancel()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case <-s.server.done:
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(toAPIEvent(ev)); err != nil {
				return err
			}
		}
	}
}

func (s *trayService) timerStatus() *api.TimerStatus {
	sess, ok := s.deps.Timer.Status()
	if !ok {
		return &api.TimerStatus{}
	}
	elapsed := int64(sess.Elapsed(time.Now()) / time.Second)
	return &api.TimerStatus{
		Running:            true,
		StartTimeMs:        sess.StartMs,
		ElapsedSeconds:     elapsed,
		Label:              timer.FormatElapsed(elapsed),
		IdleEnabled:        sess.IdleEnabled,
		IdleTimeoutMinutes: int(sess.IdleTimeout / time.Minute),
	}
}

func (s *trayService) reminderStatus() *api.ReminderStatus {
	p, last, ok := s.deps.Reminder.Status()
	if !ok {
		return &api.ReminderStatus{}
	}
	st := &api.ReminderStatus{
		Enabled:         true,
		IntervalMinutes: int(p.Interval / time.Minute),
		Start:           p.Start,
		End:             p.End,
		Weekdays:        make([]int, 0, len(p.Weekdays)),
	}
	for _, d := range p.Weekdays {
		st.Weekdays = append(st.Weekdays, int(d))
	}
	if !last.IsZero() {
		st.LastNotifiedMs = last.UnixMilli()
	}
	return st
}

func reminderPolicy(req *api.ReminderRequest) (reminder.Policy, error) {
	p, err := reminder.FromSettings(models.ReminderSettings{
		Enabled:         req.Enabled,
		IntervalMinutes: req.IntervalMinutes,
		Start:           req.Start,
		End:             req.End,
		Weekdays:        req.Weekdays,
		Title:           req.Title,
		Message:         req.Message,
	})
	if err != nil {
		return reminder.Policy{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return p, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, tracker.ErrUnknownProject), errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func toAPIProject(p store.Project) api.Project {
	return api.Project{
		ID:          p.ID,
		Name:        p.Name,
		Color:       p.Color,
		CreatedAtMs: p.CreatedAt.UnixMilli(),
	}
}

func toAPIEntry(e store.TimeEntry) *api.Entry {
	out := &api.Entry{
		ID:              e.ID,
		ProjectID:       e.ProjectID,
		ProjectName:     e.ProjectName,
		ProjectColor:    e.ProjectColor,
		StartTimeMs:     e.StartTime.UnixMilli(),
		DurationSeconds: e.Duration,
	}
	if e.EndTime != nil {
		out.EndTimeMs = e.EndTime.UnixMilli()
	}
	return out
}

func toAPIEvent(ev events.Event) *api.Event {
	return &api.Event{
		Type:      string(ev.Type),
		Seconds:   ev.Seconds,
		ProjectID: ev.ProjectID,
		Message:   ev.Message,
		AtMs:      ev.At.UnixMilli(),
	}
}
