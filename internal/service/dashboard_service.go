package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type dashboardCounters interface {
	CountRooms(ctx context.Context) (int, error)
	CountEquipment(ctx context.Context) (int, error)
	CountSchedules(ctx context.Context) (int, error)
	CountPendingRoomReservations(ctx context.Context) (int, error)
	CountPendingEquipmentReservations(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
}

// DashboardService aggregates headline counts for the admin landing page.
type DashboardService struct {
	counters dashboardCounters
	logger   *zap.Logger
}

// NewDashboardService instantiates DashboardService.
func NewDashboardService(counters dashboardCounters, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{counters: counters, logger: logger}
}

// Summary collects all dashboard counts. Any single failing count aborts
// the whole summary; a partially populated dashboard is misleading.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := models.DashboardSummary{}

	var err error
	if summary.Rooms, err = s.counters.CountRooms(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count rooms")
	}
	if summary.Equipment, err = s.counters.CountEquipment(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count equipment")
	}
	if summary.Schedules, err = s.counters.CountSchedules(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count schedules")
	}
	if summary.PendingRoomRequests, err = s.counters.CountPendingRoomReservations(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending room requests")
	}
	if summary.PendingEquipmentLoans, err = s.counters.CountPendingEquipmentReservations(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending equipment loans")
	}
	if summary.ActiveUsers, err = s.counters.CountActiveUsers(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active users")
	}

	return &summary, nil
}

// DashboardCounterSet adapts the individual repositories to the aggregate
// counter interface consumed by DashboardService.
type DashboardCounterSet struct {
	Rooms                 interface{ Count(context.Context) (int, error) }
	Equipment             interface{ Count(context.Context) (int, error) }
	Schedules             interface{ Count(context.Context) (int, error) }
	RoomReservations      interface{ CountPending(context.Context) (int, error) }
	EquipmentReservations interface{ CountPending(context.Context) (int, error) }
	Users                 interface{ CountActive(context.Context) (int, error) }
}

func (c DashboardCounterSet) CountRooms(ctx context.Context) (int, error) { return c.Rooms.Count(ctx) }

func (c DashboardCounterSet) CountEquipment(ctx context.Context) (int, error) {
	return c.Equipment.Count(ctx)
}

func (c DashboardCounterSet) CountSchedules(ctx context.Context) (int, error) {
	return c.Schedules.Count(ctx)
}

func (c DashboardCounterSet) CountPendingRoomReservations(ctx context.Context) (int, error) {
	return c.RoomReservations.CountPending(ctx)
}

func (c DashboardCounterSet) CountPendingEquipmentReservations(ctx context.Context) (int, error) {
	return c.EquipmentReservations.CountPending(ctx)
}

func (c DashboardCounterSet) CountActiveUsers(ctx context.Context) (int, error) {
	return c.Users.CountActive(ctx)
}
