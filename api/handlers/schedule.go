package handlers

import (
	"context"

	"socialcal/models"
	"socialcal/services"
)

type UpdateScheduleArgs struct {
	Key string `json:"key"`
	services.ScheduleInput
}

type ScheduleKeyArgs struct {
	Key string `json:"key"`
}

func (d *Dispatcher) registerScheduleOps() {
	d.protected(OpCreateSchedule, typed(func(ctx context.Context, id *services.Identity, in services.ScheduleInput) (*services.ScheduleResult, error) {
		return d.schedules.Create(ctx, id, in)
	}))
	d.protected(OpUpdateSchedule, typed(func(ctx context.Context, id *services.Identity, in UpdateScheduleArgs) (*services.MutationResult, error) {
		return d.schedules.Update(ctx, id, in.Key, in.ScheduleInput)
	}))
	d.protected(OpDeleteSchedule, typed(func(ctx context.Context, id *services.Identity, in ScheduleKeyArgs) (*services.MutationResult, error) {
		return d.schedules.Delete(ctx, id, in.Key)
	}))
	d.protected(OpMySchedules, typed(func(ctx context.Context, id *services.Identity, _ noArgs) ([]models.ScheduleEntry, error) {
		return d.schedules.List(ctx, id)
	}))
}
