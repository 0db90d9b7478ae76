package service

import (
	"context"

	"github.com/herevemarket/admin_console/internal/models"
)

// ActivityRecorder receives every successful console mutation. Recorders
// handle their own failures; a mutation never fails because of its record.
type ActivityRecorder interface {
	Record(ctx context.Context, activity models.Activity)
}

// MultiRecorder fans an activity out to several recorders in order.
type MultiRecorder []ActivityRecorder

func (m MultiRecorder) Record(ctx context.Context, activity models.Activity) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, activity)
		}
	}
}

// NopRecorder discards activities.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, models.Activity) {}
