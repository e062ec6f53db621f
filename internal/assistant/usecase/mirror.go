package usecase

import (
	"context"
	"time"

	"family-hub/internal/model"
	"family-hub/pkg/gcalendar"
)

const mirrorTimeout = 5 * time.Second

// mirrorEvent copies a created event to Google Calendar. It never affects the outcome.
func (uc *implUseCase) mirrorEvent(ctx context.Context, a model.Action) {
	if uc.calendar == nil {
		return
	}
	start, ok := a.Time(model.FieldStart)
	if !ok {
		return
	}
	allDay, _ := a.Fields[model.FieldAllDay].(bool)
	end, ok := a.Time(model.FieldEnd)
	if !ok {
		end = start.Add(time.Hour)
		if allDay {
			end = start.AddDate(0, 0, 1)
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
	defer cancel()

	ev, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  uc.calendarID,
		Summary:     a.String(model.FieldTitle),
		Description: a.String(model.FieldDescription),
		Location:    a.String(model.FieldLocation),
		StartTime:   start,
		EndTime:     end,
		AllDay:      allDay,
		Timezone:    uc.loc.String(),
	})
	if err != nil {
		uc.l.Warnf(ctx, "%s: %v", LogPrefixMirror, err)
		return
	}
	uc.l.Debugf(ctx, "%s: mirrored %s as %s", LogPrefixMirror, a.String(model.FieldID), ev.ID)
}
