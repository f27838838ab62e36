package dto

import (
	"context"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/pkg/validation"
)

// EventCreateSchema: ISO dates, endDate at or after startDate, optional owner.
var EventCreateSchema = validation.Schema{
	Name:     "event.create",
	Presence: validation.Required,
	Fields: []validation.Field{
		{Name: "title", Rules: length(TitleMin, TitleMax)},
		{Name: "description", Rules: length(DescriptionMin, DescriptionMax)},
		{Name: "startDate", Type: validation.TypeDate, ISO: true},
		{Name: "endDate", Type: validation.TypeDate, ISO: true},
		{Name: "user", Rules: "objectid", Optional: true},
	},
	Rules: []validation.Rule{validation.NotBefore("endDate", "startDate")},
}

// EventUpdateSchema is weaker than create: startDate must precede the
// supplied or stored endDate and endDate must lie in the future. Unknown
// keys are tolerated.
var EventUpdateSchema = validation.Schema{
	Name:         "event.update",
	Presence:     validation.Optional,
	AllowUnknown: true,
	Fields: []validation.Field{
		{Name: "title", Rules: length(TitleMin, TitleMax)},
		{Name: "description", Rules: length(DescriptionMin, DescriptionMax)},
		{Name: "startDate", Type: validation.TypeDate},
		{Name: "endDate", Type: validation.TypeDate},
		{Name: "user", Rules: "objectid"},
	},
	Rules: []validation.Rule{
		validation.MinKeys(1, apperror.MsgNothingToUpdate),
		validation.Before("startDate", "endDate"),
		validation.AfterNow("endDate"),
	},
}

// ValidateEvent validates a raw event record. existing is the stored event
// for updates and may be nil on create.
func (v *Validator) ValidateEvent(_ context.Context, raw map[string]any, mode Mode, existing *entity.Event, opts Options) (map[string]any, error) {
	schema := EventCreateSchema
	var stored map[string]any
	if mode == ModeUpdate {
		schema = EventUpdateSchema
		if existing != nil {
			stored = map[string]any{
				"startDate": existing.StartDate,
				"endDate":   existing.EndDate,
			}
		}
	}
	rec, err := v.run(raw, schema, stored, opts)
	if err != nil {
		return nil, err
	}
	if owner, ok := rec["user"].(string); ok {
		rec["user"] = entity.NormalizeID(owner)
	}
	return rec, nil
}

// EventFromRecord builds a new event from a validated create record.
func EventFromRecord(m map[string]any) entity.Event {
	e := entity.Event{User: str(m, "user")}
	if s := str(m, "title"); s != nil {
		e.Title = *s
	}
	if s := str(m, "description"); s != nil {
		e.Description = *s
	}
	if t := date(m, "startDate"); t != nil {
		e.StartDate = *t
	}
	if t := date(m, "endDate"); t != nil {
		e.EndDate = *t
	}
	return e
}

// EventPatchFromRecord builds a patch from a validated update record; keys
// outside the schema are ignored.
func EventPatchFromRecord(m map[string]any) entity.EventPatch {
	return entity.EventPatch{
		Title:       str(m, "title"),
		Description: str(m, "description"),
		StartDate:   date(m, "startDate"),
		EndDate:     date(m, "endDate"),
		User:        str(m, "user"),
	}
}
