package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-content-sync/internal/commands"
	"github.com/goliatone/go-content-sync/internal/coordinator"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/records"
)

const saveContentMessageType = "contentsync.record.save"

// SaveContentCommand composes and saves one record through a panel's edit
// session in a single dispatch: begin, apply the payload, save.
type SaveContentCommand struct {
	RecordID *uuid.UUID        `json:"record_id,omitempty"`
	Values   map[string]any    `json:"values,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
	Featured bool              `json:"featured"`
	// Order zero keeps the draft's seeded value.
	Order int `json:"order,omitempty"`
}

// Type implements command.Message.
func (SaveContentCommand) Type() string { return saveContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m SaveContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.RecordID != nil && *m.RecordID == uuid.Nil {
		errs["record_id"] = validation.NewError("contentsync.record.save.record_id_invalid", "record_id must not be the nil uuid")
	}
	if m.Order < 0 {
		errs["order"] = validation.NewError("contentsync.record.save.order_invalid", "order must be a positive integer")
	}
	if len(m.Values) == 0 && m.ImageURL == "" {
		errs["values"] = validation.NewError("contentsync.record.save.values_required", "values or image_url is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveContentHandler drives a panel's edit session from a command message.
type SaveContentHandler struct {
	inner *commands.Handler[SaveContentCommand]
}

// NewSaveContentHandler constructs a handler wired to the provided panel.
func NewSaveContentHandler(panel coordinator.Panel, logger interfaces.Logger, opts ...commands.HandlerOption[SaveContentCommand]) *SaveContentHandler {
	exec := func(ctx context.Context, msg SaveContentCommand) error {
		var (
			draft *records.Draft
			err   error
		)
		if msg.RecordID == nil {
			draft, err = panel.BeginCreate()
		} else {
			draft, err = panel.BeginEdit(*msg.RecordID)
		}
		if err != nil {
			return err
		}

		for field, value := range msg.Values {
			draft.Values[records.FieldName(field)] = value
		}
		if msg.ImageURL != "" {
			draft.ImageURL = msg.ImageURL
		}
		if len(msg.Links) > 0 {
			draft.Links = msg.Links
		}
		draft.Featured = msg.Featured
		if msg.Order > 0 {
			draft.Order = msg.Order
		}

		if err := panel.UpdateDraft(draft); err != nil {
			_ = panel.Cancel()
			return err
		}
		if _, err := panel.Save(ctx); err != nil {
			// One-shot dispatch: release the session so a corrected
			// message can be re-dispatched.
			_ = panel.Cancel()
			return err
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveContentCommand]{
		commands.WithLogger[SaveContentCommand](logger),
		commands.WithOperation[SaveContentCommand]("record.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveContentHandler{
		inner: commands.NewHandler[SaveContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveContentCommand].Execute.
func (h *SaveContentHandler) Execute(ctx context.Context, msg SaveContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
