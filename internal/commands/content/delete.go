package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-content-sync/internal/commands"
	"github.com/goliatone/go-content-sync/internal/coordinator"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

const deleteContentMessageType = "contentsync.record.delete"

// DeleteContentCommand tombstones a record; the document and its audit
// trail are retained.
type DeleteContentCommand struct {
	RecordID uuid.UUID `json:"record_id"`
}

// Type implements command.Message.
func (DeleteContentCommand) Type() string { return deleteContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.RecordID == uuid.Nil {
		errs["record_id"] = validation.NewError("contentsync.record.delete.record_id_required", "record_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteContentHandler soft-deletes records through the panel.
type DeleteContentHandler struct {
	inner *commands.Handler[DeleteContentCommand]
}

// NewDeleteContentHandler constructs a handler wired to the provided panel.
func NewDeleteContentHandler(panel coordinator.Panel, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteContentCommand]) *DeleteContentHandler {
	exec := func(ctx context.Context, msg DeleteContentCommand) error {
		return panel.Delete(ctx, msg.RecordID)
	}

	handlerOpts := []commands.HandlerOption[DeleteContentCommand]{
		commands.WithLogger[DeleteContentCommand](logger),
		commands.WithOperation[DeleteContentCommand]("record.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteContentHandler{
		inner: commands.NewHandler[DeleteContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteContentCommand].Execute.
func (h *DeleteContentHandler) Execute(ctx context.Context, msg DeleteContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
