package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal/core/events"
)

// Recipient is the resolved address of a mail target.
type Recipient struct {
	Name  string
	Email string
}

// Directory resolves user ids to mail recipients.
type Directory interface {
	RecipientByID(userID int64) (*Recipient, error)
}

// EventHandler turns domain events into queued mails.
type EventHandler struct {
	mailer    *Mailer
	directory Directory
	logger    *slog.Logger
}

func NewEventHandler(mailer *Mailer, directory Directory, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		mailer:    mailer,
		directory: directory,
		logger:    logger,
	}
}

func (h *EventHandler) HandleUserCreated(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.UserCreatedEvent)
	if !ok {
		return fmt.Errorf("expected UserCreatedEvent, got %T", event)
	}

	subject, body := welcomeMessage(evt.Name, evt.Email, evt.InitialPassword)
	h.mailer.Enqueue(Message{To: evt.Email, ToName: evt.Name, Subject: subject, Body: body})
	return nil
}

func (h *EventHandler) HandleLeaveSubmitted(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.LeaveSubmittedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveSubmittedEvent, got %T", event)
	}

	if evt.ManagerID == nil {
		h.logger.Debug("no manager to notify", "application_id", evt.ApplicationID)
		return nil
	}

	manager, err := h.directory.RecipientByID(*evt.ManagerID)
	if err != nil {
		h.logger.Warn("could not resolve manager for notification",
			"error", err, "manager_id", *evt.ManagerID, "application_id", evt.ApplicationID)
		return nil
	}

	subject, body := submissionMessage(manager.Name, evt.EmployeeName, evt.LeaveType,
		evt.StartDate, evt.EndDate, evt.Days, evt.Reason)
	h.mailer.Enqueue(Message{To: manager.Email, ToName: manager.Name, Subject: subject, Body: body})
	return nil
}

func (h *EventHandler) HandleLeaveDecided(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		return fmt.Errorf("expected LeaveDecidedEvent, got %T", event)
	}

	employee, err := h.directory.RecipientByID(evt.EmployeeID)
	if err != nil {
		h.logger.Warn("could not resolve employee for notification",
			"error", err, "employee_id", evt.EmployeeID, "application_id", evt.ApplicationID)
		return nil
	}

	subject, body := statusMessage(employee.Name, evt.LeaveType,
		evt.StartDate, evt.EndDate, evt.Status, evt.DeciderName, evt.Remarks)
	h.mailer.Enqueue(Message{To: employee.Email, ToName: employee.Name, Subject: subject, Body: body})
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeUserCreated, h.HandleUserCreated)
	eventBus.Subscribe(events.EventTypeLeaveSubmitted, h.HandleLeaveSubmitted)
	eventBus.Subscribe(events.EventTypeLeaveDecided, h.HandleLeaveDecided)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeUserCreated, events.EventTypeLeaveSubmitted, events.EventTypeLeaveDecided})
}
