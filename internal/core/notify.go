package core

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"academycore/pkg/domain"
)

// NotificationSender is the From value of generated notifications.
const NotificationSender = "system"

// Notification types produced by payment transitions.
const (
	NotificationPaymentApproval = "payment_approval"
	NotificationPaymentApproved = "payment_approved"
	NotificationPaymentRejected = "payment_rejected"
)

// NotificationRecorder counts emitted notifications.
type NotificationRecorder interface {
	NotificationEmitted(recipient string)
}

type noopNotificationRecorder struct{}

func (noopNotificationRecorder) NotificationEmitted(string) {}

// NotificationEmitter turns payment approval transitions into notifications.
type NotificationEmitter struct {
	store    *Store
	now      func() time.Time
	newID    domain.IDGenerator
	logger   *slog.Logger
	recorder NotificationRecorder
}

// EmitterConfig configures a NotificationEmitter. Zero fields get defaults.
type EmitterConfig struct {
	Now      func() time.Time
	NewID    domain.IDGenerator
	Logger   *slog.Logger
	Recorder NotificationRecorder
}

// NewNotificationEmitter builds an emitter writing into store.
func NewNotificationEmitter(store *Store, cfg EmitterConfig) *NotificationEmitter {
	e := &NotificationEmitter{
		store:    store,
		now:      cfg.Now,
		newID:    cfg.NewID,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = domain.NewID
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.recorder == nil {
		e.recorder = noopNotificationRecorder{}
	}
	return e
}

// Register subscribes the emitter to payment events on bus.
func (e *NotificationEmitter) Register(bus *EventBus) error {
	if err := bus.Subscribe(EventPaymentCreated, e.handle); err != nil {
		return err
	}
	return bus.Subscribe(EventPaymentUpdated, e.handle)
}

func (e *NotificationEmitter) handle(_ context.Context, event Event) error {
	var before *domain.Payment
	var after domain.Payment
	switch ev := event.(type) {
	case PaymentCreated:
		after = ev.Payment
	case PaymentUpdated:
		before = &ev.Before
		after = ev.After
	default:
		return nil
	}
	draft, ok := PaymentNotification(e.store.State(), before, after)
	if !ok {
		return nil
	}
	draft.ID = e.newID(domain.PrefixNotification)
	draft.CreatedAt = domain.At(e.now())
	e.store.Dispatch(Prepend[domain.Notification]{Item: draft})
	e.recorder.NotificationEmitted(recipientLabel(draft.To))
	e.logger.Info("notification emitted", "notification_id", draft.ID, "to", draft.To, "payment_id", after.ID, "type", draft.Type)
	return nil
}

// PaymentNotification decides which notification, if any, a payment change
// produces. before is nil for a newly created payment. The returned draft has
// no ID or timestamp. Missing students or parents yield no notification.
func PaymentNotification(st State, before *domain.Payment, after domain.Payment) (domain.Notification, bool) {
	prev := domain.ApprovalNone
	if before != nil {
		prev = before.Approval
	} else if after.Approval != domain.ApprovalAwaiting {
		// Creation only announces payments that enter the approval queue.
		return domain.Notification{}, false
	}
	if prev == after.Approval {
		return domain.Notification{}, false
	}
	student, ok := Find[domain.Student](st, after.StudentID)
	if !ok {
		return domain.Notification{}, false
	}
	amount := formatAmount(after.Amount)
	name := student.FullName()

	switch after.Approval {
	case domain.ApprovalAwaiting:
		return domain.Notification{
			From:      NotificationSender,
			To:        domain.RecipientAdmin,
			Title:     "Payment pending approval",
			Message:   fmt.Sprintf("A payment of $%s for %s requires approval.", amount, name),
			Type:      NotificationPaymentApproval,
			Priority:  domain.PriorityHigh,
			PaymentID: after.ID,
		}, true
	case domain.ApprovalApproved:
		parent, ok := ParentOf(st, after.StudentID)
		if !ok {
			return domain.Notification{}, false
		}
		return domain.Notification{
			From:      NotificationSender,
			To:        parent.ID,
			Title:     "Payment approved",
			Message:   fmt.Sprintf("Your payment of $%s for %s has been approved.", amount, name),
			Type:      NotificationPaymentApproved,
			Priority:  domain.PriorityMedium,
			PaymentID: after.ID,
		}, true
	case domain.ApprovalRejected:
		parent, ok := ParentOf(st, after.StudentID)
		if !ok {
			return domain.Notification{}, false
		}
		msg := fmt.Sprintf("Your payment of $%s for %s has been rejected.", amount, name)
		if after.RejectionReason != "" {
			msg += " Reason: " + after.RejectionReason
		}
		return domain.Notification{
			From:      NotificationSender,
			To:        parent.ID,
			Title:     "Payment rejected",
			Message:   msg,
			Type:      NotificationPaymentRejected,
			Priority:  domain.PriorityHigh,
			PaymentID: after.ID,
		}, true
	}
	return domain.Notification{}, false
}

// ParentOf finds the parent account linked to a student.
func ParentOf(st State, studentID string) (domain.User, bool) {
	if studentID == "" {
		return domain.User{}, false
	}
	for _, u := range st.Users {
		if u.Role == domain.RoleParent && u.StudentID == studentID {
			return u, true
		}
	}
	return domain.User{}, false
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func recipientLabel(to string) string {
	if to == domain.RecipientAdmin {
		return domain.RecipientAdmin
	}
	return string(domain.RoleParent)
}
