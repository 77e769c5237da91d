package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"academycore/pkg/domain"
)

// Clock supplies the current time to the service.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes the outcome of each mutation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type serviceOptions struct {
	clock   Clock
	logger  *slog.Logger
	metrics MetricsRecorder
	newID   domain.IDGenerator
	bus     *EventBus
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceOptions)

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:   ClockFunc(time.Now),
		logger:  slog.Default(),
		metrics: noopMetricsRecorder{},
		newID:   domain.NewID,
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder installs a recorder for mutation outcomes.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen domain.IDGenerator) ServiceOption {
	return func(o *serviceOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithEventBus publishes domain events on bus instead of a private one.
func WithEventBus(bus *EventBus) ServiceOption {
	return func(o *serviceOptions) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// ErrNotFound is returned when a mutation names an entity that does not exist.
type ErrNotFound struct {
	Collection Collection
	ID         string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Collection, e.ID)
}

// ErrIDChanged is returned when an update mutator rewrites the entity ID.
var ErrIDChanged = errors.New("entity id cannot be changed")

// Service is the mutation API. Every call runs to completion, including the
// cascaded dispatches and event handlers it triggers, before the next starts.
type Service struct {
	mu      sync.Mutex
	store   *Store
	bus     *EventBus
	clock   Clock
	logger  *slog.Logger
	metrics MetricsRecorder
	newID   domain.IDGenerator
}

// NewService constructs a service dispatching into store.
func NewService(store *Store, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bus == nil {
		o.bus = NewEventBus(o.logger)
	}
	return &Service{
		store:   store,
		bus:     o.bus,
		clock:   o.clock,
		logger:  o.logger,
		metrics: o.metrics,
		newID:   o.newID,
	}
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

// Bus returns the event bus domain events are published on.
func (s *Service) Bus() *EventBus { return s.bus }

// State returns the current store snapshot.
func (s *Service) State() State { return s.store.State() }

func (s *Service) now() domain.Instant { return domain.At(s.clock.Now()) }

func (s *Service) run(ctx context.Context, op string, fn func(State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock.Now()
	err := fn(s.store.State())
	duration := s.clock.Now().Sub(start)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logger.Debug("mutation failed", "operation", op, "error", err)
		return err
	}
	s.logger.Debug("mutation applied", "operation", op, "duration", duration)
	return nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", "event_type", event.EventType(), "aggregate_id", event.AggregateID(), "error", err)
	}
}

func addEntity[T domain.Entity](s *Service, ctx context.Context, op string, item T) (T, error) {
	err := s.run(ctx, op, func(State) error {
		s.store.Dispatch(Add[T]{Item: item})
		return nil
	})
	return item, err
}

// updateEntity applies mutator to a private copy of the entity and stores
// the result.
func updateEntity[T domain.Entity](s *Service, ctx context.Context, op, id string, mutator func(*T) error) (T, error) {
	var updated T
	err := s.run(ctx, op, func(st State) error {
		var err error
		updated, err = mutate(st, id, mutator)
		if err != nil {
			return err
		}
		s.store.Dispatch(Update[T]{ID: id, Apply: func(T) T { return updated }})
		return nil
	})
	return updated, err
}

func mutate[T domain.Entity](st State, id string, mutator func(*T) error) (T, error) {
	current, ok := Find[T](st, id)
	if !ok {
		var zero T
		return zero, ErrNotFound{Collection: collectionOf[T](), ID: id}
	}
	if mutator != nil {
		if err := mutator(&current); err != nil {
			return current, err
		}
	}
	if current.EntityID() != id {
		return current, fmt.Errorf("%s %s: %w", collectionOf[T](), id, ErrIDChanged)
	}
	return current, nil
}

func deleteEntity[T domain.Entity](s *Service, ctx context.Context, op, id string) error {
	return s.run(ctx, op, func(st State) error {
		if _, ok := Find[T](st, id); !ok {
			return ErrNotFound{Collection: collectionOf[T](), ID: id}
		}
		s.store.Dispatch(Delete[T]{ID: id})
		return nil
	})
}

// AddUser appends a user with a generated ID.
func (s *Service) AddUser(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = s.newID(domain.PrefixUser)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	return addEntity(s, ctx, "add_user", user)
}

// UpdateUser mutates a user.
func (s *Service) UpdateUser(ctx context.Context, id string, mutator func(*domain.User) error) (domain.User, error) {
	return updateEntity(s, ctx, "update_user", id, mutator)
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return deleteEntity[domain.User](s, ctx, "delete_user", id)
}

// ToggleUserActive flips whether a user may log in.
func (s *Service) ToggleUserActive(ctx context.Context, id string) (domain.User, error) {
	return updateEntity(s, ctx, "toggle_user_active", id, func(u *domain.User) error {
		u.Active = !u.Active
		return nil
	})
}

// AddCategory appends a category with a generated ID.
func (s *Service) AddCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	category.ID = s.newID(domain.PrefixCategory)
	return addEntity(s, ctx, "add_category", category)
}

// UpdateCategory mutates a category. Students reference categories by ID, so
// the change is visible through StudentCategory immediately.
func (s *Service) UpdateCategory(ctx context.Context, id string, mutator func(*domain.Category) error) (domain.Category, error) {
	return updateEntity(s, ctx, "update_category", id, mutator)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return deleteEntity[domain.Category](s, ctx, "delete_category", id)
}

// AddStudent appends a student with a generated ID.
func (s *Service) AddStudent(ctx context.Context, student domain.Student) (domain.Student, error) {
	student.ID = s.newID(domain.PrefixStudent)
	if student.EnrollmentDate.IsZero() {
		student.EnrollmentDate = s.now()
	}
	return addEntity(s, ctx, "add_student", student)
}

// UpdateStudent mutates a student.
func (s *Service) UpdateStudent(ctx context.Context, id string, mutator func(*domain.Student) error) (domain.Student, error) {
	return updateEntity(s, ctx, "update_student", id, mutator)
}

// DeleteStudent removes a student together with its attendance records, log
// entries and evaluations.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.run(ctx, "delete_student", func(st State) error {
		if _, ok := Find[domain.Student](st, id); !ok {
			return ErrNotFound{Collection: CollectionStudents, ID: id}
		}
		var actions []Action
		for _, rec := range st.Attendance {
			if rec.StudentID == id {
				actions = append(actions, Delete[domain.AttendanceRecord]{ID: rec.ID})
			}
		}
		for _, entry := range st.StudentLogs {
			if entry.StudentID == id {
				actions = append(actions, Delete[domain.StudentLogEntry]{ID: entry.ID})
			}
		}
		for _, ev := range st.Evaluations {
			if ev.StudentID == id {
				actions = append(actions, Delete[domain.Evaluation]{ID: ev.ID})
			}
		}
		actions = append(actions, Delete[domain.Student]{ID: id})
		s.store.Dispatch(actions...)
		return nil
	})
}

// AddCoach appends a coach with a generated ID.
func (s *Service) AddCoach(ctx context.Context, coach domain.Coach) (domain.Coach, error) {
	coach.ID = s.newID(domain.PrefixCoach)
	if coach.HireDate.IsZero() {
		coach.HireDate = s.now()
	}
	return addEntity(s, ctx, "add_coach", coach)
}

// UpdateCoach mutates a coach.
func (s *Service) UpdateCoach(ctx context.Context, id string, mutator func(*domain.Coach) error) (domain.Coach, error) {
	return updateEntity(s, ctx, "update_coach", id, mutator)
}

// DeleteCoach removes a coach and the login account associated with it.
func (s *Service) DeleteCoach(ctx context.Context, id string) error {
	return s.run(ctx, "delete_coach", func(st State) error {
		coach, ok := Find[domain.Coach](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionCoaches, ID: id}
		}
		actions := []Action{Delete[domain.Coach]{ID: id}}
		if user, ok := coachUser(st, coach); ok {
			actions = append(actions, Delete[domain.User]{ID: user.ID})
		}
		s.store.Dispatch(actions...)
		return nil
	})
}

// coachUser resolves the account of a coach by UserID, falling back to a
// coach-role user with the same email.
func coachUser(st State, coach domain.Coach) (domain.User, bool) {
	if coach.UserID != "" {
		return Find[domain.User](st, coach.UserID)
	}
	if coach.Email == "" {
		return domain.User{}, false
	}
	for _, u := range st.Users {
		if u.Role == domain.RoleCoach && u.Email == coach.Email {
			return u, true
		}
	}
	return domain.User{}, false
}

// AddPayment appends a payment and publishes PaymentCreated.
func (s *Service) AddPayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	payment.ID = s.newID(domain.PrefixPayment)
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = s.now()
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	if payment.Approval == "" {
		payment.Approval = domain.ApprovalNone
	}
	err := s.run(ctx, "add_payment", func(State) error {
		s.store.Dispatch(Add[domain.Payment]{Item: payment})
		s.publish(ctx, PaymentCreated{
			BaseEvent: BaseEvent{Type: EventPaymentCreated, Timestamp: s.clock.Now(), Aggregate: payment.ID},
			Payment:   payment,
		})
		return nil
	})
	return payment, err
}

// UpdatePayment patches a payment and publishes PaymentUpdated carrying the
// stored value before the patch, so subscribers see the transition.
func (s *Service) UpdatePayment(ctx context.Context, id string, patch domain.PaymentPatch) (domain.Payment, error) {
	var after domain.Payment
	err := s.run(ctx, "update_payment", func(st State) error {
		before, ok := Find[domain.Payment](st, id)
		if !ok {
			return ErrNotFound{Collection: CollectionPayments, ID: id}
		}
		after = patch.Apply(before)
		s.store.Dispatch(Update[domain.Payment]{ID: id, Apply: patch.Apply})
		s.publish(ctx, PaymentUpdated{
			BaseEvent: BaseEvent{Type: EventPaymentUpdated, Timestamp: s.clock.Now(), Aggregate: id},
			Before:    before,
			After:     after,
		})
		return nil
	})
	return after, err
}

// ApprovePayment marks a payment approved and paid.
func (s *Service) ApprovePayment(ctx context.Context, id string) (domain.Payment, error) {
	return s.UpdatePayment(ctx, id, domain.PaymentPatch{
		Approval:        domain.Ptr(domain.ApprovalApproved),
		Status:          domain.Ptr(domain.PaymentPaid),
		PaidDate:        domain.Ptr(s.now()),
		RejectionReason: domain.Ptr(""),
	})
}

// RejectPayment marks a payment rejected, keeping it pending settlement.
func (s *Service) RejectPayment(ctx context.Context, id, reason string) (domain.Payment, error) {
	return s.UpdatePayment(ctx, id, domain.PaymentPatch{
		Approval:        domain.Ptr(domain.ApprovalRejected),
		Status:          domain.Ptr(domain.PaymentPending),
		RejectionReason: domain.Ptr(reason),
	})
}

// DeletePayment removes a payment. Notifications already emitted for it stay.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	return deleteEntity[domain.Payment](s, ctx, "delete_payment", id)
}

// AddAttendance appends an attendance record with a generated ID.
func (s *Service) AddAttendance(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	record.ID = s.newID(domain.PrefixAttendance)
	return addEntity(s, ctx, "add_attendance", record)
}

// UpdateAttendance mutates an attendance record.
func (s *Service) UpdateAttendance(ctx context.Context, id string, mutator func(*domain.AttendanceRecord) error) (domain.AttendanceRecord, error) {
	return updateEntity(s, ctx, "update_attendance", id, mutator)
}

// DeleteAttendance removes an attendance record.
func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	return deleteEntity[domain.AttendanceRecord](s, ctx, "delete_attendance", id)
}

// MarkAttendance records a student's attendance for the day of date,
// updating the existing record for that day if there is one.
func (s *Service) MarkAttendance(ctx context.Context, studentID string, date domain.Instant, status domain.AttendanceStatus, notes string) (domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	err := s.run(ctx, "mark_attendance", func(st State) error {
		if _, ok := Find[domain.Student](st, studentID); !ok {
			return ErrNotFound{Collection: CollectionStudents, ID: studentID}
		}
		for _, existing := range st.Attendance {
			if existing.StudentID == studentID && existing.Date.SameDay(date) {
				record = existing
				record.Status = status
				record.Notes = notes
				s.store.Dispatch(Update[domain.AttendanceRecord]{ID: existing.ID, Apply: func(domain.AttendanceRecord) domain.AttendanceRecord {
					return record
				}})
				return nil
			}
		}
		record = domain.AttendanceRecord{
			ID:        s.newID(domain.PrefixAttendance),
			StudentID: studentID,
			Date:      date,
			Status:    status,
			Notes:     notes,
		}
		if user := st.CurrentUser; user != nil && user.Role == domain.RoleCoach {
			record.CoachID = currentCoachID(st, *user)
		}
		s.store.Dispatch(Add[domain.AttendanceRecord]{Item: record})
		return nil
	})
	return record, err
}

func currentCoachID(st State, user domain.User) string {
	for _, c := range st.Coaches {
		if c.UserID == user.ID || (c.UserID == "" && c.Email == user.Email) {
			return c.ID
		}
	}
	return ""
}

// AddNotification prepends a notification with a generated ID.
func (s *Service) AddNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	n.ID = s.newID(domain.PrefixNotification)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	err := s.run(ctx, "add_notification", func(State) error {
		s.store.Dispatch(Prepend[domain.Notification]{Item: n})
		return nil
	})
	return n, err
}

// MarkNotificationAsRead sets the read flag of one notification.
func (s *Service) MarkNotificationAsRead(ctx context.Context, id string) error {
	_, err := updateEntity(s, ctx, "mark_notification_read", id, func(n *domain.Notification) error {
		n.Read = true
		return nil
	})
	return err
}

// MarkAllNotificationsAsRead marks every unread notification addressed to
// recipient as read and returns how many changed.
func (s *Service) MarkAllNotificationsAsRead(ctx context.Context, recipient string) (int, error) {
	var changed int
	err := s.run(ctx, "mark_all_notifications_read", func(st State) error {
		var actions []Action
		for _, n := range st.Notifications {
			if n.To == recipient && !n.Read {
				actions = append(actions, Update[domain.Notification]{ID: n.ID, Apply: markRead})
			}
		}
		changed = len(actions)
		if changed > 0 {
			s.store.Dispatch(actions...)
		}
		return nil
	})
	return changed, err
}

func markRead(n domain.Notification) domain.Notification {
	n.Read = true
	return n
}

// DeleteNotification removes a notification.
func (s *Service) DeleteNotification(ctx context.Context, id string) error {
	return deleteEntity[domain.Notification](s, ctx, "delete_notification", id)
}

// AddStudentLog appends a log entry with a generated ID.
func (s *Service) AddStudentLog(ctx context.Context, entry domain.StudentLogEntry) (domain.StudentLogEntry, error) {
	entry.ID = s.newID(domain.PrefixStudentLog)
	if entry.Date.IsZero() {
		entry.Date = s.now()
	}
	return addEntity(s, ctx, "add_student_log", entry)
}

// UpdateStudentLog mutates a log entry.
func (s *Service) UpdateStudentLog(ctx context.Context, id string, mutator func(*domain.StudentLogEntry) error) (domain.StudentLogEntry, error) {
	return updateEntity(s, ctx, "update_student_log", id, mutator)
}

// DeleteStudentLog removes a log entry.
func (s *Service) DeleteStudentLog(ctx context.Context, id string) error {
	return deleteEntity[domain.StudentLogEntry](s, ctx, "delete_student_log", id)
}

// AddEvaluation appends an evaluation with a generated ID and derived
// overall score.
func (s *Service) AddEvaluation(ctx context.Context, ev domain.Evaluation) (domain.Evaluation, error) {
	ev = domain.CloneEvaluation(ev)
	ev.ID = s.newID(domain.PrefixEvaluation)
	if ev.Date.IsZero() {
		ev.Date = s.now()
	}
	ev.OverallScore = OverallScore(ev.Scores)
	return addEntity(s, ctx, "add_evaluation", ev)
}

// UpdateEvaluation mutates an evaluation and re-derives its overall score.
func (s *Service) UpdateEvaluation(ctx context.Context, id string, mutator func(*domain.Evaluation) error) (domain.Evaluation, error) {
	return updateEntity(s, ctx, "update_evaluation", id, func(ev *domain.Evaluation) error {
		if mutator != nil {
			if err := mutator(ev); err != nil {
				return err
			}
		}
		ev.OverallScore = OverallScore(ev.Scores)
		return nil
	})
}

// DeleteEvaluation removes an evaluation.
func (s *Service) DeleteEvaluation(ctx context.Context, id string) error {
	return deleteEntity[domain.Evaluation](s, ctx, "delete_evaluation", id)
}

// OverallScore is the mean of the criterion scores, or zero without scores.
func OverallScore(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, v := range scores {
		total += v
	}
	return total / float64(len(scores))
}

// AddEvent appends a calendar event with a generated ID.
func (s *Service) AddEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	ev = domain.CloneEvent(ev)
	ev.ID = s.newID(domain.PrefixEvent)
	return addEntity(s, ctx, "add_event", ev)
}

// UpdateEvent mutates a calendar event.
func (s *Service) UpdateEvent(ctx context.Context, id string, mutator func(*domain.Event) error) (domain.Event, error) {
	return updateEntity(s, ctx, "update_event", id, mutator)
}

// DeleteEvent removes a calendar event.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return deleteEntity[domain.Event](s, ctx, "delete_event", id)
}

// ToggleDarkMode flips the theme preference and returns the new value.
func (s *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.run(ctx, "toggle_dark_mode", func(State) error {
		enabled = s.store.Dispatch(ToggleDarkMode{}).DarkMode
		return nil
	})
	return enabled, err
}

// StudentCategory joins a student with its category.
func (s *Service) StudentCategory(studentID string) (domain.Category, bool) {
	st := s.store.State()
	student, ok := Find[domain.Student](st, studentID)
	if !ok || student.CategoryID == "" {
		return domain.Category{}, false
	}
	return Find[domain.Category](st, student.CategoryID)
}

// ParentOf returns the parent account linked to a student.
func (s *Service) ParentOf(studentID string) (domain.User, bool) {
	return ParentOf(s.store.State(), studentID)
}

// NotificationsFor lists the notifications addressed to recipient, newest
// first.
func (s *Service) NotificationsFor(recipient string) []domain.Notification {
	var out []domain.Notification
	for _, n := range s.store.State().Notifications {
		if n.To == recipient {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount counts the unread notifications addressed to recipient.
func (s *Service) UnreadCount(recipient string) int {
	var count int
	for _, n := range s.store.State().Notifications {
		if n.To == recipient && !n.Read {
			count++
		}
	}
	return count
}
