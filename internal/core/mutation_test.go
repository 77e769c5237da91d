package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"academycore/pkg/domain"
)

func TestAddAssignsFreshIDs(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()

	a, err := h.svc.AddStudent(ctx, domain.Student{ID: "caller-chosen", FirstName: "New"})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	b, err := h.svc.AddStudent(ctx, domain.Student{FirstName: "Other"})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	if a.ID == "caller-chosen" || a.ID == b.ID {
		t.Fatalf("ids not generated: %q %q", a.ID, b.ID)
	}
	if !domain.HasPrefix(a.ID, domain.PrefixStudent) {
		t.Fatalf("unexpected prefix %q", a.ID)
	}
	if !a.EnrollmentDate.Equal(fixedNow) {
		t.Fatalf("enrollment date not defaulted: %v", a.EnrollmentDate)
	}
	if got := len(h.svc.State().Students); got != 4 {
		t.Fatalf("expected 4 students, got %d", got)
	}
}

func TestGeneratedIDsUniqueAcrossTypes(t *testing.T) {
	ids := map[string]bool{}
	for _, prefix := range []domain.IDPrefix{domain.PrefixUser, domain.PrefixPayment, domain.PrefixUser} {
		for i := 0; i < 200; i++ {
			id := domain.NewID(prefix)
			if ids[id] {
				t.Fatalf("duplicate id %s", id)
			}
			ids[id] = true
		}
	}
}

func TestUpdateAndDeleteMissingReturnNotFound(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	var dispatched int
	h.store.Subscribe(func(Transition) { dispatched++ })

	_, err := h.svc.UpdateStudent(ctx, "ghost", func(*domain.Student) error { return nil })
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.Collection != CollectionStudents || nf.ID != "ghost" {
		t.Fatalf("expected ErrNotFound for students/ghost, got %v", err)
	}
	if err := h.svc.DeletePayment(ctx, "ghost"); !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := h.svc.UpdatePayment(ctx, "ghost", domain.PaymentPatch{}); !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if dispatched != 0 {
		t.Fatalf("failed mutations dispatched %d times", dispatched)
	}
	if got := h.metrics.ops["update_student"]; len(got) != 1 || got[0] {
		t.Fatalf("failure not recorded: %v", got)
	}
}

func TestUpdateRejectsIDChange(t *testing.T) {
	h := newHarness(t, fixtureState())
	_, err := h.svc.UpdateUser(context.Background(), "u_admin", func(u *domain.User) error {
		u.ID = "u_other"
		return nil
	})
	if !errors.Is(err, ErrIDChanged) {
		t.Fatalf("expected ErrIDChanged, got %v", err)
	}
	if _, ok := Find[domain.User](h.svc.State(), "u_admin"); !ok {
		t.Fatalf("user lost")
	}
}

func TestUpdateMutatorErrorAborts(t *testing.T) {
	h := newHarness(t, fixtureState())
	boom := errors.New("invalid")
	_, err := h.svc.UpdateCategory(context.Background(), "cat_u15", func(c *domain.Category) error {
		c.Name = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	if c, _ := Find[domain.Category](h.svc.State(), "cat_u15"); c.Name != "U15" {
		t.Fatalf("aborted update was applied")
	}
}

func TestCanceledContextRejected(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.svc.AddCategory(ctx, domain.Category{Name: "U18"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(h.svc.State().Categories) != 1 {
		t.Fatalf("canceled add applied")
	}
}

func TestCategoryRenameVisibleThroughStudents(t *testing.T) {
	h := newHarness(t, fixtureState())
	if _, err := h.svc.UpdateCategory(context.Background(), "cat_u15", func(c *domain.Category) error {
		c.Name = "Under 15"
		return nil
	}); err != nil {
		t.Fatalf("update category: %v", err)
	}
	cat, ok := h.svc.StudentCategory("s1")
	if !ok || cat.Name != "Under 15" {
		t.Fatalf("join did not see rename: %+v", cat)
	}
	if _, ok := h.svc.StudentCategory("ghost"); ok {
		t.Fatalf("unknown student has no category")
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	initial := fixtureState()
	initial.Attendance = []domain.AttendanceRecord{{ID: "a1", StudentID: "s1"}, {ID: "a2", StudentID: "s2"}}
	initial.StudentLogs = []domain.StudentLogEntry{{ID: "l1", StudentID: "s1"}}
	initial.Evaluations = []domain.Evaluation{{ID: "e1", StudentID: "s1"}, {ID: "e2", StudentID: "s2"}}
	h := newHarness(t, initial)
	var transitions int
	h.store.Subscribe(func(Transition) { transitions++ })

	if err := h.svc.DeleteStudent(context.Background(), "s1"); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	st := h.svc.State()
	if len(st.Students) != 1 || len(st.Attendance) != 1 || len(st.StudentLogs) != 0 || len(st.Evaluations) != 1 {
		t.Fatalf("cascade incomplete: %d students, %d attendance, %d logs, %d evaluations",
			len(st.Students), len(st.Attendance), len(st.StudentLogs), len(st.Evaluations))
	}
	if transitions != 1 {
		t.Fatalf("cascade should be one transition, got %d", transitions)
	}
	if len(st.Payments) != 1 {
		t.Fatalf("payments are kept for the record")
	}
}

func TestDeleteCoachRemovesAccount(t *testing.T) {
	h := newHarness(t, fixtureState())
	if err := h.svc.DeleteCoach(context.Background(), "c1"); err != nil {
		t.Fatalf("delete coach: %v", err)
	}
	st := h.svc.State()
	if len(st.Coaches) != 0 {
		t.Fatalf("coach not deleted")
	}
	if _, ok := Find[domain.User](st, "u_coach"); ok {
		t.Fatalf("coach account not deleted")
	}
}

func TestDeleteCoachMatchesAccountByEmail(t *testing.T) {
	initial := fixtureState()
	initial.Coaches[0].UserID = ""
	h := newHarness(t, initial)
	if err := h.svc.DeleteCoach(context.Background(), "c1"); err != nil {
		t.Fatalf("delete coach: %v", err)
	}
	if _, ok := Find[domain.User](h.svc.State(), "u_coach"); ok {
		t.Fatalf("coach account not found by email")
	}
	if _, ok := Find[domain.User](h.svc.State(), "u_admin"); !ok {
		t.Fatalf("unrelated account removed")
	}
}

func TestToggleUserActive(t *testing.T) {
	h := newHarness(t, fixtureState())
	u, err := h.svc.ToggleUserActive(context.Background(), "u_off")
	if err != nil || !u.Active {
		t.Fatalf("toggle: %+v %v", u, err)
	}
}

func TestMarkAttendanceUpsertsPerDay(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	h.store.Dispatch(SetCurrentUser{User: &domain.User{ID: "u_coach", Role: domain.RoleCoach, Email: "coach@academy.com"}})

	morning := domain.At(fixedNow)
	first, err := h.svc.MarkAttendance(ctx, "s1", morning, domain.AttendancePresent, "")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if first.CoachID != "c1" {
		t.Fatalf("expected coach c1 recorded, got %q", first.CoachID)
	}
	evening := domain.At(fixedNow.Add(8 * time.Hour))
	second, err := h.svc.MarkAttendance(ctx, "s1", evening, domain.AttendanceLate, "traffic")
	if err != nil {
		t.Fatalf("mark again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same-day mark should update, got new id %s", second.ID)
	}
	st := h.svc.State()
	if len(st.Attendance) != 1 || st.Attendance[0].Status != domain.AttendanceLate || st.Attendance[0].Notes != "traffic" {
		t.Fatalf("unexpected attendance %+v", st.Attendance)
	}

	next := domain.At(fixedNow.AddDate(0, 0, 1))
	if _, err := h.svc.MarkAttendance(ctx, "s1", next, domain.AttendanceAbsent, ""); err != nil {
		t.Fatalf("mark next day: %v", err)
	}
	if got := len(h.svc.State().Attendance); got != 2 {
		t.Fatalf("expected a second record, got %d", got)
	}

	var nf ErrNotFound
	if _, err := h.svc.MarkAttendance(ctx, "ghost", morning, domain.AttendancePresent, ""); !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound for unknown student, got %v", err)
	}
}

func TestNotificationInbox(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	first, err := h.svc.AddNotification(ctx, domain.Notification{To: domain.RecipientAdmin, Title: "one"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.svc.AddNotification(ctx, domain.Notification{To: domain.RecipientAdmin, Title: "two"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.svc.AddNotification(ctx, domain.Notification{To: "u_parent", Title: "three"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	inbox := h.svc.NotificationsFor(domain.RecipientAdmin)
	if len(inbox) != 2 || inbox[0].Title != "two" {
		t.Fatalf("newest first expected: %+v", inbox)
	}

	if err := h.svc.MarkNotificationAsRead(ctx, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := h.svc.UnreadCount(domain.RecipientAdmin); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}
	changed, err := h.svc.MarkAllNotificationsAsRead(ctx, domain.RecipientAdmin)
	if err != nil || changed != 1 {
		t.Fatalf("mark all: %d %v", changed, err)
	}
	if got := h.svc.UnreadCount("u_parent"); got != 1 {
		t.Fatalf("other inbox touched: %d", got)
	}
	if err := h.svc.DeleteNotification(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(h.svc.NotificationsFor(domain.RecipientAdmin)); got != 1 {
		t.Fatalf("expected 1 admin notification left, got %d", got)
	}
}

func TestEvaluationOverallScore(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	ev, err := h.svc.AddEvaluation(ctx, domain.Evaluation{StudentID: "s1", Scores: map[string]float64{"serve": 8, "pass": 6}})
	if err != nil {
		t.Fatalf("add evaluation: %v", err)
	}
	if ev.OverallScore != 7 {
		t.Fatalf("expected 7, got %v", ev.OverallScore)
	}
	ev, err = h.svc.UpdateEvaluation(ctx, ev.ID, func(e *domain.Evaluation) error {
		e.Scores["block"] = 10
		e.OverallScore = 1
		return nil
	})
	if err != nil {
		t.Fatalf("update evaluation: %v", err)
	}
	if ev.OverallScore != 8 {
		t.Fatalf("expected 8, got %v", ev.OverallScore)
	}
	if OverallScore(nil) != 0 {
		t.Fatalf("empty scores should average to zero")
	}
}

func TestLogsAndEventsCRUD(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()

	entry, err := h.svc.AddStudentLog(ctx, domain.StudentLogEntry{StudentID: "s1", Content: "great serve"})
	if err != nil || !entry.Date.Equal(fixedNow) {
		t.Fatalf("add log: %+v %v", entry, err)
	}
	if _, err := h.svc.UpdateStudentLog(ctx, entry.ID, func(e *domain.StudentLogEntry) error {
		e.Content = "great float serve"
		return nil
	}); err != nil {
		t.Fatalf("update log: %v", err)
	}
	if err := h.svc.DeleteStudentLog(ctx, entry.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}

	event, err := h.svc.AddEvent(ctx, domain.Event{Title: "Tournament", CategoryIDs: []string{"cat_u15"}})
	if err != nil {
		t.Fatalf("add event: %v", err)
	}
	if _, err := h.svc.UpdateEvent(ctx, event.ID, func(e *domain.Event) error {
		e.Location = "Gym"
		return nil
	}); err != nil {
		t.Fatalf("update event: %v", err)
	}
	got, _ := Find[domain.Event](h.svc.State(), event.ID)
	if got.Location != "Gym" {
		t.Fatalf("event not updated")
	}
	if err := h.svc.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if len(h.svc.State().Events) != 0 || len(h.svc.State().StudentLogs) != 0 {
		t.Fatalf("deletes not applied")
	}
}

func TestAttendanceAndCoachCRUD(t *testing.T) {
	h := newHarness(t, fixtureState())
	ctx := context.Background()
	rec, err := h.svc.AddAttendance(ctx, domain.AttendanceRecord{StudentID: "s2", Status: domain.AttendanceAbsent})
	if err != nil {
		t.Fatalf("add attendance: %v", err)
	}
	if _, err := h.svc.UpdateAttendance(ctx, rec.ID, func(r *domain.AttendanceRecord) error {
		r.Status = domain.AttendanceExcused
		return nil
	}); err != nil {
		t.Fatalf("update attendance: %v", err)
	}
	if err := h.svc.DeleteAttendance(ctx, rec.ID); err != nil {
		t.Fatalf("delete attendance: %v", err)
	}

	coach, err := h.svc.AddCoach(ctx, domain.Coach{FirstName: "Nina", CategoryIDs: []string{"cat_u15"}})
	if err != nil || !coach.HireDate.Equal(fixedNow) {
		t.Fatalf("add coach: %+v %v", coach, err)
	}
	if _, err := h.svc.UpdateCoach(ctx, coach.ID, func(c *domain.Coach) error {
		c.Specialization = "setter"
		return nil
	}); err != nil {
		t.Fatalf("update coach: %v", err)
	}
	user, err := h.svc.AddUser(ctx, domain.User{Email: "x@academy.com"})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if err := h.svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := h.svc.DeleteCategory(ctx, "cat_u15"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, ok := h.svc.StudentCategory("s1"); ok {
		t.Fatalf("deleted category still joined")
	}
}

func TestToggleDarkModeThroughService(t *testing.T) {
	h := newHarness(t, fixtureState())
	on, err := h.svc.ToggleDarkMode(context.Background())
	if err != nil || !on {
		t.Fatalf("toggle: %v %v", on, err)
	}
	off, _ := h.svc.ToggleDarkMode(context.Background())
	if off {
		t.Fatalf("second toggle should disable")
	}
}
