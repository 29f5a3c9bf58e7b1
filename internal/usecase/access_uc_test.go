// File: internal/usecase/access_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
)

func newAccessFixture() (*memUserRepo, *memPaymentRepo, *memEnrollmentRepo, *accessUC) {
	users := newMemUserRepo()
	payments := newMemPaymentRepo()
	enrollments := newMemEnrollmentRepo()
	uc := NewAccessUseCase(users, payments, enrollments, "course-main", testLogger())
	return users, payments, enrollments, uc
}

func TestCheckCourseAccess_DenyByDefault(t *testing.T) {
	users, _, _, uc := newAccessFixture()
	seedUser(t, users, "u1")

	err := uc.CheckCourseAccess(context.Background(), "u1", "course-main")
	if !errors.Is(err, domain.ErrNoCourseAccess) {
		t.Fatalf("err = %v, want ErrNoCourseAccess", err)
	}
}

func TestCheckCourseAccess_EnrolledCourseAllows(t *testing.T) {
	users, _, _, uc := newAccessFixture()
	u := seedUser(t, users, "u1")
	u.EnrolledCourses = []string{"course-extra"}
	users.Save(context.Background(), nil, u)

	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-extra"); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	// Enrollment in one course grants nothing for another.
	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-main"); err == nil {
		t.Fatal("expected denial for unpurchased course")
	}
}

func TestCheckCourseAccess_CompletedPaymentAllows(t *testing.T) {
	users, payments, _, uc := newAccessFixture()
	u := seedUser(t, users, "u1")
	u.CourseAccess = true
	users.Save(context.Background(), nil, u)
	payments.Save(context.Background(), nil, &model.Payment{
		SessionID: "cs_1", UserID: "u1", CourseID: "course-extra",
		Status: model.PaymentStatusCompleted, CreatedAt: time.Now(),
	})

	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-extra"); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

func TestCheckCourseAccess_LegacyFlagCoversDefaultCourseOnly(t *testing.T) {
	users, _, _, uc := newAccessFixture()
	u := seedUser(t, users, "u1")
	u.CourseAccess = true
	users.Save(context.Background(), nil, u)

	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-main"); err != nil {
		t.Fatalf("default course: err = %v, want nil", err)
	}
	err := uc.CheckCourseAccess(context.Background(), "u1", "course-extra")
	if !errors.Is(err, domain.ErrCourseNotPurchased) {
		t.Fatalf("other course: err = %v, want ErrCourseNotPurchased", err)
	}
}

func TestCheckCourseAccess_UnknownUserDenies(t *testing.T) {
	_, _, _, uc := newAccessFixture()
	err := uc.CheckCourseAccess(context.Background(), "ghost", "course-main")
	if !errors.Is(err, domain.ErrNoCourseAccess) {
		t.Fatalf("err = %v, want ErrNoCourseAccess", err)
	}
}

func TestCheckCourseAccess_FailsClosedOnStoreError(t *testing.T) {
	users, payments, _, uc := newAccessFixture()
	u := seedUser(t, users, "u1")
	u.CourseAccess = true
	users.Save(context.Background(), nil, u)

	boom := errors.New("connection reset")
	payments.findErr = boom
	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-main"); !errors.Is(err, boom) {
		t.Fatalf("payment store error: err = %v, want propagation", err)
	}

	users.findErr = boom
	if err := uc.CheckCourseAccess(context.Background(), "u1", "course-main"); !errors.Is(err, boom) {
		t.Fatalf("user store error: err = %v, want propagation", err)
	}
}

func TestCheckCourseAccess_ValidatesInput(t *testing.T) {
	_, _, _, uc := newAccessFixture()
	if err := uc.CheckCourseAccess(context.Background(), "", "c"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if err := uc.CheckCourseAccess(context.Background(), "u", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestTouch_UpdatesLastAccessed(t *testing.T) {
	_, _, enrollments, uc := newAccessFixture()
	e, err := model.NewEnrollment("u1", "course-main", "cs_1", 10)
	if err != nil {
		t.Fatalf("NewEnrollment: %v", err)
	}
	enrollments.Insert(context.Background(), nil, e)

	uc.Touch(context.Background(), "u1", "course-main")

	got, _ := enrollments.FindByKey(context.Background(), nil, e.ID)
	if got.LastAccessedAt == nil {
		t.Fatal("last accessed not set")
	}

	// Missing enrollment is not an error path.
	uc.Touch(context.Background(), "ghost", "course-main")
}
