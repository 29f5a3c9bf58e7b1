// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"online-course-platform/internal/domain"
	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/adapter"
	"online-course-platform/internal/domain/ports/repository"
)

// In-memory fakes. Each guards its map with a mutex so tests may exercise
// concurrent deliveries.

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*model.Payment
	saveErr  error
	findErr  error
}

var _ repository.PaymentRepository = (*memPaymentRepo)(nil)

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (r *memPaymentRepo) Save(ctx context.Context, qx any, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *p
	r.payments[p.SessionID] = &cp
	return nil
}

func (r *memPaymentRepo) FindBySessionID(ctx context.Context, qx any, sessionID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.payments[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) UpdateStatusIfPending(ctx context.Context, qx any, sessionID string, status model.PaymentStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[sessionID]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	switch status {
	case model.PaymentStatusCompleted:
		p.CompletedAt = &at
	case model.PaymentStatusFailed:
		p.FailedAt = &at
	}
	return true, nil
}

func (r *memPaymentRepo) FindCompletedByUserAndCourse(ctx context.Context, qx any, userID, courseID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, p := range r.payments {
		if p.UserID == userID && p.CourseID == courseID && p.Status == model.PaymentStatusCompleted {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memPaymentRepo) ListPendingOlderThan(ctx context.Context, qx any, cutoff time.Time, limit int) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.payments {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memPaymentRepo) MarkPendingFailedByUser(ctx context.Context, qx any, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.payments {
		if p.UserID == userID && p.Status == model.PaymentStatusPending {
			p.Status = model.PaymentStatusFailed
			p.FailedAt = &at
			n++
		}
	}
	return n, nil
}

type memUserRepo struct {
	mu       sync.Mutex
	users    map[string]*model.User
	findErr  error
	grantErr error
	grants   int
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	cp.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	return &cp, nil
}

func (r *memUserRepo) GrantCourseAccess(ctx context.Context, qx any, userID, courseID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grantErr != nil {
		return r.grantErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	r.grants++
	u.CourseAccess = true
	for _, c := range u.EnrolledCourses {
		if c == courseID {
			return nil
		}
	}
	u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	u.UpdatedAt = at
	return nil
}

func (r *memUserRepo) SetCustomerID(ctx context.Context, qx any, userID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.CustomerID = customerID
	return nil
}

type memCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
}

var _ repository.CourseRepository = (*memCourseRepo)(nil)

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[string]*model.Course)}
}

func (r *memCourseRepo) Save(ctx context.Context, qx any, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *memCourseRepo) FindByID(ctx context.Context, qx any, id string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type memEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[string]*model.Enrollment
	insertErr   error
}

var _ repository.EnrollmentRepository = (*memEnrollmentRepo)(nil)

func newMemEnrollmentRepo() *memEnrollmentRepo {
	return &memEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (r *memEnrollmentRepo) Insert(ctx context.Context, qx any, e *model.Enrollment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	if _, ok := r.enrollments[e.ID]; ok {
		return false, nil
	}
	cp := *e
	r.enrollments[e.ID] = &cp
	return true, nil
}

func (r *memEnrollmentRepo) FindByKey(ctx context.Context, qx any, key string) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEnrollmentRepo) ListByUser(ctx context.Context, qx any, userID string) ([]*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Enrollment
	for _, e := range r.enrollments {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memEnrollmentRepo) TouchLastAccessed(ctx context.Context, qx any, key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[key]
	if !ok {
		return domain.ErrNotFound
	}
	e.LastAccessedAt = &at
	return nil
}

type memProgressRepo struct {
	mu      sync.Mutex
	records map[string]*model.CourseProgress
	initErr error
}

var _ repository.ProgressRepository = (*memProgressRepo)(nil)

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[string]*model.CourseProgress)}
}

func (r *memProgressRepo) Init(ctx context.Context, qx any, p *model.CourseProgress) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initErr != nil {
		return false, r.initErr
	}
	if _, ok := r.records[p.ID]; ok {
		return false, nil
	}
	cp := *p
	r.records[p.ID] = &cp
	return true, nil
}

func (r *memProgressRepo) FindByKey(ctx context.Context, qx any, key string) (*model.CourseProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memActivityRepo struct {
	mu         sync.Mutex
	activities []*model.Activity
	saveErr    error
}

var _ repository.ActivityRepository = (*memActivityRepo)(nil)

func newMemActivityRepo() *memActivityRepo { return &memActivityRepo{} }

func (r *memActivityRepo) Save(ctx context.Context, qx any, a *model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *a
	r.activities = append(r.activities, &cp)
	return nil
}

type mockGateway struct {
	mu           sync.Mutex
	sessions     map[string]*adapter.CheckoutSession
	nextID       int
	customerErr  error
	sessionErr   error
	retrieveErr  error
	ensuredCalls int
}

var _ adapter.CheckoutGateway = (*mockGateway)(nil)

func newMockGateway() *mockGateway {
	return &mockGateway{sessions: make(map[string]*adapter.CheckoutSession)}
}

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.customerErr != nil {
		return "", g.customerErr
	}
	g.ensuredCalls++
	return "cus_" + email, nil
}

func (g *mockGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutSessionRequest) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	g.nextID++
	s := &adapter.CheckoutSession{
		ID:       fmt.Sprintf("cs_test_%d", g.nextID),
		URL:      "https://checkout.example.com/" + req.UserID,
		UserID:   req.UserID,
		CourseID: req.CourseID,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *mockGateway) RetrieveSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (g *mockGateway) markPaid(sessionID string, amount int64, currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionID]; ok {
		s.Paid = true
		s.AmountTotal = amount
		s.Currency = currency
	}
}

type mockNotifier struct {
	mu    sync.Mutex
	sent  []string
	fail  error
	calls int
}

var _ adapter.Notifier = (*mockNotifier)(nil)

func (n *mockNotifier) EnrollmentCompleted(ctx context.Context, userID, courseID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, userID+"/"+courseID)
	return nil
}
