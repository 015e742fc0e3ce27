package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

var errStore = errors.New("store unavailable")

// fakeJobRepo keeps jobs and the bookings created by Award in memory.
type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[string]*models.Job
	bookings map[string]*models.Booking
	calls    int
	nextID   int
	// failCommit makes Award fail after the decision, before anything is written.
	failCommit error
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[string]*models.Job{}, bookings: map[string]*models.Booking{}}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func cloneJob(j *models.Job) *models.Job {
	c := *j
	c.Applications = append([]string(nil), j.Applications...)
	return &c
}

func (r *fakeJobRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeJobRepo) job(id string) *models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneJob(r.jobs[id])
}

func (r *fakeJobRepo) bookingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.nextID++
	job.ID = fmt.Sprintf("job-%d", r.nextID)
	r.jobs[job.ID] = cloneJob(job)
	return job.ID, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, jobID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job with ID '%s' not found: %w", jobID, db.ErrNotFound)
	}
	return cloneJob(j), nil
}

func (r *fakeJobRepo) list(keep func(*models.Job) bool) []*models.Job {
	out := []*models.Job{}
	for _, j := range r.jobs {
		if keep(j) {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

func (r *fakeJobRepo) ListByStatus(_ context.Context, status models.JobStatus) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.list(func(j *models.Job) bool { return j.Status == status }), nil
}

func (r *fakeJobRepo) ListByClient(_ context.Context, clientID string) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.list(func(j *models.Job) bool { return j.ClientID == clientID }), nil
}

func (r *fakeJobRepo) ListByApplicant(_ context.Context, providerID string) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.list(func(j *models.Job) bool { return j.HasApplicant(providerID) }), nil
}

func (r *fakeJobRepo) ListAll(_ context.Context) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.list(func(*models.Job) bool { return true }), nil
}

func (r *fakeJobRepo) AddApplicant(_ context.Context, jobID, providerID string, check db.ApplicationDecision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	j, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("job with ID '%s' not found: %w", jobID, db.ErrNotFound)
	}
	c := *j
	if err := check(&c); err != nil {
		return err
	}
	if !j.HasApplicant(providerID) {
		j.Applications = append(j.Applications, providerID)
	}
	j.UpdatedAt = time.Now()
	return nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, jobID string, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	j, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("job with ID '%s' not found: %w", jobID, db.ErrNotFound)
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.jobs[jobID]; !ok {
		return fmt.Errorf("job with ID '%s' not found for deletion: %w", jobID, db.ErrNotFound)
	}
	delete(r.jobs, jobID)
	return nil
}

// Award holds the lock for the whole read-decide-write, like a serialized transaction.
func (r *fakeJobRepo) Award(_ context.Context, jobID string, decide db.AwardDecision) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job with ID '%s' not found: %w", jobID, db.ErrNotFound)
	}
	b, err := decide(cloneJob(j))
	if err != nil {
		return nil, fmt.Errorf("award transaction for job '%s' failed: %w", jobID, err)
	}
	if r.failCommit != nil {
		return nil, fmt.Errorf("award transaction for job '%s' failed: %w", jobID, r.failCommit)
	}
	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	b.JobID = jobID
	r.bookings[b.ID] = b
	j.Status = models.JobStatusInProgress
	j.AwardedProviderID = b.ProviderID
	return b, nil
}

func (r *fakeJobRepo) WatchByStatus(ctx context.Context, _ models.JobStatus, _ func([]*models.Job)) error {
	<-ctx.Done()
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	calls int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", userID, db.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, userIDs []string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := []*models.User{}
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s': %w", email, db.ErrNotFound)
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.users[user.ID]; ok {
		return db.ErrAlreadyExists
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

type fakeReviewRepo struct {
	mu       sync.Mutex
	reviews  []*models.Review
	calls    int
	maxChunk int
	err      error
}

func (r *fakeReviewRepo) ListByProviders(_ context.Context, providerIDs []string) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(providerIDs) > r.maxChunk {
		r.maxChunk = len(providerIDs)
	}
	if r.err != nil {
		return nil, r.err
	}
	if len(providerIDs) > db.MaxInQueryValues {
		return nil, fmt.Errorf("'in' query with %d values", len(providerIDs))
	}
	wanted := map[string]bool{}
	for _, id := range providerIDs {
		wanted[id] = true
	}
	out := []*models.Review{}
	for _, rv := range r.reviews {
		if wanted[rv.ProviderID] {
			out = append(out, rv)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (r *fakeAuditRepo) Create(_ context.Context, entry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) all() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AuditLog(nil), r.entries...)
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	entries map[string][]*models.Notification
	nextID  int
	err     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{entries: map[string][]*models.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.nextID++
	c := *n
	c.ID = fmt.Sprintf("n-%d", r.nextID)
	r.entries[n.UserID] = append(r.entries[n.UserID], &c)
	return c.ID, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]*models.Notification(nil), list...), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.entries[userID] {
		if n.ID == notificationID {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification '%s': %w", notificationID, db.ErrNotFound)
}

// fakeTransactionRepo owns the bookings it updates so both writes happen under one lock.
type fakeTransactionRepo struct {
	mu       sync.Mutex
	txns     map[string]*models.Transaction
	bookings map[string]*models.Booking
	nextID   int
}

func newFakeTransactionRepo(bookings ...*models.Booking) *fakeTransactionRepo {
	r := &fakeTransactionRepo{txns: map[string]*models.Transaction{}, bookings: map[string]*models.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeTransactionRepo) booking(id string) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.bookings[id]
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, fmt.Errorf("transaction '%s': %w", id, db.ErrNotFound)
	}
	c := *t
	return &c, nil
}

func (r *fakeTransactionRepo) ListByStatus(_ context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Transaction{}
	for _, t := range r.txns {
		if t.Status == status {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) CreateForBooking(_ context.Context, bookingID string, decide db.PaymentDecision) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking '%s': %w", bookingID, db.ErrBookingMissing)
	}
	bc := *b
	t, err := decide(&bc)
	if err != nil {
		return nil, err
	}
	r.nextID++
	t.ID = fmt.Sprintf("txn-%d", r.nextID)
	t.BookingID = bookingID
	c := *t
	r.txns[t.ID] = &c
	b.PaymentStatus = models.PaymentPendingVerification
	return t, nil
}

func (r *fakeTransactionRepo) Resolve(_ context.Context, id string, decide db.ResolutionDecision) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, fmt.Errorf("transaction '%s': %w", id, db.ErrNotFound)
	}
	c := *t
	status, err := decide(&c)
	if err != nil {
		return nil, err
	}
	b, ok := r.bookings[t.BookingID]
	if !ok {
		return nil, fmt.Errorf("booking '%s': %w", t.BookingID, db.ErrBookingMissing)
	}
	*t = c
	b.PaymentStatus = status
	out := c
	return &out, nil
}

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*models.Invite
	users   *fakeUserRepo
	nextID  int
}

func newFakeInviteRepo(users *fakeUserRepo) *fakeInviteRepo {
	return &fakeInviteRepo{invites: map[string]*models.Invite{}, users: users}
}

func (r *fakeInviteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invites)
}

func (r *fakeInviteRepo) Create(_ context.Context, inv *models.Invite) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	inv.ID = fmt.Sprintf("inv-%d", r.nextID)
	c := *inv
	r.invites[inv.ID] = &c
	return inv.ID, nil
}

func (r *fakeInviteRepo) GetByID(_ context.Context, id string) (*models.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return nil, fmt.Errorf("invite '%s': %w", id, db.ErrNotFound)
	}
	c := *inv
	return &c, nil
}

func (r *fakeInviteRepo) FindPending(_ context.Context, agencyID, providerID string) (*models.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invites {
		if inv.AgencyID == agencyID && inv.ProviderID == providerID {
			c := *inv
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeInviteRepo) listBy(match func(*models.Invite) bool) []*models.Invite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Invite{}
	for _, inv := range r.invites {
		if match(inv) {
			c := *inv
			out = append(out, &c)
		}
	}
	return out
}

func (r *fakeInviteRepo) ListByProvider(_ context.Context, providerID string) ([]*models.Invite, error) {
	return r.listBy(func(i *models.Invite) bool { return i.ProviderID == providerID }), nil
}

func (r *fakeInviteRepo) ListByAgency(_ context.Context, agencyID string) ([]*models.Invite, error) {
	return r.listBy(func(i *models.Invite) bool { return i.AgencyID == agencyID }), nil
}

func (r *fakeInviteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invites[id]; !ok {
		return fmt.Errorf("invite '%s': %w", id, db.ErrNotFound)
	}
	delete(r.invites, id)
	return nil
}

func (r *fakeInviteRepo) Accept(_ context.Context, id string, decide db.InviteDecision) (*models.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return nil, fmt.Errorf("invite '%s': %w", id, db.ErrNotFound)
	}
	c := *inv
	if err := decide(&c); err != nil {
		return nil, err
	}
	r.users.mu.Lock()
	if u, ok := r.users.users[c.ProviderID]; ok {
		u.AgencyID = c.AgencyID
	}
	r.users.mu.Unlock()
	delete(r.invites, id)
	return &c, nil
}

// spyNotifier records notifications instead of delivering them.
type spyNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (s *spyNotifier) Notify(_ context.Context, n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

func (s *spyNotifier) ListNotifications(context.Context, string, int) ([]*models.Notification, error) {
	return nil, nil
}

func (s *spyNotifier) MarkRead(context.Context, string, string) error { return nil }

func (s *spyNotifier) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, n := range s.sent {
		out[i] = n.UserID
	}
	return out
}

// fakeCache versions every key so Update behaves like an optimistic WATCH transaction.
type fakeCache struct {
	mu        sync.Mutex
	data      map[string]string
	versions  map[string]int
	conflicts int
	lastTTL   time.Duration
	err       error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, versions: map[string]int{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = fmt.Sprint(value)
	c.versions[key]++
	c.lastTTL = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.versions[key]++
	return nil
}

func (c *fakeCache) Update(_ context.Context, key string, ttl time.Duration, fn func(string) (string, error)) error {
	for {
		c.mu.Lock()
		if c.err != nil {
			c.mu.Unlock()
			return c.err
		}
		current, version := c.data[key], c.versions[key]
		c.mu.Unlock()

		next, err := fn(current)
		if err != nil {
			return err
		}

		c.mu.Lock()
		if c.versions[key] != version {
			c.conflicts++
			c.mu.Unlock()
			continue
		}
		if next == "" {
			delete(c.data, key)
		} else {
			c.data[key] = next
			c.lastTTL = ttl
		}
		c.versions[key]++
		c.mu.Unlock()
		return nil
	}
}

func (c *fakeCache) Close() error { return nil }

type published struct {
	queue     string
	messageID string
	body      []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, queue, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{queue: queue, messageID: messageID, body: body})
	return nil
}

func openJob(id, clientID string, applicants ...string) *models.Job {
	return &models.Job{
		ID:           id,
		Title:        "Fix leaking sink",
		Description:  "Kitchen sink drips",
		CategoryName: "Plumbing",
		Budget:       models.Budget{Amount: 1500, Type: models.BudgetFixed},
		Location:     "Quezon City",
		ClientID:     clientID,
		ClientName:   "Maria",
		Status:       models.JobStatusOpen,
		Applications: append([]string{}, applicants...),
		CreatedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}
