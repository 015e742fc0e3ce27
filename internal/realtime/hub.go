// Package realtime fans a single Firestore snapshot listener out to many subscribers.
package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// Watcher streams result sets of jobs with a given status. Satisfied by db.JobRepository.
type Watcher interface {
	WatchByStatus(ctx context.Context, status models.JobStatus, onChange func([]*models.Job)) error
}

// Listener retry policy. The failure count resets whenever a listener delivers a snapshot.
const (
	defaultRetryDelay      = time.Second
	maxRetryDelay          = 30 * time.Second
	maxConsecutiveFailures = 5
)

// errListenerEnded is reported when a watcher returns without an error while the hub is still running.
var errListenerEnded = errors.New("job listener ended unexpectedly")

// Hub keeps the latest open-jobs snapshot and forwards every new one to its subscribers.
type Hub struct {
	watcher    Watcher
	logger     *zap.Logger
	retryDelay time.Duration

	mu        sync.Mutex
	subs      map[*Subscription]struct{}
	latest    []*models.Job
	hasLatest bool
	stopped   bool
}

// NewHub creates a Hub. Call Run to start the upstream listener.
func NewHub(watcher Watcher, logger *zap.Logger) *Hub {
	return &Hub{watcher: watcher, logger: logger, retryDelay: defaultRetryDelay, subs: map[*Subscription]struct{}{}}
}

// Run listens to open jobs until ctx is cancelled, re-opening the listener with backoff when it
// fails. After maxConsecutiveFailures failures without a snapshot it gives up and returns the
// last error. Either way the hub is stopped on return: every subscription is closed and later
// subscriptions start closed.
func (h *Hub) Run(ctx context.Context) error {
	defer h.stop()
	h.logger.Info("Realtime job feed started")

	delay := h.retryDelay
	failures := 0
	for {
		received := false
		err := h.watcher.WatchByStatus(ctx, models.JobStatusOpen, func(jobs []*models.Job) {
			received = true
			h.Publish(jobs)
		})
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errListenerEnded
		}
		if received {
			failures = 0
			delay = h.retryDelay
		}
		failures++
		if failures >= maxConsecutiveFailures {
			h.logger.Error("Realtime job feed stopped", zap.Int("failures", failures), zap.Error(err))
			return err
		}

		h.logger.Warn("Realtime job listener failed; retrying",
			zap.Int("failures", failures), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

// Publish records jobs as the latest snapshot and offers it to every subscriber.
func (h *Hub) Publish(jobs []*models.Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = jobs
	h.hasLatest = true
	for s := range h.subs {
		s.offer(jobs)
	}
}

// Subscribe registers a subscriber. It receives the current snapshot, if any, immediately.
// The subscription ends on Unsubscribe or when ctx is done.
func (h *Hub) Subscribe(ctx context.Context) *Subscription {
	s := &Subscription{
		hub:  h,
		ch:   make(chan []*models.Job, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		close(s.ch)
		s.once.Do(func() { close(s.done) })
		return s
	}
	h.subs[s] = struct{}{}
	if h.hasLatest {
		s.offer(h.latest)
	}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.Unsubscribe()
		case <-s.done:
		}
	}()
	return s
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.closeAll()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Subscription is one consumer of the feed.
type Subscription struct {
	hub  *Hub
	ch   chan []*models.Job
	done chan struct{}
	once sync.Once
}

// Updates delivers snapshots. The channel holds at most one pending snapshot, always the newest,
// and is closed when the subscription ends.
func (s *Subscription) Updates() <-chan []*models.Job {
	return s.ch
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe ends the subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

// offer replaces any undelivered snapshot with jobs. Callers hold the hub lock.
func (s *Subscription) offer(jobs []*models.Job) {
	select {
	case s.ch <- jobs:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- jobs:
	default:
	}
}
