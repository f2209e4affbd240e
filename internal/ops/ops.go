// Package ops implements the engine operations exposed to the host
// application: vocabulary initialization, the session lifecycle,
// analytics, export, and reset.
package ops

import (
	"crypto/rand"
	"database/sql"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/lexi/internal/config"
	"github.com/hpungsan/lexi/internal/model"
	"github.com/hpungsan/lexi/internal/scheduler"
)

// Engine coordinates the scheduler, the state store, and the
// per-learner session registry. Each learner's session state is
// independent; there is no shared session slot.
type Engine struct {
	db    *sql.DB
	cfg   *config.Config
	sched *scheduler.Scheduler

	// now is a hook for tests; production uses time.Now.
	now func() time.Time

	mu       sync.Mutex
	learners map[string]*learnerSession
}

// learnerSession is the session context for one learner. Its mutex
// serializes record/end operations so responses apply in strict
// arrival order within a session.
type learnerSession struct {
	mu sync.Mutex

	// log is the in-progress session, nil when idle.
	log          *model.SessionLog
	startAbility float64
	rtSumMS      float64
}

// NewEngine creates an Engine over an initialized database.
func NewEngine(database *sql.DB, cfg *config.Config, sched *scheduler.Scheduler) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if sched == nil {
		sched = scheduler.New(scheduler.ParamsFromConfig(cfg), nil)
	}
	return &Engine{
		db:       database,
		cfg:      cfg,
		sched:    sched,
		now:      time.Now,
		learners: make(map[string]*learnerSession),
	}
}

// learner returns the session context for a learner, creating it on
// first access.
func (e *Engine) learner(userID string) *learnerSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls, ok := e.learners[userID]
	if !ok {
		ls = &learnerSession{}
		e.learners[userID] = ls
	}
	return ls
}

// newSessionID generates a ULID session id.
func newSessionID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
