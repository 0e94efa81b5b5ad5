package api

import (
	"errors"
	"sort"
	"sync"
	"time"

	"kitchensim/internal/evaluation"
	"kitchensim/internal/kitchen"
	"kitchensim/internal/logger"
	"kitchensim/internal/models"
	"kitchensim/internal/monitoring"
)

// DefaultRetention is how long an ended session stays reachable for its
// score and debrief before the manager forgets it.
const DefaultRetention = 10 * time.Minute

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("session belongs to another player")
)

// SessionStore persists sessions as they are played
type SessionStore interface {
	kitchen.ActionSink
	CreateSession(sessionID, userID, storeID string, level models.GameLevel, target int, start time.Time) error
	FinishSession(sessionID string, score evaluation.SessionScore, end time.Time) error
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithStore persists sessions, action logs and final scores.
func WithStore(store SessionStore) ManagerOption {
	return func(m *SessionManager) { m.store = store }
}

func WithMonitor(mon *monitoring.Monitor) ManagerOption {
	return func(m *SessionManager) { m.monitor = mon }
}

func WithMetrics(mc *evaluation.MetricsCollector) ManagerOption {
	return func(m *SessionManager) { m.metrics = mc }
}

func WithHub(hub *Hub) ManagerOption {
	return func(m *SessionManager) { m.hub = hub }
}

// WithRetention sets how long ended sessions are kept.
func WithRetention(d time.Duration) ManagerOption {
	return func(m *SessionManager) { m.retention = d }
}

// WithSessionOptions adds options applied to every new game session.
func WithSessionOptions(opts ...kitchen.Option) ManagerOption {
	return func(m *SessionManager) { m.sessionOpts = append(m.sessionOpts, opts...) }
}

type managedSession struct {
	session *kitchen.GameSession
	userID  string
	storeID string
	started time.Time
	ended   time.Time
	score   *evaluation.SessionScore
}

// SessionManager owns every live game session of the server
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession

	catalog     kitchen.Catalog
	sessionOpts []kitchen.Option
	store       SessionStore
	monitor     *monitoring.Monitor
	metrics     *evaluation.MetricsCollector
	hub         *Hub
	retention   time.Duration
	now         func() time.Time
	log         *logger.Logger
}

func NewSessionManager(cat kitchen.Catalog, log *logger.Logger, opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		sessions:  make(map[string]*managedSession),
		catalog:   cat,
		retention: DefaultRetention,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session for a player
func (m *SessionManager) Create(userID, storeID string, level models.GameLevel) (*kitchen.GameSession, error) {
	sinks := kitchen.MultiSink{}
	if m.store != nil {
		sinks = append(sinks, m.store)
	}
	if m.monitor != nil {
		sinks = append(sinks, m.monitor)
	}
	if m.hub != nil {
		sinks = append(sinks, m.hub)
	}
	if m.metrics != nil {
		sinks = append(sinks, metricsSink(m.metrics, level))
	}

	opts := append([]kitchen.Option{}, m.sessionOpts...)
	opts = append(opts, kitchen.WithActionSink(sinks), kitchen.WithLogger(m.log))
	session, err := kitchen.NewGameSession(m.catalog, level, opts...)
	if err != nil {
		return nil, err
	}

	started := m.now()
	if m.store != nil {
		target := session.Snapshot().TargetMenus
		if err := m.store.CreateSession(session.ID(), userID, storeID, level, target, started); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.sessions[session.ID()] = &managedSession{session: session, userID: userID, storeID: storeID, started: started}
	active := m.activeLocked()
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetActiveSessions(active)
	}
	return session, nil
}

// Get returns a session the player owns
func (m *SessionManager) Get(id, userID string) (*kitchen.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if ms.userID != userID {
		return nil, ErrForbidden
	}
	return ms.session, nil
}

// Sessions returns the sessions still being played, ordered by id. It is
// the runner's tick source, so it also evicts expired ended sessions.
func (m *SessionManager) Sessions() []*kitchen.GameSession {
	m.Evict()

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*kitchen.GameSession, 0, len(m.sessions))
	for _, ms := range m.sessions {
		if ms.score == nil {
			out = append(out, ms.session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Evict drops sessions that ended more than the retention window ago and
// returns how many were removed. Their score is already persisted.
func (m *SessionManager) Evict() int {
	cutoff := m.now().Add(-m.retention)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, ms := range m.sessions {
		if ms.score != nil && !ms.ended.After(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.log.Debug("evicted %d ended sessions", n)
	}
	return n
}

// Active returns the number of sessions not yet ended
func (m *SessionManager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeLocked()
}

func (m *SessionManager) activeLocked() int {
	n := 0
	for _, ms := range m.sessions {
		if !ms.session.Ended() {
			n++
		}
	}
	return n
}

// End finishes a session and records its score everywhere once.
func (m *SessionManager) End(id, userID string) (evaluation.SessionScore, error) {
	m.mu.RLock()
	ms, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return evaluation.SessionScore{}, ErrSessionNotFound
	}
	if ms.userID != userID {
		return evaluation.SessionScore{}, ErrForbidden
	}
	return m.finish(ms), nil
}

// AfterTick pushes the new state to watchers and ends sessions that served
// their target number of orders. It is the runner's tick hook.
func (m *SessionManager) AfterTick(session *kitchen.GameSession) {
	if m.hub != nil && m.hub.ClientCount(session.ID()) > 0 {
		m.hub.Broadcast(session.ID(), MessageSnapshot, session.Snapshot())
	}
	if !session.Finished() {
		return
	}
	m.mu.RLock()
	ms, ok := m.sessions[session.ID()]
	m.mu.RUnlock()
	if ok {
		m.finish(ms)
	}
}

func (m *SessionManager) finish(ms *managedSession) evaluation.SessionScore {
	m.mu.Lock()
	if ms.score != nil {
		score := *ms.score
		m.mu.Unlock()
		return score
	}
	score := ms.session.End()
	ms.score = &score
	ms.ended = m.now()
	active := m.activeLocked()
	m.mu.Unlock()

	id, level := ms.session.ID(), ms.session.Level()
	if m.store != nil {
		if err := m.store.FinishSession(id, score, ms.ended); err != nil {
			m.log.Error("saving score for session %s: %v", id, err)
		}
	}
	if m.monitor != nil {
		m.monitor.RecordSessionResult(id, level, score)
	}
	if m.metrics != nil {
		m.metrics.RecordSessionScore(string(level), score)
		m.metrics.SetActiveSessions(active)
	}
	if m.hub != nil {
		m.hub.Broadcast(id, MessageEnded, score)
	}
	m.log.Info("session %s ended for user %s (score=%d)", id, ms.userID, score.TotalScore)
	return score
}

// metricsSink counts burns and cancellations as they are logged
func metricsSink(mc *evaluation.MetricsCollector, level models.GameLevel) kitchen.ActionSink {
	return kitchen.ActionSinkFunc(func(_ string, entry models.ActionLogEntry) {
		switch entry.ActionType {
		case models.ActionBurned:
			mc.RecordBurn(string(level))
		case models.ActionOrderCancelled:
			mc.RecordCancellation(string(level))
		}
	})
}
