// Package kitchen simulates a three-burner wok station: burner thermals, the
// wok state machine, recipe progression and the menu order queue of one
// game session.
package kitchen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"kitchensim/internal/evaluation"
	"kitchensim/internal/logger"
	"kitchensim/internal/models"
)

// TickInterval is the session time one Tick advances.
const TickInterval = time.Second

// MaxSpawnCount caps the orders a single SpawnOrders call may add.
const MaxSpawnCount = 10

// Catalog is the recipe and ingredient data a session cooks from.
type Catalog interface {
	GetRecipeByMenuName(name string) *models.Recipe
	GetStepIngredients(menuName string, stepIndex int) []models.IngredientRequirement
	CategoryOf(sku string) models.IngredientCategory
	MenuNames() []string
}

// ActionSink receives every action log entry as it is appended. It is called
// with the session locked and must not call back into the session.
type ActionSink interface {
	RecordAction(sessionID string, entry models.ActionLogEntry)
}

// ActionSinkFunc adapts a function to ActionSink.
type ActionSinkFunc func(sessionID string, entry models.ActionLogEntry)

func (f ActionSinkFunc) RecordAction(sessionID string, entry models.ActionLogEntry) {
	f(sessionID, entry)
}

// MultiSink fans an entry out to several sinks in order. Nil sinks are skipped.
type MultiSink []ActionSink

func (m MultiSink) RecordAction(sessionID string, entry models.ActionLogEntry) {
	for _, sink := range m {
		if sink != nil {
			sink.RecordAction(sessionID, entry)
		}
	}
}

// Option configures a GameSession.
type Option func(*GameSession)

func WithID(id string) Option {
	return func(s *GameSession) { s.id = id }
}

// WithPolicy overrides the strictness derived from the level.
func WithPolicy(p StrictnessPolicy) Option {
	return func(s *GameSession) { s.policy = p }
}

func WithThermalConfig(cfg ThermalConfig) Option {
	return func(s *GameSession) { s.thermal = cfg }
}

func WithWashTiming(t WashTiming) Option {
	return func(s *GameSession) { s.wash = t }
}

// WithEvaluator sets the scorer; thresholds also drive order cancellation.
func WithEvaluator(e *evaluation.Evaluator) Option {
	return func(s *GameSession) { s.evaluator = e }
}

// WithRand sets the source used to pick menus for new orders.
func WithRand(r *rand.Rand) Option {
	return func(s *GameSession) { s.rng = r }
}

func WithActionSink(sink ActionSink) Option {
	return func(s *GameSession) { s.sink = sink }
}

func WithTargetMenus(n int) Option {
	return func(s *GameSession) { s.targetMenus = n }
}

// WithAutoSpawn turns the order spawn schedule on or off. Orders can
// always be added with AddOrder and SpawnOrders.
func WithAutoSpawn(enabled bool) Option {
	return func(s *GameSession) { s.autoSpawn = enabled }
}

// WithServedGrace sets how long a served order stays visible.
func WithServedGrace(d time.Duration) Option {
	return func(s *GameSession) { s.servedGrace = d }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *GameSession) { s.log = log }
}

// GameSession owns all mutable state of one play session. Every method is
// safe for concurrent use and applies fully or not at all.
type GameSession struct {
	mu sync.Mutex

	id          string
	level       models.GameLevel
	catalog     Catalog
	policy      StrictnessPolicy
	thermal     ThermalConfig
	wash        WashTiming
	evaluator   *evaluation.Evaluator
	rng         *rand.Rand
	sink        ActionSink
	log         *logger.Logger
	targetMenus int
	autoSpawn   bool
	servedGrace time.Duration

	now           time.Duration
	woks          [models.BurnerCount]models.Wok
	queue         *OrderQueue
	actions       []models.ActionLogEntry
	burnerSamples []int
	orderScores   []evaluation.OrderScore
	usedMenus     map[string]bool
	completed     int
	nextSpawnAt   time.Duration
	ended         bool
	final         *evaluation.SessionScore
}

// NewGameSession creates a session with three clean woks. With auto spawn
// on (the default) the first batch of orders arrives immediately.
func NewGameSession(cat Catalog, level models.GameLevel, opts ...Option) (*GameSession, error) {
	if len(cat.MenuNames()) == 0 {
		return nil, ErrEmptyCatalog
	}

	s := &GameSession{
		id:          uuid.NewString(),
		level:       level,
		catalog:     cat,
		policy:      PolicyForLevel(level),
		thermal:     DefaultThermalConfig(),
		wash:        DefaultWashTiming(),
		evaluator:   evaluation.NewEvaluator(evaluation.DefaultTimeThresholds(), evaluation.DefaultWeights()),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         logger.Nop(),
		targetMenus: models.TargetMenus,
		autoSpawn:   true,
		servedGrace: 3 * time.Second,
		queue:       newOrderQueue(),
		usedMenus:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.woks {
		s.woks[i] = models.NewWok(i + 1)
	}

	if s.autoSpawn {
		s.spawnDue()
	}
	s.log.Info("session %s started (level=%s, policy=%s)", s.id, s.level, s.policy.Name)
	return s, nil
}

func (s *GameSession) ID() string { return s.id }

func (s *GameSession) Level() models.GameLevel { return s.level }

func (s *GameSession) Policy() StrictnessPolicy { return s.policy }

// Now returns the session time.
func (s *GameSession) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Finished reports whether the target number of orders has been served.
func (s *GameSession) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed >= s.targetMenus
}

// Ended reports whether End has been called.
func (s *GameSession) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *GameSession) wokIndex(burner int) (int, error) {
	if burner < 1 || burner > models.BurnerCount {
		return 0, fmt.Errorf("burner %d: %w", burner, ErrUnknownBurner)
	}
	return burner - 1, nil
}

func (s *GameSession) record(entry models.ActionLogEntry) {
	s.actions = append(s.actions, entry)
	if s.sink != nil {
		s.sink.RecordAction(s.id, entry)
	}
}

func (s *GameSession) entry(action models.ActionType, w *models.Wok, correct bool, message string) models.ActionLogEntry {
	e := models.NewActionLogEntry(s.now, action, correct, message)
	if w != nil {
		e.BurnerNumber = w.BurnerNumber
		e.MenuName = w.CurrentMenu
	}
	return e
}

// Tick advances the session by one second: temperatures, wash stages,
// forced burns, order timeouts, served-order cleanup and order spawning.
func (s *GameSession) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	s.now += TickInterval

	var burned []int
	for i := range s.woks {
		next := StepThermal(s.woks[i], s.now)
		advancePosition(&next, s.now, s.wash)
		if applyTransitions(&next, s.now, s.thermal) {
			burned = append(burned, i)
		}
		s.woks[i] = next
	}
	for _, i := range burned {
		w := &s.woks[i]
		e := s.entry(models.ActionBurned, w, false, fmt.Sprintf("burner %d: wok burned at %.0f°C", w.BurnerNumber, w.Temperature))
		s.releaseAndRequeue(i, models.WokBurned)
		s.record(e)
		s.log.Info("session %s: burner %d burned", s.id, i+1)
	}

	active := 0
	for i := range s.woks {
		if s.woks[i].IsOn {
			active++
		}
	}
	s.burnerSamples = append(s.burnerSamples, active)

	s.cancelExpired()
	s.queue.PruneServed(s.now)
	if s.autoSpawn {
		s.spawnDue()
	}
}

// releaseAndRequeue detaches a wok from its order and puts the order back
// in the queue as one transition. The wok ends in state with its heat off.
func (s *GameSession) releaseAndRequeue(idx int, state models.WokState) {
	orderID := s.detachWok(idx, state)
	if orderID != "" {
		s.queue.Requeue(orderID)
	}
}

func (s *GameSession) detachWok(idx int, state models.WokState) string {
	w := &s.woks[idx]
	orderID := w.CurrentOrderID
	w.ClearSession()
	heatOff(w, s.now)
	setState(w, state, s.now)
	return orderID
}

// cancelExpired removes open orders past the cancel threshold together
// with any wok session cooking them.
func (s *GameSession) cancelExpired() {
	maxAge := s.evaluator.Thresholds().Cancel
	for _, order := range s.queue.Expired(s.now, maxAge) {
		var w *models.Wok
		if order.AssignedBurner != nil {
			idx := *order.AssignedBurner - 1
			w = &s.woks[idx]
			if w.CurrentOrderID == order.ID {
				next := w.State
				if next != models.WokBurned {
					next = models.WokDirty
				}
				s.detachWok(idx, next)
			}
		}
		s.queue.Remove(order.ID)

		score := s.evaluator.CancelOrder(order.ID, order.MenuName, order.Age(s.now))
		s.orderScores = append(s.orderScores, score)

		e := models.NewActionLogEntry(s.now, models.ActionOrderCancelled, false,
			fmt.Sprintf("%s cancelled after %d minutes", order.MenuName, int(order.Age(s.now)/time.Minute)))
		e.MenuName = order.MenuName
		if order.AssignedBurner != nil {
			e.BurnerNumber = *order.AssignedBurner
		}
		s.record(e)
		s.log.Info("session %s: order %s (%s) cancelled", s.id, order.ID, order.MenuName)
	}
}

func (s *GameSession) spawnDue() {
	for s.completed < s.targetMenus && s.now >= s.nextSpawnAt {
		s.spawn(s.level.BatchSize())
		s.nextSpawnAt += s.level.SpawnInterval()
	}
}

func (s *GameSession) spawn(n int) []models.MenuOrder {
	names := s.catalog.MenuNames()
	if len(names) == 0 {
		return nil
	}
	var out []models.MenuOrder
	for i := 0; i < n; i++ {
		var pool []string
		for _, name := range names {
			if !s.usedMenus[name] {
				pool = append(pool, name)
			}
		}
		if len(pool) == 0 {
			pool = names
		}
		name := pool[s.rng.Intn(len(pool))]
		s.usedMenus[name] = true
		out = append(out, *s.queue.Add(uuid.NewString(), name, s.now))
	}
	return out
}

// SpawnOrders adds n orders picked from the catalog, preferring menus not
// yet ordered in this session. n must be between 1 and MaxSpawnCount.
func (s *GameSession) SpawnOrders(n int) ([]models.MenuOrder, error) {
	if n < 1 || n > MaxSpawnCount {
		return nil, fmt.Errorf("%d: %w", n, ErrSpawnCount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	return s.spawn(n), nil
}

// AddOrder adds a waiting order for a specific menu.
func (s *GameSession) AddOrder(menuName string) (models.MenuOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return models.MenuOrder{}, ErrSessionEnded
	}
	if s.catalog.GetRecipeByMenuName(menuName) == nil {
		return models.MenuOrder{}, fmt.Errorf("%s: %w", menuName, ErrUnknownMenu)
	}
	s.usedMenus[menuName] = true
	return *s.queue.Add(uuid.NewString(), menuName, s.now), nil
}

// AssignOrder puts a waiting order on a clean, idle wok and lights the burner.
func (s *GameSession) AssignOrder(orderID string, burner int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return err
	}

	order, ok := s.queue.Get(orderID)
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	if order.Status != models.OrderStatusWaiting {
		return fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrOrderNotWaiting)
	}
	w := &s.woks[idx]
	if w.State != models.WokClean || w.HasSession() || w.Position != models.PositionAtBurner {
		return fmt.Errorf("burner %d is %s: %w", burner, w.State, ErrWokNotReady)
	}
	recipe := s.catalog.GetRecipeByMenuName(order.MenuName)
	if recipe == nil {
		return fmt.Errorf("%s: %w", order.MenuName, ErrUnknownMenu)
	}

	if err := s.queue.MarkCooking(orderID, burner); err != nil {
		return err
	}
	w.CurrentMenu = recipe.MenuName
	w.CurrentOrderID = order.ID
	w.CurrentStepIndex = 0
	w.AddedSKUs = []string{}
	w.RecipeErrorCount = 0
	w.TotalSteps = recipe.TotalSteps()
	w.StepStartedAt = s.now
	heatOn(w, s.now)

	s.record(s.entry(models.ActionAssignMenu, w, true, fmt.Sprintf("burner %d: %s assigned", burner, recipe.MenuName)))
	return nil
}

// SetBurner turns a burner on or off.
func (s *GameSession) SetBurner(burner int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBurner(burner, func(bool) bool { return on })
}

// ToggleBurner flips a burner and returns whether it is now on.
func (s *GameSession) ToggleBurner(burner int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var on bool
	err := s.setBurner(burner, func(was bool) bool {
		on = !was
		return on
	})
	return on, err
}

func (s *GameSession) setBurner(burner int, next func(was bool) bool) error {
	if s.ended {
		return ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return err
	}
	w := &s.woks[idx]
	if w.Position != models.PositionAtBurner {
		return fmt.Errorf("burner %d: %w", burner, ErrWokAway)
	}
	if next(w.IsOn) {
		heatOn(w, s.now)
	} else {
		heatOff(w, s.now)
	}
	return nil
}

// SetHeatLevel changes a burner's flame between 1 (low) and 3 (high).
func (s *GameSession) SetHeatLevel(burner, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return err
	}
	if level < 1 || level > 3 {
		return ErrInvalidHeat
	}
	s.woks[idx].HeatLevel = level
	return nil
}

// WashWok sends a dirty or burned wok to the sink. The burner must be off.
// The wok turns WET at the sink and is back on the burner after the wash
// stages have elapsed on the tick clock.
func (s *GameSession) WashWok(burner int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return err
	}
	w := &s.woks[idx]
	if w.Position != models.PositionAtBurner {
		return fmt.Errorf("burner %d: %w", burner, ErrWokAway)
	}
	if w.IsOn {
		return fmt.Errorf("burner %d: %w", burner, ErrHeatOn)
	}
	if w.State != models.WokDirty && w.State != models.WokBurned {
		return fmt.Errorf("burner %d is %s: %w", burner, w.State, ErrWokNotWashable)
	}

	s.record(s.entry(models.ActionWash, w, true, fmt.Sprintf("burner %d: washing", burner)))
	startWash(w, s.now, s.wash)
	return nil
}

// Serve hands over a finished dish. The order completes and is scored, the
// wok goes DIRTY with its burner off.
func (s *GameSession) Serve(burner int) (evaluation.OrderScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return evaluation.OrderScore{}, ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return evaluation.OrderScore{}, err
	}
	w := &s.woks[idx]
	if !w.HasSession() {
		return evaluation.OrderScore{}, fmt.Errorf("burner %d: %w", burner, ErrNoMenu)
	}
	if w.CurrentStepIndex != w.TotalSteps {
		return evaluation.OrderScore{}, fmt.Errorf("burner %d at step %d of %d: %w",
			burner, w.CurrentStepIndex, w.TotalSteps, ErrRecipeIncomplete)
	}

	order, ok := s.queue.Complete(w.CurrentOrderID, s.now, s.servedGrace)
	if !ok {
		return evaluation.OrderScore{}, fmt.Errorf("order %s: %w", w.CurrentOrderID, ErrOrderNotFound)
	}
	score := s.evaluator.ScoreOrder(order.ID, order.MenuName, s.now-order.EnteredAt, w.RecipeErrorCount)
	s.orderScores = append(s.orderScores, score)
	s.completed++

	s.record(s.entry(models.ActionServe, w, true, fmt.Sprintf("burner %d: %s served", burner, w.CurrentMenu)))
	w.ClearSession()
	heatOff(w, s.now)
	setState(w, models.WokDirty, s.now)

	s.log.Info("session %s: %s served (tier=%s, score=%d)", s.id, order.MenuName, score.TimeTier, score.FinalScore)
	return score, nil
}

// EmptyWok discards the dish in a wok. The order goes back to the queue and
// the wok goes DIRTY with its burner off.
func (s *GameSession) EmptyWok(burner int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return err
	}
	w := &s.woks[idx]
	if !w.HasSession() {
		return fmt.Errorf("burner %d: %w", burner, ErrNoMenu)
	}

	s.record(s.entry(models.ActionEmptyWok, w, false, fmt.Sprintf("burner %d: %s discarded", burner, w.CurrentMenu)))
	s.releaseAndRequeue(idx, models.WokDirty)
	return nil
}

// Wok returns a copy of one wok.
func (s *GameSession) Wok(burner int) (models.Wok, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.wokIndex(burner)
	if err != nil {
		return models.Wok{}, err
	}
	return s.woks[idx].Clone(), nil
}

// Orders returns copies of the orders in the queue.
func (s *GameSession) Orders() []models.MenuOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.List()
}

// ActionLog returns a copy of the action log.
func (s *GameSession) ActionLog() []models.ActionLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ActionLogEntry{}, s.actions...)
}

// End stops the session and returns its final score. Further calls return
// the same score.
func (s *GameSession) End() evaluation.SessionScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.final != nil {
		return *s.final
	}

	score := s.evaluator.ScoreSession(evaluation.SessionInput{
		Actions:         s.actions,
		CompletedOrders: s.completed,
		Elapsed:         s.now,
		BurnerSamples:   s.burnerSamples,
		BurnerCount:     models.BurnerCount,
		SpeedBudget:     models.SpeedBudgetPerOrder,
		Orders:          s.orderScores,
	})
	s.ended = true
	s.final = &score
	s.log.Info("session %s ended (total=%d, completed=%d)", s.id, score.TotalScore, score.CompletedOrders)
	return score
}
