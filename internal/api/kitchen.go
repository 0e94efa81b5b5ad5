package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kitchensim/internal/catalog"
	"kitchensim/internal/coach"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/kitchen"
	"kitchensim/internal/logger"
	"kitchensim/internal/models"
	"kitchensim/internal/monitoring"
)

// debriefTimeout bounds one call to the debrief model
const debriefTimeout = 30 * time.Second

// KitchenAPI represents the main API handler for the kitchen
type KitchenAPI struct {
	Router   *gin.Engine
	Sessions *SessionManager
	Catalog  *catalog.Catalog
	Hub      *Hub
	Coach    *coach.Coach
	Monitor  *monitoring.Monitor
	Metrics  *evaluation.MetricsCollector

	secret []byte
	log    *logger.Logger
}

// Options are the optional collaborators of the API
type Options struct {
	Coach   *coach.Coach
	Monitor *monitoring.Monitor
	Metrics *evaluation.MetricsCollector
}

// NewKitchenAPI creates a new kitchen API instance
func NewKitchenAPI(sessions *SessionManager, cat *catalog.Catalog, hub *Hub, secret []byte, log *logger.Logger, opts Options) *KitchenAPI {
	router := gin.New()
	router.Use(gin.Recovery())

	api := &KitchenAPI{
		Router:   router,
		Sessions: sessions,
		Catalog:  cat,
		Hub:      hub,
		Coach:    opts.Coach,
		Monitor:  opts.Monitor,
		Metrics:  opts.Metrics,
		secret:   secret,
		log:      log,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	// Health check
	k.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "kitchen simulator is running"})
	})

	v1 := k.Router.Group("/api/v1")
	v1.Use(AuthMiddleware(k.secret))
	{
		// Session lifecycle
		v1.POST("/sessions", k.CreateSession)
		v1.GET("/sessions/:id", k.GetSession)
		v1.POST("/sessions/:id/end", k.EndSession)
		v1.GET("/sessions/:id/actions", k.GetActions)
		v1.GET("/sessions/:id/debrief", k.GetDebrief)
		v1.GET("/sessions/:id/ws", k.Stream)

		// Orders
		v1.POST("/sessions/:id/orders", k.AddOrder)
		v1.POST("/sessions/:id/orders/spawn", k.SpawnOrders)
		v1.POST("/sessions/:id/assign", k.AssignOrder)

		// Wok station
		wok := v1.Group("/sessions/:id/woks/:burner")
		wok.POST("/ingredients", k.AddIngredient)
		wok.POST("/actions", k.PerformAction)
		wok.POST("/heat", k.SetHeat)
		wok.POST("/toggle", k.ToggleBurner)
		wok.POST("/wash", k.WashWok)
		wok.POST("/serve", k.Serve)
		wok.POST("/empty", k.EmptyWok)

		v1.GET("/recipes", k.GetRecipes)
		v1.GET("/stats", k.GetStats)
	}
}

// Session lifecycle handlers

func (k *KitchenAPI) CreateSession(c *gin.Context) {
	var req struct {
		Level string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, err := models.ParseGameLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := k.Sessions.Create(c.GetString(ctxUserID), c.GetString(ctxStoreID), level)
	if err != nil {
		k.log.Error("creating session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

func (k *KitchenAPI) GetSession(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (k *KitchenAPI) EndSession(c *gin.Context) {
	score, err := k.Sessions.End(c.Param("id"), c.GetString(ctxUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

func (k *KitchenAPI) GetActions(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.ActionLog())
}

// GetDebrief summarizes the session and, when a model is configured, adds
// written coaching feedback.
func (k *KitchenAPI) GetDebrief(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	if !session.Ended() && !session.Finished() {
		c.JSON(http.StatusConflict, gin.H{"error": "session has not ended"})
		return
	}

	score, err := k.Sessions.End(session.ID(), c.GetString(ctxUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	sum := coach.Summarize(session.Level(), score, session.ActionLog())

	resp := gin.H{"summary": sum}
	if k.Coach != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), debriefTimeout)
		defer cancel()
		text, err := k.Coach.Debrief(ctx, sum)
		switch {
		case err == nil:
			resp["feedback"] = text
		case errors.Is(err, coach.ErrNoModel):
		default:
			k.log.Warn("debrief for session %s failed: %v", session.ID(), err)
			resp["feedback_error"] = err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Stream upgrades to a websocket carrying snapshots and action log entries
func (k *KitchenAPI) Stream(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	k.Hub.Serve(c, session.ID(), func() interface{} { return session.Snapshot() })
}

// Order handlers

func (k *KitchenAPI) AddOrder(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	var req struct {
		MenuName string `json:"menu_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := session.AddOrder(req.MenuName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (k *KitchenAPI) SpawnOrders(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Count <= 0 {
		req.Count = session.Level().BatchSize()
	}

	orders, err := session.SpawnOrders(req.Count)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orders)
}

func (k *KitchenAPI) AssignOrder(c *gin.Context) {
	session, ok := k.session(c)
	if !ok {
		return
	}
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
		Burner  int    `json:"burner" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.AssignOrder(req.OrderID, req.Burner); err != nil {
		writeError(c, err)
		return
	}
	k.respondWok(c, session, req.Burner)
}

// Wok station handlers

func (k *KitchenAPI) AddIngredient(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	var req struct {
		SKU       string  `json:"sku" binding:"required"`
		Amount    float64 `json:"amount"`
		Seasoning bool    `json:"seasoning"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, session.ApplyIngredient(burner, req.SKU, req.Amount, req.Seasoning))
}

func (k *KitchenAPI) PerformAction(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	var req struct {
		Action models.ActionType `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := session.ApplyAction(burner, req.Action)
	if errors.Is(result.Reason, kitchen.ErrInvalidAction) {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.ReasonText()})
		return
	}
	respondResult(c, result)
}

func (k *KitchenAPI) SetHeat(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	var req struct {
		Level int `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.SetHeatLevel(burner, req.Level); err != nil {
		writeError(c, err)
		return
	}
	k.respondWok(c, session, burner)
}

func (k *KitchenAPI) ToggleBurner(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	if _, err := session.ToggleBurner(burner); err != nil {
		writeError(c, err)
		return
	}
	k.respondWok(c, session, burner)
}

func (k *KitchenAPI) WashWok(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	if err := session.WashWok(burner); err != nil {
		writeError(c, err)
		return
	}
	k.respondWok(c, session, burner)
}

func (k *KitchenAPI) Serve(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	score, err := session.Serve(burner)
	if err != nil {
		writeError(c, err)
		return
	}
	if k.Metrics != nil {
		k.Metrics.RecordOrderCompletion(string(session.Level()), score)
	}
	c.JSON(http.StatusOK, score)
}

func (k *KitchenAPI) EmptyWok(c *gin.Context) {
	session, burner, ok := k.wok(c)
	if !ok {
		return
	}
	if err := session.EmptyWok(burner); err != nil {
		writeError(c, err)
		return
	}
	k.respondWok(c, session, burner)
}

// Catalog and stats handlers

func (k *KitchenAPI) GetRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recipes":     k.Catalog.Recipes(),
		"ingredients": k.Catalog.Ingredients(),
		"seasonings":  k.Catalog.Seasonings(),
	})
}

func (k *KitchenAPI) GetStats(c *gin.Context) {
	stats := gin.H{"active_sessions": k.Sessions.Active()}
	if k.Monitor != nil {
		stats["metrics"] = k.Monitor.GetMetrics()
	}
	c.JSON(http.StatusOK, stats)
}

// Private helper methods

// session resolves the :id parameter to a session owned by the caller
func (k *KitchenAPI) session(c *gin.Context) (*kitchen.GameSession, bool) {
	session, err := k.Sessions.Get(c.Param("id"), c.GetString(ctxUserID))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return session, true
}

func (k *KitchenAPI) wok(c *gin.Context) (*kitchen.GameSession, int, bool) {
	burner, err := strconv.Atoi(c.Param("burner"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "burner must be a number"})
		return nil, 0, false
	}
	session, ok := k.session(c)
	if !ok {
		return nil, 0, false
	}
	return session, burner, true
}

func (k *KitchenAPI) respondWok(c *gin.Context, session *kitchen.GameSession, burner int) {
	wok, err := session.Wok(burner)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wok)
}

// resultResponse is a Result with its reason rendered as text
type resultResponse struct {
	kitchen.Result
	Reason string `json:"reason,omitempty"`
}

func respondResult(c *gin.Context, result kitchen.Result) {
	status := http.StatusOK
	if errors.Is(result.Reason, kitchen.ErrUnknownBurner) {
		status = http.StatusBadRequest
	} else if errors.Is(result.Reason, kitchen.ErrSessionEnded) {
		status = http.StatusGone
	}
	c.JSON(status, resultResponse{Result: result, Reason: result.ReasonText()})
}

// statusFor maps session errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, kitchen.ErrOrderNotFound), errors.Is(err, kitchen.ErrUnknownMenu):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, kitchen.ErrUnknownBurner), errors.Is(err, kitchen.ErrInvalidHeat), errors.Is(err, kitchen.ErrInvalidAction),
		errors.Is(err, kitchen.ErrSpawnCount):
		return http.StatusBadRequest
	case errors.Is(err, kitchen.ErrSessionEnded):
		return http.StatusGone
	default:
		return http.StatusConflict
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
