package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/auth"
	"github.com/dukerupert/basket/internal/backend"
	"github.com/dukerupert/basket/internal/handler"
	"github.com/dukerupert/basket/internal/middleware"
	"github.com/dukerupert/basket/internal/telemetry"
	ws "github.com/dukerupert/basket/internal/websocket"
)

// Config holds the HTTP surface settings.
type Config struct {
	APIKey string
	// SignInLimit caps sign-in and sign-up attempts per client IP per minute.
	SignInLimit int
	// Traced wraps the router in OpenTelemetry middleware.
	Traced bool
	// Sentry attaches a Sentry hub to every request and recovers panics.
	Sentry bool
}

type Server struct {
	cfg         Config
	svc         *backend.Service
	hub         *ws.Hub
	authH       *handler.AuthHandler
	householdH  *handler.HouseholdHandler
	categoryH   *handler.CategoryHandler
	groceryH    *handler.GroceryHandler
	rateLimiter middleware.Limiter
	logger      *slog.Logger
}

// New builds the server. A nil limiter uses an in-memory one.
func New(cfg Config, svc *backend.Service, hub *ws.Hub, limiter middleware.Limiter, logger *slog.Logger) *Server {
	if cfg.SignInLimit <= 0 {
		cfg.SignInLimit = 10
	}
	if limiter == nil {
		limiter = middleware.NewRateLimiter()
	}
	return &Server{
		cfg:         cfg,
		svc:         svc,
		hub:         hub,
		authH:       handler.NewAuthHandler(svc, logger.With("component", "auth")),
		householdH:  handler.NewHouseholdHandler(svc, logger.With("component", "household")),
		categoryH:   handler.NewCategoryHandler(svc, logger.With("component", "category")),
		groceryH:    handler.NewGroceryHandler(svc, logger.With("component", "grocery")),
		rateLimiter: limiter,
		logger:      logger,
	}
}

// RateLimiter returns the limiter so callers can schedule cleanup.
func (s *Server) RateLimiter() middleware.Limiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (API key only)
	outerMux.HandleFunc("POST /auth/signup", s.rateLimitedHandler(s.authH.SignUp))
	outerMux.HandleFunc("POST /auth/token", s.rateLimitedHandler(s.authH.Token))
	outerMux.HandleFunc("GET /auth/session", s.authH.Session)

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	authMiddleware := middleware.RequireAuth(s.svc)
	outerMux.Handle("/", authMiddleware(protectedMux))

	root := http.NewServeMux()
	root.HandleFunc("GET /health", s.healthHandler)
	root.Handle("/", middleware.RequireAPIKey(s.cfg.APIKey)(outerMux))

	var h http.Handler = middleware.RequestLogger(s.logger.With("component", "http"))(root)
	if s.cfg.Sentry {
		h = sentryhttp.New(sentryhttp.Options{Repanic: false}).Handle(h)
	}
	if s.cfg.Traced {
		h = telemetry.Middleware("basket", "/health")(h)
	}
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return "auth:" + middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, s.cfg.SignInLimit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

// authorizeRealtime admits members of the requested household.
func (s *Server) authorizeRealtime(r *http.Request) (string, int, error) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		return "", http.StatusBadRequest, errors.New("household_id is required")
	}
	if _, ok := auth.FromContext(r.Context()); !ok {
		return "", http.StatusUnauthorized, errors.New("not signed in")
	}
	if _, err := s.svc.GetHousehold(r.Context(), householdID); err != nil {
		return "", handler.StatusFor(apperr.KindOf(err)), errors.New(apperr.Message(err))
	}
	return householdID, http.StatusOK, nil
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)

	// Households
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households/{id}", s.householdH.Get)
	mux.HandleFunc("GET /api/household_members", s.householdH.Memberships)
	mux.HandleFunc("GET /api/households/{id}/members", s.householdH.Members)
	mux.HandleFunc("POST /api/households/{id}/invitations", s.householdH.Invite)
	mux.HandleFunc("POST /api/invitations/accept", s.householdH.AcceptInvitation)

	// Categories
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("PATCH /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)
	mux.HandleFunc("POST /api/households/{id}/items/reassign", s.categoryH.Reassign)

	// Lists
	mux.HandleFunc("GET /api/grocery_lists", s.groceryH.ListLists)
	mux.HandleFunc("POST /api/grocery_lists", s.groceryH.CreateList)
	mux.HandleFunc("GET /api/grocery_lists/{id}", s.groceryH.GetList)
	mux.HandleFunc("PATCH /api/grocery_lists/{id}", s.groceryH.UpdateList)
	mux.HandleFunc("DELETE /api/grocery_lists/{id}", s.groceryH.DeleteList)
	mux.HandleFunc("POST /api/grocery_lists/{id}/receipt", s.groceryH.UploadReceipt)
	mux.HandleFunc("GET /api/grocery_lists/{id}/items", s.groceryH.ListItems)
	mux.HandleFunc("DELETE /api/grocery_lists/{id}/items", s.groceryH.DeleteListItems)

	// Items
	mux.HandleFunc("POST /api/grocery_items", s.groceryH.CreateItem)
	mux.HandleFunc("GET /api/grocery_items/{id}", s.groceryH.GetItem)
	mux.HandleFunc("PATCH /api/grocery_items/{id}", s.groceryH.UpdateItem)
	mux.HandleFunc("DELETE /api/grocery_items/{id}", s.groceryH.DeleteItem)

	// Change notices
	mux.HandleFunc("GET /realtime", ws.HandleWebSocket(s.hub, s.authorizeRealtime, s.logger.With("component", "websocket")))
}
