package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/config"
	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/handler"
	mw "github.com/mulleragustin/laqueva/internal/middleware"
	"github.com/mulleragustin/laqueva/internal/queue"
	"github.com/mulleragustin/laqueva/internal/service"
	"github.com/mulleragustin/laqueva/internal/shipping"
	"github.com/mulleragustin/laqueva/internal/ws"
)

// Deps are the shared components the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Queries  *database.Queries
	Pool     *pgxpool.Pool
	Hub      *ws.Hub
	Sessions *cart.Sessions
	Calc     *shipping.Calculator
	Watcher  *queue.Watcher
}

// New creates a Chi router with all application routes wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "https://laqueva.com.ar", "https://admin.laqueva.com.ar"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(d.Pool, d.Queries, newOrderStore)

	// Storefront routes (session-keyed, no auth).
	menuHandler := handler.NewMenuHandler()
	r.Route("/menu", menuHandler.RegisterRoutes)

	statusHandler := handler.NewStatusHandler(d.Queries, d.Hub)
	statusHandler.RegisterPublicRoutes(r)

	cartHandler := handler.NewCartHandler(d.Sessions)
	r.Route("/cart", cartHandler.RegisterRoutes)

	quoteHandler := handler.NewQuoteHandler(d.Calc)
	r.Route("/delivery", quoteHandler.RegisterRoutes)

	checkoutHandler := handler.NewCheckoutHandler(orderService, d.Sessions, d.Hub)
	checkoutHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param).
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, d.Config.JWTSecret, w, r)
	})

	// Admin routes. Login is public; everything else requires a token.
	r.Route("/admin", func(r chi.Router) {
		authHandler := handler.NewAuthHandler(d.Config.JWTSecret, d.Config.AdminUser, d.Config.AdminPasswordHash)
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(d.Config.JWTSecret))

			orderHandler := handler.NewOrderHandler(orderService, d.Hub)
			orderHandler.RegisterRoutes(r)

			reportHandler := handler.NewReportHandler(orderService)
			reportHandler.RegisterRoutes(r)

			statusHandler.RegisterAdminRoutes(r)

			notificationHandler := handler.NewNotificationHandler(d.Watcher)
			notificationHandler.RegisterRoutes(r)
		})
	})

	return r
}
