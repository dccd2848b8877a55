package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/ranked-hc/auth"
	_ "github.com/Dosada05/ranked-hc/docs" // swagger
	"github.com/Dosada05/ranked-hc/handlers"
	"github.com/Dosada05/ranked-hc/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Config struct {
	CORSHosts      []string
	Cookies        auth.CookieOptions
	RequestTimeout time.Duration
}

func SetupRoutes(
	router chi.Router,
	cfg Config,
	gate *auth.Gate,
	authHandler *handlers.AuthHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	if len(cfg.CORSHosts) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSHosts,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true, // cookie сессии
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// websocket живёт дольше таймаута запроса
	router.Get("/ws/leaderboard", webSocketHandler.ServeLeaderboard)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.Session(gate, cfg.Cookies))

		r.Get("/leaderboard", leaderboardHandler.GetLeaderboard)
		r.Get("/leaderboard.csv", leaderboardHandler.DownloadCSV)
		r.Get("/rules", leaderboardHandler.GetRules)
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", leaderboardHandler.ListTeams)
			r.Get("/{teamID}", leaderboardHandler.GetTeam)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/otp", authHandler.RequestCode)
			r.Post("/otp/verify", authHandler.VerifyCode)
			r.Post("/logout", authHandler.Logout)
			r.Get("/status", authHandler.Status)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(gate))

			r.Route("/players", func(r chi.Router) {
				r.Post("/", adminHandler.CreatePlayer)
				r.Post("/import", adminHandler.ImportPlayers)
				r.Patch("/{abv}", adminHandler.UpdatePlayer)
				r.Delete("/{abv}", adminHandler.DeletePlayer)
			})
			r.Route("/teams", func(r chi.Router) {
				r.Post("/", adminHandler.CreateTeam)
				r.Patch("/{teamID}", adminHandler.RenameTeam)
				r.Delete("/{teamID}", adminHandler.DeleteTeam)
				r.Post("/{teamID}/members", adminHandler.AddTeamMember)
				r.Delete("/{teamID}/members/{abv}", adminHandler.RemoveTeamMember)
			})
			r.Post("/exports", adminHandler.ExportLeaderboard)
		})
	})
}
