package routes

import (
	"net/http"
	"time"

	"github.com/sambdun/ferro-animus/controllers/auth"
	"github.com/sambdun/ferro-animus/controllers/users"
	"github.com/sambdun/ferro-animus/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every user-facing route onto the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session traffic: 120 reads, 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	authed := func(h http.HandlerFunc) http.Handler {
		return userLimiter.Middleware(middleware.AuthMiddleware(h))
	}

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", authed(auth.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/logout-all", authed(auth.LogoutAllHandler)).Methods(http.MethodPost)

	// Profile
	api.Handle("/users/info", authed(users.InfoHandler)).Methods(http.MethodGet)
	api.Handle("/users/change-password", authed(users.ChangePasswordHandler)).Methods(http.MethodPost)
	api.Handle("/users/profile", authed(users.UpdateProfileHandler)).Methods(http.MethodPut)
	api.Handle("/users/profile", authed(users.DeleteProfileHandler)).Methods(http.MethodDelete)

	// Scoring engine
	api.Handle("/state", authed(users.StateHandler)).Methods(http.MethodGet)
	api.Handle("/xp", authed(users.AdjustXPHandler)).Methods(http.MethodPost)
	api.Handle("/daily-quests", authed(users.ToggleDailyHandler)).Methods(http.MethodPost)
	api.Handle("/reset", authed(users.ResetHandler)).Methods(http.MethodPost)

	// Quests
	api.Handle("/quests", authed(users.CreateQuestHandler)).Methods(http.MethodPost)
	api.Handle("/quests", authed(users.ListQuestsHandler)).Methods(http.MethodGet)
	api.Handle("/quests/{id:[0-9]+}/complete", authed(users.CompleteQuestHandler)).Methods(http.MethodPost)
	api.Handle("/quests/{id:[0-9]+}", authed(users.DeleteQuestHandler)).Methods(http.MethodDelete)

	// Books
	api.Handle("/books", authed(users.StartBookHandler)).Methods(http.MethodPost)
	api.Handle("/books", authed(users.ListBooksHandler)).Methods(http.MethodGet)
	api.Handle("/books/{id:[0-9]+}/finish", authed(users.FinishBookHandler)).Methods(http.MethodPost)

	// Regions
	api.Handle("/regions", authed(users.ListRegionsHandler)).Methods(http.MethodGet)
}
