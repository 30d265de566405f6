package routes

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warbler/handlers"
	"warbler/monitoring"
)

// Setup initializes all the application routes and wraps the router in the
// session, CSRF, metrics and cache-control middleware.
func Setup(h *handlers.Handler, secret []byte, secure bool) http.Handler {
	protect := csrf.Protect(secret, csrf.Secure(secure), csrf.Path("/"))
	return handlers.NoStore(protect(h.LoadUser(Router(h))))
}

// Router registers the application routes. The routing logic is isolated here.
func Router(h *handlers.Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(monitoring.InstrumentHandler)

	// Auth routes
	router.HandleFunc("/signup", h.Signup).Methods("GET", "POST")
	router.HandleFunc("/login", h.Login).Methods("GET", "POST")
	router.HandleFunc("/logout", h.Logout).Methods("POST")

	// User routes
	router.HandleFunc("/users", h.ListUsers).Methods("GET")
	router.HandleFunc("/users/profile", h.EditProfile).Methods("GET", "POST")
	router.HandleFunc("/users/delete", h.DeleteUser).Methods("POST")
	router.HandleFunc("/users/follow/{id:[0-9]+}", h.StartFollowing).Methods("POST")
	router.HandleFunc("/users/stop-following/{id:[0-9]+}", h.StopFollowing).Methods("POST")
	router.HandleFunc("/users/like/{id:[0-9]+}", h.LikeMessage).Methods("POST")
	router.HandleFunc("/users/remove-like/{id:[0-9]+}", h.RemoveLike).Methods("POST")
	router.HandleFunc("/users/likes/{id:[0-9]+}", h.ShowLikes).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}", h.ShowUser).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/following", h.ShowFollowing).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/followers", h.ShowFollowers).Methods("GET")

	// Message routes
	router.HandleFunc("/messages/new", h.NewMessage).Methods("GET", "POST")
	router.HandleFunc("/messages/{id:[0-9]+}", h.ShowMessage).Methods("GET")
	router.HandleFunc("/messages/{id:[0-9]+}/delete", h.DeleteMessage).Methods("POST")

	// Homepage
	router.HandleFunc("/", h.Home).Methods("GET")

	// Static assets and metrics
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
