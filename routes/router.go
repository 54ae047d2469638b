package routes

import (
	"net/http"

	"pixbatch/spool"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter configures the HTTP routes. sp may be nil, in which case
// asynchronous submissions are refused.
func NewRouter(sp *spool.Spool) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/batch", BatchHandler(sp)).Methods(http.MethodPost)
	r.HandleFunc("/batches", BatchQueryHandler(sp)).Methods(http.MethodGet)
	r.HandleFunc("/batches/list", BatchListHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", VersionHandler).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return r
}

// Handler wraps the router with CORS for browser and webview callers.
func Handler(sp *spool.Spool) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(NewRouter(sp))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
