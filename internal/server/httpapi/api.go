// Package httpapi is the HTTP transport: routing, the authorization gate,
// request/response mapping and operational endpoints.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/gorilla/mux"
)

// Options configures the router. Zero values disable the optional parts.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// API owns the handlers and their dependencies.
type API struct {
	users   IdentityService
	tasks   TaskService
	logger  logging.Logger
	metrics *Metrics
	opts    Options
}

func NewAPI(us IdentityService, ts TaskService, l logging.Logger, m *Metrics, opts Options) *API {
	if m == nil {
		m = NewMetrics()
	}
	return &API{
		users:   us,
		tasks:   ts,
		logger:  l.With("module", "http_api"),
		metrics: m,
		opts:    opts,
	}
}

// Handler builds the complete handler. Every route is also served under
// the /api prefix.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.Use(a.metrics.Middleware)

	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	a.routes(r.PathPrefix("/api").Subrouter())
	a.routes(r)

	return Chain(r,
		RequestID,
		AccessLog(a.logger),
		Recover(a.logger),
		CORS(a.opts.AllowedOrigins),
		MaxBytes(maxBodyBytes),
		Timeout(a.opts.RequestTimeout),
	)
}

func (a *API) routes(r *mux.Router) {
	r.HandleFunc("/health", a.health).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)

	authed := func(h http.HandlerFunc) http.Handler { return Authenticate(a.users)(h) }
	r.Handle("/auth/me", authed(a.me)).Methods(http.MethodGet)

	// No PathPrefix subrouter here: it would turn a method mismatch on
	// /tasks into a 404.
	r.Handle("/tasks", authed(a.listTasks)).Methods(http.MethodGet)
	r.Handle("/tasks", authed(a.createTask)).Methods(http.MethodPost)
	r.Handle("/tasks/{id}", authed(a.getTask)).Methods(http.MethodGet)
	r.Handle("/tasks/{id}", authed(a.updateTask)).Methods(http.MethodPut)
	r.Handle("/tasks/{id}", authed(a.deleteTask)).Methods(http.MethodDelete)
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

// fail writes the error response. Unexpected errors are logged with their
// text; the client only sees a generic message.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	status, msg := statusFor(err, notFoundMsg)
	if status == http.StatusInternalServerError {
		a.logger.Error(r.Context(), "request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err.Error(),
		)
	}
	writeMessage(w, status, msg)
}
