package handlers

import (
	"net/http"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vacationrental/auth"
	"vacationrental/config"
	"vacationrental/crypto"
	"vacationrental/db"
	"vacationrental/i18n"
	"vacationrental/listings"
	"vacationrental/static"
)

// App is the application context shared by all handlers. It is built once at
// startup.
type App struct {
	Config      *config.Config
	Credentials *auth.Credentials
	Sessions    *auth.SessionManager
	Listings    *listings.Service
	Log         *zap.Logger

	loginLimiter    *rateLimiter
	registerLimiter *rateLimiter
}

func NewApp(cfg *config.Config, store *db.Store, log *zap.Logger) (*App, error) {
	if err := i18n.LoadTranslations(); err != nil {
		return nil, err
	}

	creds := auth.NewCredentials(store)
	sessions, err := auth.NewSessionManager(cfg.SessionKey, cfg.SecureCookies, creds)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:          cfg,
		Credentials:     creds,
		Sessions:        sessions,
		Listings:        listings.NewService(store, log.Named("listings")),
		Log:             log,
		loginLimiter:    newRateLimiter(),
		registerLimiter: newRateLimiter(),
	}, nil
}

// RegisterHandlers wires every route onto r.
func (a *App) RegisterHandlers(r *mux.Router) {
	r.HandleFunc("/", a.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/property/{id:[0-9]+}", a.PropertyHandler).Methods(http.MethodGet)
	r.HandleFunc("/listings", a.ListingsHandler).Methods(http.MethodGet)
	r.HandleFunc("/register", a.RegisterHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", a.LoginHandler).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/logout", a.Sessions.RequireAuthenticated(http.HandlerFunc(a.LogoutHandler))).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", a.DashboardHandler).Methods(http.MethodGet)
	r.HandleFunc("/search", a.SearchHandler).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/add_property", a.Sessions.RequireAuthenticated(http.HandlerFunc(a.AddPropertyHandler))).
		Methods(http.MethodGet, http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/listings", a.APIListListingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}", a.APIGetListingHandler).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))
	if a.Config.RequireCaptcha {
		r.PathPrefix("/captcha/").Handler(captcha.Server(captcha.StdWidth, captcha.StdHeight))
	}
}

// Handler returns the complete HTTP handler: routes plus the security header
// and request logging middleware.
func (a *App) Handler() http.Handler {
	r := mux.NewRouter()
	a.RegisterHandlers(r)
	return a.RequestLogger(SecurityHeadersMiddleware(r))
}

// ProtectedHandler is Handler behind CSRF protection. Every unsafe request
// must carry the token rendered by the csrfField template value.
func (a *App) ProtectedHandler() (http.Handler, error) {
	key, err := crypto.DeriveCSRFKey(a.Config.SessionKey)
	if err != nil {
		return nil, err
	}

	protect := csrf.Protect(
		key,
		csrf.Secure(a.Config.SecureCookies),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(a.csrfFailure)),
	)

	handler := protect(a.Handler())
	if !a.Config.SecureCookies {
		handler = plaintextHTTP(handler)
	}
	return handler, nil
}
