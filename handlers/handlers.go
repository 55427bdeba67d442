package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vacationrental/auth"
	"vacationrental/db"
	"vacationrental/i18n"
	"vacationrental/listings"
	"vacationrental/templates"
)

func (a *App) IndexHandler(w http.ResponseWriter, r *http.Request) {
	properties, err := a.Listings.ListListings(r.Context())
	if err != nil {
		a.serverError(w, r, "Error listing properties", err)
		return
	}
	a.renderTemplate(w, r, http.StatusOK, "index.html", map[string]any{"Properties": properties})
}

func (a *App) ListingsHandler(w http.ResponseWriter, r *http.Request) {
	properties, err := a.Listings.ListListings(r.Context())
	if err != nil {
		a.serverError(w, r, "Error listing properties", err)
		return
	}
	a.renderTemplate(w, r, http.StatusOK, "listings.html", map[string]any{"Properties": properties})
}

func (a *App) PropertyHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, i18n.T(lang, "InvalidPropertyID"), http.StatusBadRequest)
		return
	}

	property, err := a.Listings.GetListing(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(i18n.T(lang, "PropertyNotFound")))
		return
	}
	if err != nil {
		a.serverError(w, r, "Error loading property", err, zap.Int64("property_id", id))
		return
	}

	a.renderTemplate(w, r, http.StatusOK, "property_details.html", map[string]any{"Property": property})
}

func (a *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderTemplate(w, r, http.StatusOK, "register.html", a.registerData(map[string]any{"Username": ""}))
		return
	}

	lang := i18n.DetectLanguage(r)
	username := r.FormValue("username")
	password := r.FormValue("password")

	ip := getClientIP(r)
	if !a.registerLimiter.Allow(ip) {
		a.renderTemplate(w, r, http.StatusTooManyRequests, "register.html",
			a.registerData(map[string]any{"Error": i18n.T(lang, "TooManyAttempts"), "Username": username}))
		return
	}

	if a.Config.RequireCaptcha && !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
		a.renderTemplate(w, r, http.StatusBadRequest, "register.html",
			a.registerData(map[string]any{"Error": i18n.T(lang, "InvalidCaptcha"), "Username": username}))
		return
	}

	err := a.Credentials.Register(r.Context(), username, password)
	if errors.Is(err, auth.ErrUsernameRequired) {
		a.renderTemplate(w, r, http.StatusBadRequest, "register.html",
			a.registerData(map[string]any{"Error": i18n.T(lang, "UsernameRequired"), "Username": username}))
		return
	}
	if errors.Is(err, auth.ErrDuplicateUsername) {
		a.Log.Info("Registration rejected, username taken", zap.String("username", username))
		a.renderTemplate(w, r, http.StatusConflict, "register.html",
			a.registerData(map[string]any{"Error": i18n.T(lang, "UsernameAlreadyExists"), "Username": username}))
		return
	}
	if err != nil {
		a.serverError(w, r, "Error registering user", err)
		return
	}

	// Every account created counts against the per-IP signup budget
	a.registerLimiter.RecordFailure(ip)

	a.Log.Info("Registered user", zap.String("username", username))
	http.Redirect(w, r, "/login", http.StatusFound)
}

// registerData adds a fresh captcha challenge to data when captchas are on.
func (a *App) registerData(data map[string]any) map[string]any {
	if a.Config.RequireCaptcha {
		data["CaptchaID"] = captcha.New()
	}
	return data
}

func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderTemplate(w, r, http.StatusOK, "login.html", map[string]any{"Username": ""})
		return
	}

	lang := i18n.DetectLanguage(r)
	username := r.FormValue("username")
	password := r.FormValue("password")

	ip := getClientIP(r)
	if !a.loginLimiter.Allow(ip) {
		a.renderTemplate(w, r, http.StatusTooManyRequests, "login.html",
			map[string]any{"Error": i18n.T(lang, "TooManyAttempts"), "Username": username})
		return
	}

	_, err := a.Sessions.Login(w, r, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		a.loginLimiter.RecordFailure(ip)
		a.Log.Info("Login rejected", zap.String("username", username), zap.String("ip", ip))
		a.renderTemplate(w, r, http.StatusUnauthorized, "login.html",
			map[string]any{"Error": i18n.T(lang, "InvalidCredentials"), "Username": username})
		return
	}
	if err != nil {
		a.serverError(w, r, "Error logging in", err)
		return
	}

	a.loginLimiter.Reset(ip)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Logout(w, r); err != nil {
		a.Log.Error("Error clearing session", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// DashboardHandler renders for everyone and greets logged-in users by name.
func (a *App) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	_, loggedIn := a.Sessions.Current(r)
	a.renderTemplate(w, r, http.StatusOK, "dashboard.html", map[string]any{"LoggedIn": loggedIn})
}

func (a *App) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderTemplate(w, r, http.StatusOK, "search.html", map[string]any{"Query": listings.Query{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query, err := listings.QueryFromValues(r.PostForm)
	var verr *listings.ValidationError
	if errors.As(err, &verr) {
		a.renderTemplate(w, r, http.StatusBadRequest, "search.html", map[string]any{
			"Query": query,
			"Error": i18n.T(i18n.DetectLanguage(r), "InvalidNumber") + " " + verr.Field,
		})
		return
	}

	results, err := a.Listings.Search(r.Context(), query)
	if err != nil {
		a.serverError(w, r, "Error searching properties", err)
		return
	}

	a.renderTemplate(w, r, http.StatusOK, "search.html", map[string]any{
		"Query":    query,
		"Results":  results,
		"Searched": true,
	})
}

// AddPropertyHandler sits behind RequireAuthenticated.
func (a *App) AddPropertyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderTemplate(w, r, http.StatusOK, "add_property.html", map[string]any{"Form": listings.Form{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := listings.FormFromValues(r.PostForm)
	sess := auth.SessionFromContext(r.Context())

	_, err := a.Listings.CreateListing(r.Context(), sess, form)
	var verr *listings.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/listings", http.StatusFound)
	case errors.As(err, &verr):
		a.Log.Info("Rejected listing form", zap.String("field", verr.Field), zap.String("value", verr.Value))
		a.renderTemplate(w, r, http.StatusBadRequest, "add_property.html", map[string]any{
			"Form":  form,
			"Error": i18n.T(i18n.DetectLanguage(r), "InvalidNumber") + " " + verr.Field,
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusFound)
	default:
		a.serverError(w, r, "Error creating listing", err)
	}
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	a.Log.Error(msg, append(fields, zap.Error(err), zap.String("path", r.URL.Path))...)
	http.Error(w, i18n.T(i18n.DetectLanguage(r), "InternalServerError"), http.StatusInternalServerError)
}

func (a *App) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templates.FS, "layout.html", name)
	if err != nil {
		a.serverError(w, r, "Error parsing template", err, zap.String("template", name))
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["AppName"] = a.Config.AppName
	data["Lang"] = lang
	data["csrfField"] = csrf.TemplateField(r)
	if sess, ok := a.Sessions.Current(r); ok {
		data["CurrentUser"] = sess.Username
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		a.serverError(w, r, "Error rendering template", err, zap.String("template", name))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
