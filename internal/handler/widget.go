// Package handler contains the HTTP surface of the address form: the page
// itself plus the endpoints the widget script drives on field changes.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"plzform/internal/middleware"
	"plzform/internal/session"
	"plzform/internal/widget"
)

// SessionCookie is the name of the widget session cookie.
const SessionCookie = "plzform_session"

// WidgetHandler serves the address form and applies field events to the
// session's validator.
type WidgetHandler struct {
	sessions *session.Store
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(sessions *session.Store, renderer *Renderer, logger *slog.Logger) *WidgetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WidgetHandler{
		sessions: sessions,
		renderer: renderer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// fieldInput is a single field edit posted by the widget script.
type fieldInput struct {
	Value string `validate:"max=120"`
}

// selectInput is a dropdown selection; an empty choice is not a selection.
type selectInput struct {
	Value string `validate:"required,max=32"`
}

// widgetView is the template model for the form page and the widget partial.
type widgetView struct {
	Locality      string
	PostalCode    string
	Dropdown      bool
	Options       []string
	Status        string
	StatusMessage string
}

func viewOf(snap widget.Snapshot) widgetView {
	return widgetView{
		Locality:      snap.Locality,
		PostalCode:    snap.PostalCode,
		Dropdown:      snap.Mode == widget.ModeDropdown,
		Options:       snap.Options,
		Status:        snap.Status.Kind.String(),
		StatusMessage: snap.Status.Message,
	}
}

// FormPage handles GET /
func (h *WidgetHandler) FormPage(w http.ResponseWriter, r *http.Request) {
	v := h.sessionValidator(w, r)
	h.renderer.RenderHTTP(w, "form", viewOf(v.Snapshot()))
}

// State handles GET /widget/state, rendering the widget partial for polling.
func (h *WidgetHandler) State(w http.ResponseWriter, r *http.Request) {
	v := h.sessionValidator(w, r)
	h.renderer.RenderHTTP(w, "_widget", viewOf(v.Snapshot()))
}

// Locality handles POST /widget/locality
func (h *WidgetHandler) Locality(w http.ResponseWriter, r *http.Request) {
	v := h.sessionValidator(w, r)

	input := fieldInput{Value: r.PostFormValue("value")}
	if err := h.validate.Struct(input); err != nil {
		h.badInput(w, r, err)
		return
	}

	v.SetLocality(input.Value)
	h.renderer.RenderHTTP(w, "_widget", viewOf(v.Snapshot()))
}

// PostalCode handles POST /widget/postal-code
func (h *WidgetHandler) PostalCode(w http.ResponseWriter, r *http.Request) {
	v := h.sessionValidator(w, r)

	input := fieldInput{Value: r.PostFormValue("value")}
	if err := h.validate.Struct(input); err != nil {
		h.badInput(w, r, err)
		return
	}

	v.SetPostalCode(input.Value)
	h.renderer.RenderHTTP(w, "_widget", viewOf(v.Snapshot()))
}

// Select handles POST /widget/select
func (h *WidgetHandler) Select(w http.ResponseWriter, r *http.Request) {
	v := h.sessionValidator(w, r)

	input := selectInput{Value: r.PostFormValue("value")}
	if err := h.validate.Struct(input); err != nil {
		h.badInput(w, r, err)
		return
	}

	v.SelectOption(input.Value)
	h.renderer.RenderHTTP(w, "_widget", viewOf(v.Snapshot()))
}

// sessionValidator resolves the request's widget session, minting a new
// session and cookie when none exists.
func (h *WidgetHandler) sessionValidator(w http.ResponseWriter, r *http.Request) *widget.Validator {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	newID, v := h.sessions.GetOrCreate(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return v
}

func (h *WidgetHandler) badInput(w http.ResponseWriter, r *http.Request, err error) {
	middleware.GetLogger(r.Context(), h.logger).Warn("rejected widget input", "error", err)
	http.Error(w, "Invalid input", http.StatusBadRequest)
}
