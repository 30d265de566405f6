package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"warbler/models"
	"warbler/repositories"
	"warbler/session"
	"warbler/templates"
)

// FeedLimit caps every message listing, including the home feed.
const FeedLimit = 100

type contextKey string

const userContextKey contextKey = "curr_user"

// Handler carries the dependencies shared by all route handlers.
type Handler struct {
	users     repositories.UserRepository
	messages  repositories.MessageRepository
	sessions  *session.Store
	templates *templates.Renderer
}

func NewHandler(users repositories.UserRepository, messages repositories.MessageRepository, sessions *session.Store, renderer *templates.Renderer) *Handler {
	return &Handler{
		users:     users,
		messages:  messages,
		sessions:  sessions,
		templates: renderer,
	}
}

// LoadUser resolves the session's user and attaches it to the request context.
// A stale session (user deleted, undecodable cookie) just means anonymous.
func (h *Handler) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := h.sessions.CurrentUserID(r); ok {
			if user, err := h.users.FindByID(id); err == nil {
				ctx := context.WithValue(r.Context(), userContextKey, user)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// NoStore disables response caching on every page.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the logged-in user attached to the request, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// requireUser returns the logged-in user, or flashes the unauthorized message
// and redirects home.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := CurrentUser(r)
	if user == nil {
		h.unauthorized(w, r)
	}
	return user
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	h.sessions.AddFlash(w, r, "danger", "Access unauthorized.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	h.renderStatus(w, r, http.StatusOK, page, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["CurrentUser"] = CurrentUser(r)
	data["Flashes"] = h.sessions.Flashes(w, r)
	data["CSRFField"] = csrf.TemplateField(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, page, data); err != nil {
		logrus.WithError(err).WithField("template", page).Error("failed to render template")
	}
}

// idVar parses the {id} route variable.
func idVar(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// cameFrom returns the local path the like/unlike form came from, falling back
// to the homepage so the redirect can never leave the site.
func cameFrom(r *http.Request) string {
	came := r.PostFormValue("came-from")
	if !strings.HasPrefix(came, "/") || strings.HasPrefix(came, "//") {
		return "/"
	}
	return came
}

// card is the per-message view passed to the message_card partial.
type card struct {
	Message     models.Message
	Liked       bool
	CurrentUser *models.User
	CSRFField   template.HTML
	CameFrom    string
}

// buildCards decorates messages with the viewer's like state for rendering.
func (h *Handler) buildCards(r *http.Request, viewer *models.User, msgs []models.Message) ([]card, error) {
	liked := map[uint]bool{}
	if viewer != nil {
		ids, err := h.users.LikedMessageIDs(viewer)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			liked[id] = true
		}
	}

	field := csrf.TemplateField(r)
	cards := make([]card, len(msgs))
	for i, msg := range msgs {
		cards[i] = card{
			Message:     msg,
			Liked:       liked[msg.ID],
			CurrentUser: viewer,
			CSRFField:   field,
			CameFrom:    r.URL.RequestURI(),
		}
	}
	return cards, nil
}

func (h *Handler) serverError(w http.ResponseWriter, err error, what string) {
	logrus.WithError(err).Error(what)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
