package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"warbler/forms"
	"warbler/models"
	"warbler/monitoring"
)

// Signup handles GET (present form) and POST (create the account and log in).
// A duplicate username surfaces as a DB uniqueness violation and re-presents
// the form.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "signup.html", map[string]any{
			"Form":   &forms.SignupForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewSignupForm(r)
	if errs := form.Validate(); errs != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "signup.html", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, err := models.NewUser(form.Username, form.Email, form.Password, form.ImageURL)
	if err != nil {
		h.serverError(w, err, "failed to hash password")
		return
	}

	if err := h.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderStatus(w, r, http.StatusBadRequest, "signup.html", map[string]any{
				"Form":   form,
				"Errors": forms.Errors{"Username": "Username already taken"},
			})
			return
		}
		h.serverError(w, err, "failed to create user")
		return
	}

	monitoring.SignupSuccess.Inc()
	if err := h.sessions.LoginUser(w, r, user.ID); err != nil {
		h.serverError(w, err, "failed to establish session")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Login verifies the password hash and establishes the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "login.html", map[string]any{
			"Form":   &forms.LoginForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewLoginForm(r)
	if errs := form.Validate(); errs != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "login.html", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, err := h.users.FindByUsername(form.Username)
	if err != nil && !isNotFound(err) {
		h.serverError(w, err, "failed to look up user")
		return
	}
	if err != nil || !user.CheckPassword(form.Password) {
		reason := "bad_password"
		if err != nil {
			reason = "unknown_user"
		}
		monitoring.LoginFailure.WithLabelValues(reason).Inc()
		h.renderStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Form":   form,
			"Errors": forms.Errors{"form": "Invalid credentials."},
		})
		return
	}

	monitoring.LoginSuccess.Inc()
	if err := h.sessions.LoginUser(w, r, user.ID); err != nil {
		h.serverError(w, err, "failed to establish session")
		return
	}
	h.sessions.AddFlash(w, r, "success", fmt.Sprintf("Hello, %s!", user.Username))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session. CSRF on the logout form is enforced by the
// middleware like every other mutation.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.LogoutUser(w, r); err != nil {
		h.serverError(w, err, "failed to clear session")
		return
	}
	h.sessions.AddFlash(w, r, "success", "Successfully logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}
