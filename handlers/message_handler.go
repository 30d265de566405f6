package handlers

import (
	"fmt"
	"net/http"

	"warbler/forms"
	"warbler/models"
	"warbler/monitoring"
)

// NewMessage shows the new-message form and creates the message on POST.
func (h *Handler) NewMessage(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, "messages_new.html", map[string]any{
			"Form":   &forms.MessageForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewMessageForm(r)
	if errs := form.Validate(); errs != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "messages_new.html", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	msg := models.Message{Text: form.Text, UserID: user.ID}
	if err := h.messages.Create(&msg); err != nil {
		h.serverError(w, err, "failed to create message")
		return
	}

	monitoring.MessagesPosted.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// ShowMessage renders a single message page.
func (h *Handler) ShowMessage(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}

	msg, ok := h.messageFromPath(w, r)
	if !ok {
		return
	}

	cards, err := h.buildCards(r, viewer, []models.Message{*msg})
	if err != nil {
		h.serverError(w, err, "failed to load like state")
		return
	}

	h.render(w, r, "messages_show.html", map[string]any{
		"Message": msg,
		"Cards":   cards,
		"IsOwner": msg.UserID == viewer.ID,
	})
}

// DeleteMessage deletes a message. Only the owner may delete it.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}

	msg, ok := h.messageFromPath(w, r)
	if !ok {
		return
	}

	if msg.UserID != viewer.ID {
		h.unauthorized(w, r)
		return
	}

	if err := h.messages.Delete(msg); err != nil {
		h.serverError(w, err, "failed to delete message")
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", viewer.ID), http.StatusFound)
}

// messageFromPath loads the message named by the {id} route variable, writing
// a 404 when absent.
func (h *Handler) messageFromPath(w http.ResponseWriter, r *http.Request) (*models.Message, bool) {
	id, err := idVar(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	msg, err := h.messages.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err, "failed to load message")
		}
		return nil, false
	}
	return msg, true
}
