package handlers

import "net/http"

// Home renders the feed for logged-in users and the landing page otherwise.
// The feed is the newest messages of the user and everyone they follow.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		h.render(w, r, "home_anon.html", nil)
		return
	}

	msgs, err := h.messages.Feed(user.ID, FeedLimit)
	if err != nil {
		h.serverError(w, err, "failed to load feed")
		return
	}
	cards, err := h.buildCards(r, user, msgs)
	if err != nil {
		h.serverError(w, err, "failed to load like state")
		return
	}

	h.render(w, r, "home.html", map[string]any{"Cards": cards})
}
