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

// ListUsers shows all users, filtered by the optional q substring.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}

	query := r.URL.Query().Get("q")
	users, err := h.users.Search(query)
	if err != nil {
		h.serverError(w, err, "failed to search users")
		return
	}

	h.render(w, r, "users_index.html", map[string]any{
		"Users": users,
		"Query": query,
	})
}

// ShowUser renders a profile with the user's latest messages.
func (h *Handler) ShowUser(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}

	user, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.ByUser(user.ID, FeedLimit)
	if err != nil {
		h.serverError(w, err, "failed to load messages")
		return
	}
	stats, err := h.users.Stats(user)
	if err != nil {
		h.serverError(w, err, "failed to load profile stats")
		return
	}
	isFollowing, err := h.users.IsFollowing(viewer, user)
	if err != nil {
		h.serverError(w, err, "failed to check follow state")
		return
	}
	cards, err := h.buildCards(r, viewer, msgs)
	if err != nil {
		h.serverError(w, err, "failed to load like state")
		return
	}

	h.render(w, r, "users_show.html", map[string]any{
		"User":        user,
		"Stats":       stats,
		"Cards":       cards,
		"IsSelf":      viewer.ID == user.ID,
		"IsFollowing": isFollowing,
	})
}

// ShowFollowing lists the users this user follows.
func (h *Handler) ShowFollowing(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}
	user, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	following, err := h.users.Following(user)
	if err != nil {
		h.serverError(w, err, "failed to load following")
		return
	}
	h.render(w, r, "users_following.html", map[string]any{
		"User":  user,
		"Users": following,
	})
}

// ShowFollowers lists this user's followers.
func (h *Handler) ShowFollowers(w http.ResponseWriter, r *http.Request) {
	if h.requireUser(w, r) == nil {
		return
	}
	user, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	followers, err := h.users.Followers(user)
	if err != nil {
		h.serverError(w, err, "failed to load followers")
		return
	}
	h.render(w, r, "users_followers.html", map[string]any{
		"User":  user,
		"Users": followers,
	})
}

// StartFollowing makes the current user follow the target. Following yourself
// is refused, and an existing follow is a no-op (the pair is unique).
func (h *Handler) StartFollowing(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	redirect := fmt.Sprintf("/users/%d/following", viewer.ID)

	if target.ID == viewer.ID {
		h.sessions.AddFlash(w, r, "warning", "You can't follow yourself.")
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}

	already, err := h.users.IsFollowing(viewer, target)
	if err != nil {
		h.serverError(w, err, "failed to check follow state")
		return
	}
	if !already {
		if err := h.users.Follow(viewer, target); err != nil {
			h.serverError(w, err, "failed to create follow")
			return
		}
		monitoring.FollowsCreated.Inc()
	}

	http.Redirect(w, r, redirect, http.StatusFound)
}

// StopFollowing removes the follow; not currently following is unauthorized.
func (h *Handler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	viewer := CurrentUser(r)
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	if viewer == nil {
		h.unauthorized(w, r)
		return
	}
	following, err := h.users.IsFollowing(viewer, target)
	if err != nil {
		h.serverError(w, err, "failed to check follow state")
		return
	}
	if !following {
		h.unauthorized(w, r)
		return
	}

	if err := h.users.Unfollow(viewer, target); err != nil {
		h.serverError(w, err, "failed to remove follow")
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", viewer.ID), http.StatusFound)
}

// EditProfile shows and applies the profile edit form. The account password
// has to be re-entered before any change is applied.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, "users_edit.html", map[string]any{
			"Form": &forms.ProfileEditForm{
				Username:       user.Username,
				Email:          user.Email,
				Bio:            user.Bio,
				ImageURL:       user.ImageURL,
				HeaderImageURL: user.HeaderImageURL,
			},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewProfileEditForm(r)
	if errs := form.Validate(); errs != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "users_edit.html", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	if !user.CheckPassword(form.Password) {
		h.renderStatus(w, r, http.StatusUnauthorized, "users_edit.html", map[string]any{
			"Form":   form,
			"Errors": forms.Errors{"Password": "Invalid password"},
		})
		return
	}

	user.Username = form.Username
	user.Email = form.Email
	user.Bio = form.Bio
	user.ImageURL = form.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = form.HeaderImageURL
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}

	if err := h.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderStatus(w, r, http.StatusBadRequest, "users_edit.html", map[string]any{
				"Form":   form,
				"Errors": forms.Errors{"Username": "Username already taken"},
			})
			return
		}
		h.serverError(w, err, "failed to update profile")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// DeleteUser removes the account, cascading the user's messages and
// association rows, then sends them to the signup page.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	if err := h.sessions.LogoutUser(w, r); err != nil {
		h.serverError(w, err, "failed to clear session")
		return
	}
	if err := h.users.Delete(user); err != nil {
		h.serverError(w, err, "failed to delete user")
		return
	}

	h.sessions.AddFlash(w, r, "success", "We'll miss you!")
	http.Redirect(w, r, "/signup", http.StatusFound)
}

// ShowLikes lists the messages a user has liked.
func (h *Handler) ShowLikes(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}
	user, ok := h.userFromPath(w, r)
	if !ok {
		return
	}

	msgs, err := h.users.LikedMessages(user, FeedLimit)
	if err != nil {
		h.serverError(w, err, "failed to load liked messages")
		return
	}
	cards, err := h.buildCards(r, viewer, msgs)
	if err != nil {
		h.serverError(w, err, "failed to load like state")
		return
	}

	h.render(w, r, "users_liked.html", map[string]any{
		"User":  user,
		"Cards": cards,
	})
}

// LikeMessage likes a message. Liking your own message is refused with a
// warning instead of an error.
func (h *Handler) LikeMessage(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}

	msg, ok := h.messageFromPath(w, r)
	if !ok {
		return
	}
	back := cameFrom(r)

	if msg.UserID == viewer.ID {
		h.sessions.AddFlash(w, r, "warning", "High-fiving yourself is not a good look.")
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	already, err := h.users.HasLiked(viewer, msg)
	if err != nil {
		h.serverError(w, err, "failed to check like state")
		return
	}
	if !already {
		if err := h.users.Like(viewer, msg); err != nil {
			h.serverError(w, err, "failed to create like")
			return
		}
		monitoring.LikesCreated.Inc()
	}

	http.Redirect(w, r, back, http.StatusFound)
}

// RemoveLike removes the current user's like from a message.
func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	viewer := h.requireUser(w, r)
	if viewer == nil {
		return
	}

	msg, ok := h.messageFromPath(w, r)
	if !ok {
		return
	}

	if err := h.users.Unlike(viewer, msg); err != nil {
		h.serverError(w, err, "failed to remove like")
		return
	}
	http.Redirect(w, r, cameFrom(r), http.StatusFound)
}

// userFromPath loads the user named by the {id} route variable, writing a 404
// when absent.
func (h *Handler) userFromPath(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := idVar(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	user, err := h.users.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err, "failed to load user")
		}
		return nil, false
	}
	return user, true
}
