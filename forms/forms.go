// Package forms holds the request form types and their validation. Validation
// failures come back as a field -> user-visible message map which the handlers
// redisplay inline on the form.
package forms

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// messages maps "Field.tag" to user-visible text. Anything missing falls back
// to a generic message so a new rule can't render an empty error.
var messages = map[string]string{
	"Username.required":  "You have to enter a username",
	"Username.max":       "Usernames can be at most 30 characters",
	"Email.required":     "You have to enter a valid email address",
	"Email.email":        "You have to enter a valid email address",
	"Email.max":          "You have to enter a valid email address",
	"Password.required":  "You have to enter a password",
	"Password.min":       "Passwords must be at least 6 characters",
	"ImageURL.url":       "The image URL is not valid",
	"HeaderImageURL.url": "The header image URL is not valid",
	"Text.required":      "You have to enter a message",
	"Text.max":           "Messages can be at most 140 characters",
}

func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{"form": "Invalid input"}
	}

	formErrors := make(Errors, len(validationErrs))
	for _, fieldErr := range validationErrs {
		if _, seen := formErrors[fieldErr.Field()]; seen {
			continue
		}
		msg, ok := messages[fieldErr.Field()+"."+fieldErr.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		formErrors[fieldErr.Field()] = msg
	}
	return formErrors
}

// SignupForm carries the fields of the signup page.
type SignupForm struct {
	Username string `validate:"required,max=30"`
	Email    string `validate:"required,email,max=50"`
	Password string `validate:"required,min=6,max=64"`
	ImageURL string `validate:"omitempty,url"`
}

func NewSignupForm(r *http.Request) *SignupForm {
	return &SignupForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		ImageURL: strings.TrimSpace(r.PostFormValue("image_url")),
	}
}

func (f *SignupForm) Validate() Errors { return check(f) }

// LoginForm carries the fields of the login page.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func NewLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

func (f *LoginForm) Validate() Errors { return check(f) }

// MessageForm carries the new-message text.
type MessageForm struct {
	Text string `validate:"required,max=140"`
}

func NewMessageForm(r *http.Request) *MessageForm {
	return &MessageForm{Text: strings.TrimSpace(r.PostFormValue("text"))}
}

func (f *MessageForm) Validate() Errors { return check(f) }

// ProfileEditForm carries the profile edit fields. Password is the account
// password, required to confirm the change, not a new password.
type ProfileEditForm struct {
	Username       string `validate:"required,max=30"`
	Email          string `validate:"required,email,max=50"`
	Bio            string `validate:"omitempty,max=500"`
	ImageURL       string `validate:"omitempty,url"`
	HeaderImageURL string `validate:"omitempty,url"`
	Password       string `validate:"required"`
}

func NewProfileEditForm(r *http.Request) *ProfileEditForm {
	return &ProfileEditForm{
		Username:       strings.TrimSpace(r.PostFormValue("username")),
		Email:          strings.TrimSpace(r.PostFormValue("email")),
		Bio:            strings.TrimSpace(r.PostFormValue("bio")),
		ImageURL:       strings.TrimSpace(r.PostFormValue("image_url")),
		HeaderImageURL: strings.TrimSpace(r.PostFormValue("header_image_url")),
		Password:       r.PostFormValue("password"),
	}
}

func (f *ProfileEditForm) Validate() Errors { return check(f) }
