package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"warbler/database"
	"warbler/handlers"
	"warbler/models"
	"warbler/repositories"
	"warbler/routes"
	"warbler/session"
	"warbler/templates"
)

// testApp wires the full handler stack against an in-memory database. CSRF is
// exercised separately in the routes tests; the bare router here keeps the
// form posts as simple as a browser's would be after token validation.
type testApp struct {
	t        *testing.T
	db       *gorm.DB
	router   http.Handler
	users    repositories.UserRepository
	messages repositories.MessageRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	renderer, err := templates.New()
	require.NoError(t, err)

	sessions := session.NewStore([]byte("development-key"), false)
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db)
	h := handlers.NewHandler(users, messages, sessions, renderer)

	return &testApp{
		t:        t,
		db:       db,
		router:   h.LoadUser(routes.Router(h)),
		users:    users,
		messages: messages,
	}
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(a.t, err)
	return a.do(req, cookies...)
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, err := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookies...)
}

// sessionCookie pulls the session cookie the server set on a response, so it
// can be attached to the next request the way a browser would.
// A handler may save the session more than once per request (logout then
// flash), so the last Set-Cookie wins, the same way a browser resolves it.
func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == session.SessionName {
			found = c
		}
	}
	if found == nil {
		t.Fatal("session cookie not found")
	}
	return found
}

// signup registers a user through the handler and returns the session cookie.
func (a *testApp) signup(username, email, password string) *http.Cookie {
	resp := a.postForm("/signup", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.Equal(a.t, http.StatusFound, resp.Code, "signup failed: %s", resp.Body.String())
	return sessionCookie(a.t, resp)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// seedUser inserts a user directly through the repository.
func (a *testApp) seedUser(username, email string) *models.User {
	a.t.Helper()
	user, err := models.NewUser(username, email, "password", "")
	require.NoError(a.t, err)
	require.NoError(a.t, a.users.Create(user))
	return user
}

// seedMessage inserts a message directly through the repository.
func (a *testApp) seedMessage(user *models.User, text string) *models.Message {
	a.t.Helper()
	msg := &models.Message{Text: text, UserID: user.ID}
	require.NoError(a.t, a.messages.Create(msg))
	return msg
}
