package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/timelessthreads/storefront/config"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/otp"
	"github.com/timelessthreads/storefront/session"
	"github.com/timelessthreads/storefront/store"
)

func TestMain(m *testing.M) {
	config.JWTSecret = "test-secret"
	config.SessionTTLHours = 24
	os.Exit(m.Run())
}

// captureSender records the last code handed to it so tests can complete
// the verification step.
type captureSender struct {
	lastDestination string
	lastCode        string
}

func (s *captureSender) SendCode(ctx context.Context, destination, code string) error {
	s.lastDestination = destination
	s.lastCode = code
	return nil
}

type fixture struct {
	handler  *Handler
	router   chi.Router
	users    *store.MemoryUserStore
	products *store.MemoryProductStore
	reviews  *store.MemoryReviewStore
	sessions *session.MemoryStore
	sender   *captureSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    store.NewMemoryUserStore(),
		products: store.NewMemoryProductStore(),
		reviews:  store.NewMemoryReviewStore(),
		sessions: session.NewMemoryStore(24),
		sender:   &captureSender{},
	}
	f.handler = NewHandler(f.users, f.products, f.reviews,
		otp.NewStore(5*time.Minute), f.sessions, f.sender)
	// Identity presigner keeps tests off S3.
	f.handler.PresignImages = func(ctx context.Context, images []string) []string { return images }
	f.router = NewRouter(f.handler)
	return f
}

func (f *fixture) seedProduct(t *testing.T, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, f.products.Insert(context.Background(), &p))
	return p
}

// client drives the router while carrying the session cookie between
// requests, like a browser would.
type client struct {
	t      *testing.T
	router chi.Router
	cookie *http.Cookie
}

func (f *fixture) client(t *testing.T) *client {
	return &client{t: t, router: f.router}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

// loginAs plants an authenticated session directly, for tests that are not
// about the auth flow itself.
func (f *fixture) loginAs(t *testing.T, c *client, name string) {
	t.Helper()
	sid := "test-session-" + name
	require.NoError(t, f.sessions.Save(context.Background(), sid, &session.Data{User: name}))
	c.cookie = &http.Cookie{Name: sessionCookie, Value: sid}
}
