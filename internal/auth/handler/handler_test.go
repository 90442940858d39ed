package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musamusakannike/creator-ai-backend2/internal/auth"
	"github.com/musamusakannike/creator-ai-backend2/internal/middleware"
	"github.com/musamusakannike/creator-ai-backend2/internal/session"
	"github.com/musamusakannike/creator-ai-backend2/internal/token"
	"github.com/musamusakannike/creator-ai-backend2/internal/user"
)

const (
	frontendURL = "http://localhost:3000/auth/callback"
	failureURL  = "/auth/failure"
)

type fakeProvider struct {
	identity *auth.Identity
	err      error
}

func (p *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (p *fakeProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type fakeUserStore struct {
	users     map[uuid.UUID]*user.User
	upsertErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*user.User{}}
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByGoogleID(_ context.Context, googleID string) (*user.User, error) {
	for _, u := range s.users {
		if u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) Upsert(_ context.Context, googleID, email, accessToken string) (*user.User, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	for _, u := range s.users {
		if u.GoogleID == googleID {
			u.YouTubeAccessToken = accessToken
			return u, nil
		}
	}
	u := &user.User{ID: uuid.New(), Email: email, GoogleID: googleID, YouTubeAccessToken: accessToken}
	s.users[u.ID] = u
	return u, nil
}

type fakeSessionStore struct {
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]session.Session{}}
}

func (s *fakeSessionStore) Create(_ context.Context, sess session.Session) error {
	s.sessions[sess.SessionID] = sess
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID string) (*session.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

type fixture struct {
	router   *gin.Engine
	provider *fakeProvider
	users    *fakeUserStore
	sessions *fakeSessionStore
	tokens   *token.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager("test-secret-at-least-32-chars-long!!!!!!", "creator-dashboard-test", time.Hour)
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	p := &fakeProvider{
		identity: &auth.Identity{
			GoogleID:      "g-123",
			Email:         "a@b.com",
			EmailVerified: true,
			AccessToken:   "tok1",
		},
	}

	authn := middleware.NewAuthenticator(tokens, users)
	h := NewHandler(p, users, tokens, sessions, authn, frontendURL, failureURL)

	router := gin.New()
	h.RegisterRoutes(router)

	return &fixture{
		router:   router,
		provider: p,
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// callback performs a callback request carrying matching state and PKCE
// cookies, the way a browser that went through /auth/google would.
func (f *fixture) callback(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+query, nil)
	req.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "__oauth_pkce", Value: "verifier-1"})

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLogin_RedirectsToProvider(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://accounts.example.com/authorize")

	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "__oauth_state")
	assert.Contains(t, names, "__oauth_pkce")
}

func TestCallback_Success(t *testing.T) {
	f := newFixture(t)

	rec := f.callback(t, "state=state-1&code=code-1")

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", loc.Host)
	assert.Equal(t, "/auth/callback", loc.Path)

	bearer := loc.Query().Get("token")
	require.NotEmpty(t, bearer)

	claims, err := f.tokens.Verify(bearer)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)

	// Exactly one record with the provider facts and the fresh token.
	require.Len(t, f.users.users, 1)
	u, err := f.users.FindByGoogleID(context.Background(), "g-123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "tok1", u.YouTubeAccessToken)
	assert.Equal(t, claims.UserID, u.ID)

	// Legacy session created alongside the bearer token.
	assert.Len(t, f.sessions.sessions, 1)
}

func TestCallback_RepeatLoginUpdatesTokenInPlace(t *testing.T) {
	f := newFixture(t)

	rec := f.callback(t, "state=state-1&code=code-1")
	require.Equal(t, http.StatusFound, rec.Code)

	f.provider.identity.AccessToken = "tok2"
	rec = f.callback(t, "state=state-1&code=code-2")
	require.Equal(t, http.StatusFound, rec.Code)

	require.Len(t, f.users.users, 1, "repeat login must not create a duplicate")
	u, err := f.users.FindByGoogleID(context.Background(), "g-123")
	require.NoError(t, err)
	assert.Equal(t, "tok2", u.YouTubeAccessToken)
}

func TestCallback_FailurePaths(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		query string
	}{
		{
			name:  "provider returned error",
			query: "state=state-1&error=access_denied",
		},
		{
			name:  "missing code",
			query: "state=state-1",
		},
		{
			name:  "exchange failed",
			setup: func(f *fixture) { f.provider.err = errors.New("token endpoint unreachable") },
			query: "state=state-1&code=code-1",
		},
		{
			name:  "store conflict",
			setup: func(f *fixture) { f.users.upsertErr = user.ErrConflict },
			query: "state=state-1&code=code-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.callback(t, tt.query)

			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, failureURL, rec.Header().Get("Location"))

			// No credential and no identity record out of a failed exchange.
			assert.Empty(t, f.users.users)
			assert.Empty(t, f.sessions.sessions)
		})
	}
}

func TestCallback_InvalidState(t *testing.T) {
	f := newFixture(t)

	// Cookie says state-1, query says something else.
	rec := f.callback(t, "state=state-2&code=code-1")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, failureURL, rec.Header().Get("Location"))
	assert.Empty(t, f.users.users)
}

func TestLoginSuccess_ReflectsBearerIdentity(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Upsert(context.Background(), "g-123", "a@b.com", "tok1")
	require.NoError(t, err)
	bearer, err := f.tokens.Issue(u.ID, u.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/success", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
}

func TestLoginSuccess_WithoutBearer(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/success", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailure(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/failure", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Login failed"}`, rec.Body.String())
}

func TestLogout_DeletesSessionAndClearsCookie(t *testing.T) {
	f := newFixture(t)

	sess := session.Session{
		SessionID: "sid-1",
		UserID:    uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Create(context.Background(), sess))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.sessions.sessions)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be cleared")
}
