package auth

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/movievault-go/logutil"
)

var errDown = errors.New("connection refused")

// protectedRouter mirrors how main mounts the account routes.
func protectedRouter(t *testing.T) (http.Handler, *memStore, *AuthService) {
	t.Helper()
	store := newMemStore()
	store.add(t, "user9", "user9pass")
	store.add(t, "user10", "user10pass")
	svc := newTestService(t, store)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(JWTMiddleware(svc))
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			_, _ = w.Write([]byte(p.Username))
		})
		r.With(RequireSelf(svc, "Username")).Put("/users/{Username}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r, store, svc
}

func tokenFor(t *testing.T, svc *AuthService, username, password string) string {
	t.Helper()
	res, err := svc.Login(t.Context(), username, password)
	require.NoError(t, err)
	return res.Token
}

func TestJWTMiddleware_AcceptsValidToken(t *testing.T) {
	h, _, svc := protectedRouter(t)
	token := tokenFor(t, svc, "user9", "user9pass")

	apitest.New().
		Handler(h).
		Get("/whoami").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Body("user9").
		End()
}

func TestJWTMiddleware_RejectsWithUniform401(t *testing.T) {
	h, store, _ := protectedRouter(t)

	var ghostID string
	for id, u := range store.users {
		if u.Username == "user10" {
			ghostID = id
		}
	}
	ghost := &User{ID: ghostID, Username: "user10"}
	expired := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(ghost, time.Now().Add(-8*24*time.Hour), 7*24*time.Hour))
	foreign := signClaims(t, jwt.SigningMethodHS256, []byte("someone-elses-secret"), claimsFor(ghost, time.Now(), time.Hour))

	headers := map[string]string{
		"missing":   "",
		"garbage":   "Bearer garbage.token.value",
		"no scheme": "garbage.token.value",
		"expired":   "Bearer " + expired,
		"foreign":   "Bearer " + foreign,
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			req := apitest.New().Handler(h).Get("/whoami")
			if header != "" {
				req = req.Header("Authorization", header)
			}
			req.Expect(t).
				Status(http.StatusUnauthorized).
				Body(`{"error":"Unauthorized"}`).
				End()
		})
	}
}

func TestJWTMiddleware_StoreDownIs500(t *testing.T) {
	h, store, svc := protectedRouter(t)
	token := tokenFor(t, svc, "user9", "user9pass")
	store.fail(errDown)

	apitest.New().
		Handler(h).
		Get("/whoami").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.error", ServerErrorMessage)).
		End()
}

func TestRequireSelf(t *testing.T) {
	h, _, svc := protectedRouter(t)
	token := tokenFor(t, svc, "user9", "user9pass")

	apitest.New().
		Handler(h).
		Put("/users/user9").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(h).
		Put("/users/user10").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Permission denied."}`).
		End()

	apitest.New().
		Handler(h).
		Put("/users/user10").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestRequireSelf_WithoutPrincipal(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)
	r := chi.NewRouter()
	r.With(RequireSelf(svc, "Username")).Delete("/users/{Username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	apitest.New().
		Handler(r).
		Delete("/users/user9").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"error":"Unauthorized"}`).
		End()
}

func TestRequireSelf_LogsDenialWithRequestLogger(t *testing.T) {
	h, _, svc := protectedRouter(t)
	token := tokenFor(t, svc, "user9", "user9pass")

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodPut, "/users/user10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(logutil.WithLogger(req.Context(), zerolog.New(&buf)))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, buf.String(), `"message":"permission denied"`)
	assert.Contains(t, buf.String(), `"http.path":"/users/user10"`)
	assert.Contains(t, buf.String(), `"user_id":`)
}
