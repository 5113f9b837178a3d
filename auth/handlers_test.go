package auth

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func loginRouter(t *testing.T) (http.Handler, *memStore) {
	t.Helper()
	store := newMemStore()
	store.add(t, "user9", "user9pass")
	svc := newTestService(t, store)

	r := chi.NewRouter()
	r.Post("/login", NewHandlers(svc).HandleLogin())
	return r, store
}

func TestHandleLogin_Success(t *testing.T) {
	h, _ := loginRouter(t)

	apitest.New().
		Handler(h).
		Post("/login").
		JSON(`{"Username":"user9","Password":"user9pass"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		Assert(jsonpath.Equal("$.user.Username", "user9")).
		Assert(jsonpath.Present("$.user._id")).
		Assert(jsonpath.NotPresent("$.user.Password")).
		Assert(jsonpath.NotPresent("$.user.PasswordHash")).
		End()
}

func TestHandleLogin_Rejections(t *testing.T) {
	h, _ := loginRouter(t)

	bodies := map[string]string{
		"wrong password": `{"Username":"user9","Password":"nope"}`,
		"unknown user":   `{"Username":"ghost","Password":"user9pass"}`,
		"empty fields":   `{"Username":"","Password":""}`,
		"missing fields": `{}`,
		"not json":       `Username=user9`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			apitest.New().
				Handler(h).
				Post("/login").
				Body(body).
				Header("Content-Type", "application/json").
				Expect(t).
				Status(http.StatusBadRequest).
				Body(`{"message":"Invalid login. Please check your Username or Password."}`).
				Assert(jsonpath.NotPresent("$.token")).
				End()
		})
	}
}

func TestHandleLogin_StoreDown(t *testing.T) {
	h, store := loginRouter(t)
	store.fail(errDown)

	apitest.New().
		Handler(h).
		Post("/login").
		JSON(`{"Username":"user9","Password":"user9pass"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.error", ServerErrorMessage)).
		End()
}
