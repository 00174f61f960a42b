package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/storage/memory"
	"example.com/helloapi/internal/usecase"

	"github.com/charmbracelet/log"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := log.New(io.Discard)
	store := memory.New()
	return fixture{
		handler: New(
			usecase.NewMessageService(store, logger),
			usecase.NewUserService(store, logger),
			logger,
		),
		store: store,
	}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestHello_DefaultOnFreshStore(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/api/hello", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"`+domain.DefaultMessage+`"}`, rr.Body.String())
}

func TestHello_IdempotentRead(t *testing.T) {
	f := newFixture(t)
	first := f.do(t, http.MethodGet, "/api/hello", "").Body.String()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, f.do(t, http.MethodGet, "/api/hello", "").Body.String())
	}
}

func TestHello_WriteThenRead(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/hello", `{"message":"X"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"X"}`, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/api/hello", "")
	assert.JSONEq(t, `{"message":"X"}`, rr.Body.String())
}

func TestHello_PatchMatchesPost(t *testing.T) {
	for _, text := range []string{"X", "", "héllo wörld", `quote " inside`} {
		post := newFixture(t)
		patch := newFixture(t)
		body := `{"message":` + quote(text) + `}`

		pr := post.do(t, http.MethodPost, "/api/hello", body)
		qr := patch.do(t, http.MethodPatch, "/api/hello", body)
		require.Equal(t, pr.Code, qr.Code)
		assert.Equal(t, pr.Body.String(), qr.Body.String())

		ps, err := post.store.GetMessage(context.Background())
		require.NoError(t, err)
		qs, err := patch.store.GetMessage(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ps, qs)
		assert.Equal(t, text, qs.Message)
	}
}

func TestHello_IgnoresUnknownFields(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/hello", `{"message":"hi","extra":1}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"hi"}`, rr.Body.String())
}

func TestHello_MissingMessage(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/hello", `{"text":"hi"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	golden(t).Assert(t, "hello_missing_message", rr.Body.Bytes())

	_, err := f.store.GetMessage(context.Background())
	assert.Error(t, err, "rejected body must not reach the store")
}

func TestHello_RejectsMalformedBodies(t *testing.T) {
	cases := []struct {
		name   string
		method string
		body   string
		typ    string
	}{
		{"number", http.MethodPost, `{"message":42}`, "string_type"},
		{"null", http.MethodPatch, `{"message":null}`, "missing"},
		{"array", http.MethodPost, `["hi"]`, "model_attributes_type"},
		{"broken json", http.MethodPost, `{"message":`, "json_invalid"},
		{"empty", http.MethodPatch, ``, "missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(t, tc.method, "/api/hello", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Contains(t, rr.Body.String(), `"type":"`+tc.typ+`"`)
		})
	}
}

func TestUsers_SeedList(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`, rr.Body.String())
}

func TestUsers_CreateAndList(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/api/users", `{"name":"Carol"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":3,"name":"Carol"}`, rr.Body.String())

	rr = f.do(t, http.MethodPost, "/api/users", `{"name":"Dave"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":4,"name":"Dave"}`, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rr.Code)
	golden(t).Assert(t, "users_after_create", rr.Body.Bytes())
}

func TestUsers_CreateRejectsBadName(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/users", `{"name":7}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t,
		`{"detail":[{"type":"string_type","loc":["body","name"],"msg":"Input should be a valid string"}]}`,
		rr.Body.String(),
	)

	items, err := f.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRouting_Defaults(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodDelete, "/api/users", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodPatch, "/api/users", `{"name":"x"}`).Code)

	rr := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

type brokenMessages struct{}

func (brokenMessages) Get(context.Context) (string, error) {
	return "", errors.New("database is locked")
}

func (brokenMessages) Set(context.Context, string) (string, error) {
	return "", errors.New("database is locked")
}

func TestHello_StoreFailureIsInternalError(t *testing.T) {
	logger := log.New(io.Discard)
	h := New(brokenMessages{}, usecase.NewUserService(memory.New(), logger), logger)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/hello", strings.NewReader(`{"message":"x"}`))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusInternalServerError, rr.Code, method)
		assert.JSONEq(t, `{"detail":"Internal Server Error"}`, rr.Body.String())
	}
}

func TestUsers_BodyTooLarge(t *testing.T) {
	f := newFixture(t)
	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := f.do(t, http.MethodPost, "/api/users", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
