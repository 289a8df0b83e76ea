package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/schoolbar/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	Middleware(DefaultOptions())(h).ServeHTTP(rec, req)
	return rec
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	cache.Use(cache.NewMemoryStore())

	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Set("user_id", uint(7))
		require.NoError(t, s.Save(w))
	})
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	serve(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromCtx(r).GetUint("user_id")
		assert.True(t, ok)
		assert.Equal(t, uint(7), id)
	}, cookies...)
}

func TestFlashIsReadOnce(t *testing.T) {
	s := &Session{data: map[string]interface{}{}}
	s.Flash("error", "Insufficient stock")

	v, ok := s.GetFlash("error")
	assert.True(t, ok)
	assert.Equal(t, "Insufficient stock", v)

	_, ok = s.GetFlash("error")
	assert.False(t, ok)
}

func TestRegenerateKeepsData(t *testing.T) {
	cache.Use(cache.NewMemoryStore())
	s := &Session{id: "old", data: map[string]interface{}{"cart": map[string]int{"1": 1}}, opts: DefaultOptions()}

	s.Regenerate()
	require.NoError(t, s.Save(httptest.NewRecorder()))

	assert.NotEqual(t, "old", s.ID())
	_, ok := s.Get("cart")
	assert.True(t, ok)
}

func TestUnsavedSessionWritesNoCookie(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, FromCtx(r).Save(w))
	})
	assert.Empty(t, rec.Result().Cookies())
}
