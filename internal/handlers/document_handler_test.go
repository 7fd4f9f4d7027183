package handlers_test

import (
	"WebCarros/internal/handlers"
	"WebCarros/internal/model"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDocument_Create(t *testing.T) {
	router, cfg, repos := newTestRouter(t)
	m := repos.docs

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
			return d.Collection == "cars" && d.OwnerID == "u-1" && d.ID != "" &&
				strings.Contains(string(d.Data), `"name":"GOL"`)
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/docs/cars", strings.NewReader(`{"name":"GOL","year":"2016"}`))
		addAuthCookie(t, req, "u-1", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var body struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.NotEmpty(t, body.ID)
		m.AssertExpectations(t)
	})

	t.Run("not an object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/docs/cars", strings.NewReader(`[1,2]`))
		addAuthCookie(t, req, "u-1", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad collection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/docs/Cars!", strings.NewReader(`{}`))
		addAuthCookie(t, req, "u-1", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/docs/cars", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDocument_Get(t *testing.T) {
	router, cfg, repos := newTestRouter(t)
	m := repos.docs

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m.On("Get", mock.Anything, "cars", "d-1").Return(&model.Document{
		ID: "d-1", Collection: "cars", OwnerID: "u-1", Data: []byte(`{"name":"GOL"}`), CreatedAt: created,
	}, nil)
	m.On("Get", mock.Anything, "cars", "d-2").Return(nil, gorm.ErrRecordNotFound)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/docs/cars/d-1", nil)
		addAuthCookie(t, req, "u-1", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var doc handlers.DocumentResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&doc))
		assert.Equal(t, "d-1", doc.ID)
		assert.Equal(t, "2024-03-01T12:00:00Z", doc.CreatedAt)
		assert.JSONEq(t, `{"name":"GOL"}`, string(doc.Data))
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/docs/cars/d-2", nil)
		addAuthCookie(t, req, "u-1", cfg.AuthSecret)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
