package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/folio/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0)
}

func TestListWorks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/works", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"title":"A","imageUrl":"a.jpg","categoryId":2,"userId":1}]`)
	})

	works, err := c.ListWorks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Work{{ID: 1, Title: "A", ImageURL: "a.jpg", CategoryID: 2}}, works)
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":2,"name":"Objects"},{"id":3,"name":"Apartments"}]`)
	})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Objects"}, {ID: 3, Name: "Apartments"}}, cats)
}

func TestListCategoriesRejectsReservedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":0,"name":"Everything"}]`)
	})

	_, err := c.ListCategories(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestListCategoriesKeepsUnnamed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":2,"name":"Objects"},{"id":3,"name":""}]`)
	})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Objects"}, {ID: 3}}, cats)
}

func TestListWorksStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"database down"}`)
	})

	_, err := c.ListWorks(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database down", apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestListWorksMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing title", `[{"id":1,"imageUrl":"a.jpg","categoryId":2}]`},
		{"missing id", `[{"title":"A","imageUrl":"a.jpg","categoryId":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.ListWorks(context.Background())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, 0).ListWorks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, StatusOf(err))
}

func TestCreateWork(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/works", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Lamp", r.FormValue("title"))
		assert.Equal(t, "2", r.FormValue("category"))

		f, fh, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "lamp.jpg", fh.Filename)
		assert.Equal(t, "image/jpeg", fh.Header.Get("Content-Type"))
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, image, data)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 12, "title": "Lamp", "imageUrl": "http://localhost:5678/images/lamp.jpg", "categoryId": 2, "userId": 1,
		})
	})

	work, err := c.CreateWork(context.Background(), "abc", domain.NewWork{
		Title: "Lamp", CategoryID: 2, Filename: "lamp.jpg", MimeType: "image/jpeg", Image: image,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Work{ID: 12, Title: "Lamp", ImageURL: "http://localhost:5678/images/lamp.jpg", CategoryID: 2}, work)
}

func TestCreateWorkMalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":12,"categoryId":2}`)
	})

	_, err := c.CreateWork(context.Background(), "abc", domain.NewWork{
		Title: "Lamp", CategoryID: 2, Image: []byte("x"),
	})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCreateWorkUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.CreateWork(context.Background(), "expired", domain.NewWork{Title: "x", CategoryID: 1, Image: []byte("x")})
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestDeleteWork(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteWork(context.Background(), "abc", 7))
	assert.Equal(t, "/api/works/7", gotPath)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestDeleteWorkFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.DeleteWork(context.Background(), "abc", 7)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, loginRequest{Email: "sophie@example.com", Password: "secret"}, body)

		_, _ = io.WriteString(w, `{"userId":1,"token":"abc"}`)
	})

	token, err := c.Login(context.Background(), "sophie@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"user not found"}`)
	})

	_, err := c.Login(context.Background(), "nobody@example.com", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "user not found", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestLoginMissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
