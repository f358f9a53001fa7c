package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NYD05/StyleHub/internal/client"
	"github.com/NYD05/StyleHub/models"
)

// newServer поднимает сервер с одним обработчиком и клиент к нему.
func newServer(t *testing.T, h http.HandlerFunc) client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.NewHTTPClient(srv.URL, srv.Client())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_Register(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"}, req)

		writeJSON(t, w, http.StatusCreated, models.RegisterResponse{Message: "ok", UserID: 7})
	})

	id, err := c.Register(context.Background(), "alice", "a@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestClient_LoginStoresToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			assert.Empty(t, r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, models.LoginResponse{Message: "ok", UserID: 7, SessionToken: "tok"})
		case "/api/sketches/3/like":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, models.LikeResponse{Action: models.Liked, Liked: true})
		default:
			t.Errorf("неожиданный запрос %s", r.URL.Path)
		}
	})

	login, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", login.SessionToken)

	like, err := c.ToggleLike(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, like.Liked)
}

func TestClient_LoginEmptyToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, models.LoginResponse{Message: "ok"})
	})

	_, err := c.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "пустой токен")
}

func TestClient_UploadSketch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Cat", r.FormValue("title"))
		assert.Equal(t, "orange", r.FormValue("description"))

		file, header, err := r.FormFile("sketch")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "pngdata", string(data))

		writeJSON(t, w, http.StatusCreated, models.UploadResponse{SketchID: 5, Filename: "cat_1_a.png"})
	})
	c.SetAuthToken("tok")

	resp, err := c.UploadSketch(context.Background(), "Cat", "orange", "cat.png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.SketchID)
	assert.Equal(t, "cat_1_a.png", resp.Filename)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		target          error
		expectedMessage string
	}{
		{
			name:            "401",
			status:          http.StatusUnauthorized,
			body:            `{"error":"Invalid or expired session"}`,
			target:          client.ErrAuthorization,
			expectedMessage: "Invalid or expired session",
		},
		{
			name:            "403",
			status:          http.StatusForbidden,
			body:            `{"error":"Unauthorized to delete this sketch"}`,
			target:          client.ErrForbidden,
			expectedMessage: "Unauthorized to delete this sketch",
		},
		{
			name:            "404",
			status:          http.StatusNotFound,
			body:            `{"error":"Sketch not found"}`,
			target:          client.ErrNotFound,
			expectedMessage: "Sketch not found",
		},
		{
			name:            "409",
			status:          http.StatusConflict,
			body:            `{"error":"Email already exists"}`,
			target:          client.ErrConflict,
			expectedMessage: "Email already exists",
		},
		{
			name:            "Тело не JSON",
			status:          http.StatusBadGateway,
			body:            `<html>bad gateway</html>`,
			expectedMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.DeleteSketch(context.Background(), 1)
			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expectedMessage, apiErr.Message)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	err := &client.APIError{StatusCode: http.StatusConflict}
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.NotErrorIs(t, err, client.ErrNotFound)
	assert.NotErrorIs(t, err, client.ErrAuthorization)
}

func TestClient_ListsAndDownload(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sketches":
			writeJSON(t, w, http.StatusOK, []models.SketchSummary{{ID: 1, Title: "A", Artist: "alice"}})
		case "/api/sketches/1/comments":
			if r.Method == http.MethodPost {
				var req models.CommentRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "hi", req.Content)
				writeJSON(t, w, http.StatusCreated, models.CommentResponse{CommentID: 9})
				return
			}
			writeJSON(t, w, http.StatusOK, []models.Comment{{ID: 9, Content: "hi", Author: "bob"}})
		case "/uploads/cat 1.png":
			_, _ = io.WriteString(w, "pngdata")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	sketches, err := c.ListSketches(ctx)
	require.NoError(t, err)
	require.Len(t, sketches, 1)
	assert.Equal(t, "alice", sketches[0].Artist)

	id, err := c.AddComment(ctx, 1, "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	comments, err := c.ListComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Author)

	rc, err := c.DownloadFile(ctx, "cat 1.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "pngdata", string(data))

	_, err = c.DownloadFile(ctx, "missing.png")
	assert.ErrorIs(t, err, client.ErrNotFound)
}
