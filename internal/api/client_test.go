package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgfeed/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 0), srv
}

func TestClient_SignIn(t *testing.T) {
	t.Parallel()

	t.Run("success stores token and user", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/signin", r.URL.Path)

			var in SignInInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "marie@example.test", in.Email)
			assert.Equal(t, "secret", in.Password)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-123",
				"user":  models.User{ID: 7, Name: "Marie", Pseudo: "mg"},
			})
		}))
		defer srv.Close()

		sess, err := client.SignIn(context.Background(), SignInInput{Email: "marie@example.test", Password: "secret"})
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
		assert.Equal(t, "tok-123", sess.Token)
		assert.Equal(t, 7, sess.User.ID)
	})

	// A 200 missing either half must not produce an authenticated session.
	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"user": models.User{ID: 7}})
		}))
		defer srv.Close()

		sess, err := client.SignIn(context.Background(), SignInInput{})
		assert.Nil(t, sess)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Authentication failed")
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"token": "tok-123"})
		}))
		defer srv.Close()

		sess, err := client.SignIn(context.Background(), SignInInput{})
		assert.Nil(t, sess)
		assert.Error(t, err)
	})

	t.Run("server message surfaces", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Wrong email or password"})
		}))
		defer srv.Close()

		_, err := client.SignIn(context.Background(), SignInInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Wrong email or password")
	})

	t.Run("network failure", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		_, err := client.SignIn(context.Background(), SignInInput{})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNetwork, appErr.Code)
	})
}

func TestClient_ListPosts(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/posts", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			json.NewEncoder(w).Encode([]models.Post{
				{ID: 1, Content: "hello", Media: `["/uploads/a.png"]`},
				{ID: 2, Content: "world"},
			})
		}))
		defer srv.Close()

		posts, err := client.ListPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "hello", posts[0].Content)
	})

	t.Run("non-JSON content type is a bad response shape", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>proxy error</html>"))
		}))
		defer srv.Close()

		_, err := client.ListPosts(context.Background())
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeDecode, appErr.Code)
	})
}

func TestClient_GetPost(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int{
			"post_id": 42, "likes": 3, "dislikes": 1, "shares": 0, "thumb_ups": 5,
		})
	}))
	defer srv.Close()

	post, err := client.GetPost(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, models.Counters{Likes: 3, Dislikes: 1, Shares: 0, ThumbUps: 5}, post.Counters)
}

func TestClient_React(t *testing.T) {
	t.Parallel()

	t.Run("puts the action and decodes counters", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/posts/9/thumbUp", r.URL.Path)

			var payload map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, 7, payload["user_id"])

			json.NewEncoder(w).Encode(map[string]int{"likes": 5, "dislikes": 0, "shares": 0, "thumb_ups": 2})
		}))
		defer srv.Close()

		counters, err := client.React(context.Background(), 9, models.ReactionThumbUp, 7)
		require.NoError(t, err)
		assert.Equal(t, &models.Counters{Likes: 5, ThumbUps: 2}, counters)
	})

	t.Run("unknown reaction never reaches the network", func(t *testing.T) {
		t.Parallel()
		called := false
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		_, err := client.React(context.Background(), 9, models.Reaction("comments"), 7)
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestClient_Comments(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/posts/3/comments", r.URL.Path)
			json.NewEncoder(w).Encode([]models.Comment{{ID: 1, Content: "first"}})
		}))
		defer srv.Close()

		comments, err := client.ListComments(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "first", comments[0].Content)
	})

	t.Run("add returns the server comment", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "nice post", payload["content"])

			json.NewEncoder(w).Encode(models.Comment{ID: 10, PostID: 3, UserID: 7, Content: "nice post"})
		}))
		defer srv.Close()

		comment, err := client.AddComment(context.Background(), 3, 7, "nice post")
		require.NoError(t, err)
		assert.Equal(t, 10, comment.ID)
	})

	t.Run("delete is bearer-authorized", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/comments/10", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"message": "Comment deleted"})
		}))
		defer srv.Close()

		assert.NoError(t, client.DeleteComment(context.Background(), "tok-123", 10))
	})
}

func TestClient_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("multipart fields and files", func(t *testing.T) {
		t.Parallel()

		mediaPath := filepath.Join(t.TempDir(), "photo.png")
		require.NoError(t, os.WriteFile(mediaPath, []byte("fake-png"), 0o600))

		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "hello 👋", r.FormValue("content"))
			assert.Equal(t, "7", r.FormValue("user_id"))

			files := r.MultipartForm.File["media"]
			require.Len(t, files, 1)
			assert.Equal(t, "photo.png", files[0].Filename)

			json.NewEncoder(w).Encode(models.Post{ID: 99, UserID: 7, Content: "hello 👋"})
		}))
		defer srv.Close()

		post, err := client.CreatePost(context.Background(), "tok-123", CreatePostInput{
			Content:    "hello 👋",
			UserID:     7,
			MediaPaths: []string{mediaPath},
		})
		require.NoError(t, err)
		assert.Equal(t, 99, post.ID)
	})

	t.Run("expired token becomes the session-invalid signal", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden (Invalid or expired token)"})
		}))
		defer srv.Close()

		_, err := client.CreatePost(context.Background(), "stale", CreatePostInput{Content: "x", UserID: 7})
		assert.True(t, models.IsSessionInvalid(err))
	})

	t.Run("other 403s keep the server message", func(t *testing.T) {
		t.Parallel()
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "You are not allowed to do that"})
		}))
		defer srv.Close()

		_, err := client.CreatePost(context.Background(), "tok", CreatePostInput{Content: "x", UserID: 7})
		require.Error(t, err)
		assert.False(t, models.IsSessionInvalid(err))
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("unreadable media file fails before any call", func(t *testing.T) {
		t.Parallel()
		called := false
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		_, err := client.CreatePost(context.Background(), "tok", CreatePostInput{
			Content:    "x",
			UserID:     7,
			MediaPaths: []string{"/does/not/exist.png"},
		})
		assert.True(t, models.IsValidation(err))
		assert.False(t, called)
	})
}

func TestClient_DeletePost(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/posts/42", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted"})
	}))
	defer srv.Close()

	assert.NoError(t, client.DeletePost(context.Background(), "tok-123", 42))
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := client.ListPosts(ctx)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNetwork, appErr.Code)
}
