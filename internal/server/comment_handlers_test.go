package server

import (
	"context"
	"net/http"
	"testing"

	"quill/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentTestApp(srv *Server, uid string) *fiber.App {
	app := fiber.New()
	app.Get("/api/posts/:id/comments", srv.GetComments)

	protected := app.Group("", asUser(uid))
	protected.Post("/api/posts/:id/comments", srv.CreateComment)
	protected.Put("/api/comments/:id", srv.UpdateComment)
	protected.Delete("/api/comments/:id", srv.DeleteComment)
	return app
}

func seedPost(t *testing.T, repos Repositories) *domain.BlogPost {
	t.Helper()
	post, err := domain.NewBlogPost("title", "content", "excerpt", "author", nil)
	require.NoError(t, err)
	require.NoError(t, post.Publish(nil))
	saved, err := repos.Posts.Save(context.Background(), post)
	require.NoError(t, err)
	return saved
}

func TestCreateComment(t *testing.T) {
	srv, repos := newTestServer()
	app := commentTestApp(srv, "commenter")
	post := seedPost(t, repos)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/"+post.ID+"/comments", fiber.Map{
		"content": "great read",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment domain.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "great read", comment.Content)
	assert.Equal(t, "commenter", comment.UserID)
	assert.Equal(t, post.ID, comment.PostID)
}

func TestCreateComment_MissingPost(t *testing.T) {
	srv, _ := newTestServer()
	app := commentTestApp(srv, "commenter")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/nope/comments", fiber.Map{
		"content": "orphan",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetComments_OldestFirst(t *testing.T) {
	srv, repos := newTestServer()
	app := commentTestApp(srv, "commenter")
	post := seedPost(t, repos)

	var contents = []string{"first", "second", "third"}
	for _, c := range contents {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/"+post.ID+"/comments", fiber.Map{
			"content": c,
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/posts/"+post.ID+"/comments?limit=100", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []*domain.Comment `json:"data"`
		Count int               `json:"count"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, 3, body.Count)
	for i, c := range body.Data {
		assert.Equal(t, contents[i], c.Content)
	}
}

func TestUpdateComment_Ownership(t *testing.T) {
	srv, repos := newTestServer()
	owner := commentTestApp(srv, "owner")
	intruder := commentTestApp(srv, "intruder")
	post := seedPost(t, repos)

	resp, err := owner.Test(jsonRequest(t, http.MethodPost, "/api/posts/"+post.ID+"/comments", fiber.Map{
		"content": "mine",
	}))
	require.NoError(t, err)
	var comment domain.Comment
	decodeBody(t, resp, &comment)

	resp, err = intruder.Test(jsonRequest(t, http.MethodPut, "/api/comments/"+comment.ID, fiber.Map{
		"content": "hijacked",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = owner.Test(jsonRequest(t, http.MethodPut, "/api/comments/"+comment.ID, fiber.Map{
		"content": "revised",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated domain.Comment
	decodeBody(t, resp, &updated)
	assert.Equal(t, "revised", updated.Content)
}

func TestDeleteComment(t *testing.T) {
	srv, repos := newTestServer()
	app := commentTestApp(srv, "owner")
	post := seedPost(t, repos)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/"+post.ID+"/comments", fiber.Map{
		"content": "temp",
	}))
	require.NoError(t, err)
	var comment domain.Comment
	decodeBody(t, resp, &comment)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/comments/"+comment.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/comments/"+comment.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
