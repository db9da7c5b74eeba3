package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/middleware"
	"quill/internal/realtime"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a Server over in-memory repositories, without
// the HTTP middleware stack. Handlers are registered per test.
func newTestServer() (*Server, Repositories) {
	repos := Repositories{
		Posts:     repository.NewMemoryPostRepository(nil),
		Comments:  repository.NewMemoryCommentRepository(),
		Favorites: repository.NewMemoryFavoriteRepository(),
		Users:     repository.NewMemoryUserRepository(),
	}

	broadcaster := realtime.NewBroadcaster(0, nil)
	postDomain := domain.NewPostService(repos.Posts, nil)
	commentDomain := domain.NewCommentService(repos.Comments, repos.Posts, nil)

	srv := &Server{
		config:          &config.Config{StorageBackend: config.BackendMemory},
		broadcaster:     broadcaster,
		postService:     service.NewPostService(postDomain),
		commentService:  service.NewCommentService(commentDomain, broadcaster),
		favoriteService: service.NewFavoriteService(repos.Favorites, repos.Posts),
		userService:     service.NewUserService(repos.Users, nil),
	}
	return srv, repos
}

// asUser injects the verified identity the auth middleware would set.
func asUser(uid string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserID, uid)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRespondWithError_StatusMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/err/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "validation":
			return RespondWithError(c, service.NewValidationError("bad input"))
		case "auth":
			return RespondWithError(c, service.NewAuthenticationError("who are you"))
		case "forbidden":
			return RespondWithError(c, service.NewForbiddenError("not yours"))
		case "notfound":
			return RespondWithError(c, service.NewNotFoundError("gone"))
		default:
			return RespondWithError(c, io.ErrUnexpectedEOF)
		}
	})

	tests := []struct {
		kind   string
		status int
		code   string
	}{
		{"validation", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"auth", http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{"forbidden", http.StatusForbidden, "FORBIDDEN"},
		{"notfound", http.StatusNotFound, "NOT_FOUND"},
		{"unknown", http.StatusInternalServerError, "APPLICATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/err/"+tt.kind, nil))
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Code string `json:"code"`
			}
			decodeBody(t, resp, &body)
			require.Equal(t, tt.code, body.Code)
		})
	}
}

func TestRespondWithError_MasksInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithError(c, io.ErrClosedPipe)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "internal server error", body.Error)
}
