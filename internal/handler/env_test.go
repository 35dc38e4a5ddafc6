package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/handler"
	"github.com/aliciamunhoz/kanban-next/internal/middleware"
	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/repository"
	"github.com/aliciamunhoz/kanban-next/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires the real handlers to an in-memory database.
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenManager
	bus    *events.Bus
}

func newTestEnv(t *testing.T, maxBoards int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()

	db := testutil.NewDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	bus := events.NewBus()

	users := repository.NewUserRepository(db)
	boards := repository.NewBoardRepository(db)
	columns := repository.NewColumnRepository(db)
	cards := repository.NewCardRepository(db)
	grants := repository.NewBoardAccessRepository(db)
	guard := handler.NewGuard(grants, columns, cards)

	boardHandler := handler.NewBoardHandler(boards, columns, cards, grants, guard, bus, maxBoards)
	shareHandler := handler.NewBoardAccessHandler(users, grants, guard, bus)
	columnHandler := handler.NewColumnHandler(columns, guard, bus)
	cardHandler := handler.NewCardHandler(cards, guard, bus)

	r := gin.New()
	api := r.Group("/")
	api.Use(middleware.JWTAuthMiddleware(tokens, nil))

	api.GET("/boards", boardHandler.List)
	api.POST("/boards", boardHandler.Create)
	api.GET("/shared-boards", boardHandler.Shared)
	api.GET("/boards/:id", boardHandler.Get)
	api.PATCH("/boards/:id", boardHandler.Update)
	api.DELETE("/boards/:id", boardHandler.Delete)

	api.GET("/boards/:id/share", shareHandler.List)
	api.POST("/boards/:id/share", shareHandler.Share)
	api.DELETE("/boards/:id/share/:user_id", shareHandler.Revoke)

	api.GET("/boards/:id/columns", columnHandler.List)
	api.POST("/boards/:id/columns", columnHandler.Create)
	api.POST("/columns/reorder", columnHandler.Reorder)
	api.PATCH("/columns/:id", columnHandler.Update)
	api.DELETE("/columns/:id", columnHandler.Delete)

	api.GET("/columns/:id/cards", cardHandler.List)
	api.POST("/columns/:id/cards", cardHandler.Create)
	api.POST("/cards/reorder", cardHandler.Reorder)
	api.PATCH("/cards/:id", cardHandler.Update)
	api.DELETE("/cards/:id", cardHandler.Delete)

	return &testEnv{router: r, db: db, tokens: tokens, bus: bus}
}

func (e *testEnv) user(t *testing.T, email, name string) (*model.User, string) {
	t.Helper()
	user := testutil.SeedUser(t, e.db, email, name)
	token, _, err := e.tokens.GenerateToken(user.ID, user.Email, user.Name)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func (e *testEnv) createBoard(t *testing.T, token, name string) handler.BoardResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/boards", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[handler.BoardResponse](t, resp)
}

func (e *testEnv) createColumn(t *testing.T, token, boardID, name string) handler.ColumnResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/boards/"+boardID+"/columns", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[handler.ColumnResponse](t, resp)
}

func (e *testEnv) createCard(t *testing.T, token, columnID, title string) handler.CardResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/columns/"+columnID+"/cards", token, gin.H{"title": title, "priority": "high"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[handler.CardResponse](t, resp)
}

func (e *testEnv) share(t *testing.T, token, boardID, email string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/boards/"+boardID+"/share", token, gin.H{"email": email})
}
