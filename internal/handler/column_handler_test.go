package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnOrder(t *testing.T, env *testEnv, token, boardID string) []string {
	t.Helper()
	resp := env.do(t, http.MethodGet, "/boards/"+boardID+"/columns", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	columns := decode[[]handler.ColumnResponse](t, resp)
	names := make([]string, len(columns))
	for i, c := range columns {
		assert.Equal(t, i, c.Position)
		names[i] = c.Name
	}
	return names
}

func TestColumns_CreateAppends(t *testing.T) {
	env := newTestEnv(t, 0)
	_, token := env.user(t, "owner@example.com", "Owner")
	board := env.createBoard(t, token, "Roadmap")

	first := env.createColumn(t, token, board.ID, "To Do")
	second := env.createColumn(t, token, board.ID, "Done")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, board.ID, second.BoardID)
}

func TestColumns_CollaboratorCanEdit(t *testing.T) {
	env := newTestEnv(t, 0)
	_, ownerToken := env.user(t, "owner@example.com", "Owner")
	_, friendToken := env.user(t, "friend@example.com", "Friend")
	_, strangerToken := env.user(t, "stranger@example.com", "Stranger")
	board := env.createBoard(t, ownerToken, "Roadmap")
	require.Equal(t, http.StatusOK, env.share(t, ownerToken, board.ID, "friend@example.com").Code)

	col := env.createColumn(t, friendToken, board.ID, "Review")

	resp := env.do(t, http.MethodPatch, "/columns/"+col.ID, strangerToken, gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = env.do(t, http.MethodPatch, "/columns/"+col.ID, friendToken, gin.H{"name": "QA"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "QA", decode[handler.ColumnResponse](t, resp).Name)
}

func TestColumns_Reorder(t *testing.T) {
	env := newTestEnv(t, 0)
	_, token := env.user(t, "owner@example.com", "Owner")
	board := env.createBoard(t, token, "Roadmap")
	env.createColumn(t, token, board.ID, "To Do")
	env.createColumn(t, token, board.ID, "Doing")
	done := env.createColumn(t, token, board.ID, "Done")

	resp := env.do(t, http.MethodPost, "/columns/reorder", token, gin.H{"columnId": done.ID, "position": 0})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())

	assert.Equal(t, []string{"Done", "To Do", "Doing"}, columnOrder(t, env, token, board.ID))
}

func TestColumns_ReorderValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	_, token := env.user(t, "owner@example.com", "Owner")

	resp := env.do(t, http.MethodPost, "/columns/reorder", token, gin.H{"columnId": "x"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[handler.ErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "columnId")
	assert.Contains(t, body.Fields, "position")

	resp = env.do(t, http.MethodPost, "/columns/reorder", token, gin.H{"columnId": uuid.NewString(), "position": 0})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestColumns_DeleteCompacts(t *testing.T) {
	env := newTestEnv(t, 0)
	_, token := env.user(t, "owner@example.com", "Owner")
	board := env.createBoard(t, token, "Roadmap")
	env.createColumn(t, token, board.ID, "A")
	b := env.createColumn(t, token, board.ID, "B")
	env.createColumn(t, token, board.ID, "C")
	env.createCard(t, token, b.ID, "inside")

	resp := env.do(t, http.MethodDelete, "/columns/"+b.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, []string{"A", "C"}, columnOrder(t, env, token, board.ID))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/columns/"+b.ID+"/cards", token, nil).Code)
}

func TestColumns_MissingAndForeignIdsLookAlike(t *testing.T) {
	env := newTestEnv(t, 0)
	_, ownerToken := env.user(t, "owner@example.com", "Owner")
	_, strangerToken := env.user(t, "stranger@example.com", "Stranger")
	board := env.createBoard(t, ownerToken, "Roadmap")
	col := env.createColumn(t, ownerToken, board.ID, "To Do")
	card := env.createCard(t, ownerToken, col.ID, "secret")

	paths := map[string][2]string{
		"column cards": {"/columns/" + col.ID + "/cards", "/columns/" + uuid.NewString() + "/cards"},
		"card delete":  {"/cards/" + card.ID, "/cards/" + uuid.NewString()},
	}
	methods := map[string]string{"column cards": http.MethodGet, "card delete": http.MethodDelete}

	for name, pair := range paths {
		t.Run(name, func(t *testing.T) {
			foreign := env.do(t, methods[name], pair[0], strangerToken, nil)
			missing := env.do(t, methods[name], pair[1], strangerToken, nil)

			assert.Equal(t, http.StatusForbidden, foreign.Code)
			assert.Equal(t, foreign.Code, missing.Code)
			assert.Equal(t, foreign.Body.String(), missing.Body.String())
		})
	}
}

func TestColumns_PublishEvents(t *testing.T) {
	env := newTestEnv(t, 0)
	owner, token := env.user(t, "owner@example.com", "Owner")
	board := env.createBoard(t, token, "Roadmap")

	ch, cancel := env.bus.Subscribe(uuid.MustParse(board.ID), owner.ID)
	defer cancel()

	col := env.createColumn(t, token, board.ID, "To Do")

	select {
	case data := <-ch:
		var ev events.Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, events.ColumnCreated, ev.Type)
		assert.Equal(t, owner.ID, ev.ActorID)
		assert.Contains(t, string(data), col.ID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}
