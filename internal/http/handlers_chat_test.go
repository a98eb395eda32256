package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/tgchat/internal/domain/model"
)

func TestChatAPI_RequiresSession(t *testing.T) {
	app := newTestApp(t, testAppOptions{})

	paths := []JSONRequest{
		{Method: http.MethodGet, Path: "/api/me"},
		{Method: http.MethodGet, Path: "/api/dialogs"},
		{Method: http.MethodGet, Path: "/api/chats/user:1:1/messages"},
		{Method: http.MethodPost, Path: "/api/chats/user:1:1/messages", Payload: map[string]string{"text": "hi"}},
	}
	for _, req := range paths {
		t.Run(req.Method+" "+req.Path, func(t *testing.T) {
			var res DataResult
			resp := app.DoJSON(t, req, &res)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "not_authenticated", res.Code)
			assert.Nil(t, res.Data)
		})
	}
	assert.Equal(t, 0, app.provider.OpenConnections())
}

func TestChatAPI_ProfileAndDialogs(t *testing.T) {
	app := newTestApp(t, testAppOptions{})
	app.login(t)

	var me struct {
		Data model.Profile `json:"data"`
	}
	resp := app.DoJSON(t, JSONRequest{Method: http.MethodGet, Path: "/api/me"}, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dev", me.Data.FirstName)

	var dialogs struct {
		Data []model.Dialog `json:"data"`
	}
	app.DoJSON(t, JSONRequest{Method: http.MethodGet, Path: "/api/dialogs?limit=2"}, &dialogs)
	require.Len(t, dialogs.Data, 2)
	assert.Equal(t, "user:1:1", dialogs.Data[0].ID)
	assert.Equal(t, 0, app.provider.OpenConnections())
}

func TestChatAPI_InvalidLimit(t *testing.T) {
	app := newTestApp(t, testAppOptions{})
	app.login(t)

	var res DataResult
	resp := app.DoJSON(t, JSONRequest{Method: http.MethodGet, Path: "/api/dialogs?limit=many"}, &res)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", res.Code)
}

func TestChatAPI_MessagesAndSend(t *testing.T) {
	app := newTestApp(t, testAppOptions{})
	app.login(t)

	var sent struct {
		Data model.Message `json:"data"`
	}
	resp := app.DoJSON(t, JSONRequest{
		Method:  http.MethodPost,
		Path:    "/api/chats/user:2:2/messages",
		Payload: map[string]string{"text": "hello jane"},
	}, &sent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello jane", sent.Data.Text)
	assert.True(t, sent.Data.Outgoing)

	var history struct {
		Data []model.Message `json:"data"`
	}
	app.DoJSON(t, JSONRequest{Method: http.MethodGet, Path: "/api/chats/user:2:2/messages?limit=1"}, &history)
	require.Len(t, history.Data, 1)
	assert.Equal(t, "hello jane", history.Data[0].Text, "history is newest first")

	var bad DataResult
	resp = app.DoJSON(t, JSONRequest{
		Method:  http.MethodPost,
		Path:    "/api/chats/user:1/messages",
		Payload: map[string]string{"text": "x"},
	}, &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", bad.Code)
}

func TestChatAPI_Broadcast(t *testing.T) {
	app := newTestApp(t, testAppOptions{})
	app.login(t)

	var res struct {
		Data []model.DeliveryResult `json:"data"`
	}
	resp := app.DoJSON(t, JSONRequest{
		Method: http.MethodPost,
		Path:   "/api/messages/broadcast",
		Payload: map[string]any{
			"text":      "announcement",
			"usernames": []string{" johndoe ", "", "@janesmith", "nobody_here"},
		},
	}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, res.Data, 3)
	assert.Empty(t, res.Data[0].Error)
	assert.Empty(t, res.Data[1].Error)
	assert.Equal(t, "failed to send to nobody_here", res.Data[2].Error)
	assert.Nil(t, res.Data[2].Message)

	var empty DataResult
	resp = app.DoJSON(t, JSONRequest{
		Method:  http.MethodPost,
		Path:    "/api/messages/broadcast",
		Payload: map[string]any{"text": "x", "usernames": []string{" "}},
	}, &empty)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", empty.Code)
}
