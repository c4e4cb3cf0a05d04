package httpapi

import (
	"bufio"
	"bytes"
	"chat-hub/auth"
	"chat-hub/broadcast"
	"chat-hub/repositories"
	"chat-hub/services"
	"chat-hub/workers"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server      *httptest.Server
	broadcaster *broadcast.Broadcaster
	tokens      *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	accountRepository := repositories.NewAccountRepository(db)
	messageRepository, err := repositories.NewMessageRepository(db, log)
	req.NoError(err)
	t.Cleanup(func() { _ = messageRepository.Close() })

	broadcaster := broadcast.NewBroadcaster(log, 8)
	authService := services.NewAuthService(accountRepository, log)
	accountService := services.NewAccountService(accountRepository, authService)
	messageService := services.NewMessageService(messageRepository, broadcaster, log)
	tokens := auth.NewTokenIssuer("test-key", time.Hour)
	health := workers.NewHealthMonitor(log, time.Second)

	api := NewServer(log, accountService, messageService, broadcaster, tokens, health)
	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)

	return &fixture{server: server, broadcaster: broadcaster, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	request, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response, err := f.server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(response.Body)
	require.NoError(t, err)
	return response, out.Bytes()
}

func TestSignup(t *testing.T) {
	f := newFixture(t)

	t.Run("creates an account and returns no secret material", func(t *testing.T) {
		req := require.New(t)
		response, body := f.do(t, http.MethodPost, "/user/signup",
			map[string]string{"username": "alice", "secret": "pw1"}, "")

		req.Equal(http.StatusCreated, response.StatusCode)
		req.NotContains(string(body), "pw1")
		req.NotContains(string(body), "secret")

		var session struct {
			User struct {
				Username string    `json:"username"`
				JoinedAt time.Time `json:"joinedAt"`
			} `json:"user"`
			Token string `json:"token"`
		}
		req.NoError(json.Unmarshal(body, &session))
		req.Equal("alice", session.User.Username)
		req.False(session.User.JoinedAt.IsZero())
		req.NotEmpty(session.Token)
	})

	t.Run("duplicate username yields 409", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodPost, "/user/signup",
			map[string]string{"username": "alice", "secret": "other"}, "")
		req.Equal(http.StatusConflict, response.StatusCode)
	})

	t.Run("empty fields yield 400", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodPost, "/user/signup",
			map[string]string{"username": "", "secret": "pw1"}, "")
		req.Equal(http.StatusBadRequest, response.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/user/signup", map[string]string{"username": "alice", "secret": "pw1"}, "")

	t.Run("valid credentials return the sanitized account", func(t *testing.T) {
		req := require.New(t)
		response, body := f.do(t, http.MethodPost, "/user/login",
			map[string]string{"username": "alice", "secret": "pw1"}, "")
		req.Equal(http.StatusOK, response.StatusCode)
		req.Contains(string(body), `"username":"alice"`)
		req.NotContains(string(body), "pw1")
	})

	t.Run("wrong secret and unknown username are indistinguishable", func(t *testing.T) {
		req := require.New(t)
		wrongSecret, wrongBody := f.do(t, http.MethodPost, "/user/login",
			map[string]string{"username": "alice", "secret": "wrong"}, "")
		unknownUser, unknownBody := f.do(t, http.MethodPost, "/user/login",
			map[string]string{"username": "ghost", "secret": "x"}, "")

		req.Equal(http.StatusUnauthorized, wrongSecret.StatusCode)
		req.Equal(http.StatusUnauthorized, unknownUser.StatusCode)
		req.Equal(string(wrongBody), string(unknownBody))
	})
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/user/signup", map[string]string{"username": "alice", "secret": "pw1"}, "")

	req := require.New(t)
	response, body := f.do(t, http.MethodGet, "/user/getUser/alice", nil, "")
	req.Equal(http.StatusOK, response.StatusCode)
	req.Contains(string(body), `"username":"alice"`)

	response, _ = f.do(t, http.MethodGet, "/user/getUser/ghost", nil, "")
	req.Equal(http.StatusNotFound, response.StatusCode)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/user/signup", map[string]string{"username": "alice", "secret": "pw1"}, "")

	t.Run("changes the secret", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodPatch, "/user/resetPassword",
			map[string]string{"username": "alice", "newSecret": "pw2"}, "")
		req.Equal(http.StatusOK, response.StatusCode)

		// Old secret no longer works, new one does
		oldLogin, _ := f.do(t, http.MethodPost, "/user/login",
			map[string]string{"username": "alice", "secret": "pw1"}, "")
		req.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

		newLogin, _ := f.do(t, http.MethodPost, "/user/login",
			map[string]string{"username": "alice", "secret": "pw2"}, "")
		req.Equal(http.StatusOK, newLogin.StatusCode)
	})

	t.Run("unknown username yields 404", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodPatch, "/user/resetPassword",
			map[string]string{"username": "ghost", "newSecret": "pw2"}, "")
		req.Equal(http.StatusNotFound, response.StatusCode)
	})
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/user/signup", map[string]string{"username": "alice", "secret": "pw1"}, "")

	aliceToken, err := f.tokens.Generate("alice")
	require.NoError(t, err)
	bobToken, err := f.tokens.Generate("bob")
	require.NoError(t, err)

	t.Run("requires a token", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodDelete, "/user/deleteUser/alice", nil, "")
		req.Equal(http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("rejects a token for another user", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodDelete, "/user/deleteUser/alice", nil, bobToken)
		req.Equal(http.StatusForbidden, response.StatusCode)
	})

	t.Run("deletes with a matching token, then 404 on repeat", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodDelete, "/user/deleteUser/alice", nil, aliceToken)
		req.Equal(http.StatusOK, response.StatusCode)

		response, _ = f.do(t, http.MethodDelete, "/user/deleteUser/alice", nil, aliceToken)
		req.Equal(http.StatusNotFound, response.StatusCode)
	})
}

func TestMessaging(t *testing.T) {
	f := newFixture(t)

	t.Run("empty log still returns a list", func(t *testing.T) {
		req := require.New(t)
		response, body := f.do(t, http.MethodGet, "/messaging/getMessages", nil, "")
		req.Equal(http.StatusOK, response.StatusCode)
		req.JSONEq("[]", string(body))
	})

	t.Run("stores and lists messages in order", func(t *testing.T) {
		req := require.New(t)
		response, body := f.do(t, http.MethodPost, "/messaging/addMessage",
			map[string]string{"body": "Hello", "sender": "alice"}, "")
		req.Equal(http.StatusOK, response.StatusCode)
		req.Contains(string(body), `"body":"Hello"`)

		response, _ = f.do(t, http.MethodPost, "/messaging/addMessage",
			map[string]string{"body": "Hi", "sender": "bob"}, "")
		req.Equal(http.StatusOK, response.StatusCode)

		_, listBody := f.do(t, http.MethodGet, "/messaging/getMessages", nil, "")
		var messages []struct {
			Body   string `json:"body"`
			Sender string `json:"sender"`
		}
		req.NoError(json.Unmarshal(listBody, &messages))
		req.Len(messages, 2)
		req.Equal("Hello", messages[0].Body)
		req.Equal("Hi", messages[1].Body)
	})

	t.Run("empty body or sender yields 400", func(t *testing.T) {
		req := require.New(t)
		response, _ := f.do(t, http.MethodPost, "/messaging/addMessage",
			map[string]string{"body": "", "sender": "alice"}, "")
		req.Equal(http.StatusBadRequest, response.StatusCode)

		response, _ = f.do(t, http.MethodPost, "/messaging/addMessage",
			map[string]string{"body": "Hello", "sender": ""}, "")
		req.Equal(http.StatusBadRequest, response.StatusCode)
	})
}

func TestStreamMessages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/messaging/stream", nil)
	req.NoError(err)
	response, err := f.server.Client().Do(request)
	req.NoError(err)
	defer response.Body.Close()
	req.Equal("text/event-stream", response.Header.Get("Content-Type"))

	// Wait until the handler has registered its subscription
	req.Eventually(func() bool { return f.broadcaster.Len() == 1 },
		time.Second, 10*time.Millisecond)

	posted, _ := f.do(t, http.MethodPost, "/messaging/addMessage",
		map[string]string{"body": "X", "sender": "alice"}, "")
	req.Equal(http.StatusOK, posted.StatusCode)

	reader := bufio.NewReader(response.Body)
	var event, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		req.NoError(err)
		line = strings.TrimSpace(line)
		if after, found := strings.CutPrefix(line, "event: "); found {
			event = after
		}
		if after, found := strings.CutPrefix(line, "data: "); found {
			data = after
		}
	}

	req.Equal("messageUpdate", event)
	req.Contains(data, `"body":"X"`)
	req.Contains(data, `"sender":"alice"`)

	// Disconnecting must clean up the subscription
	cancel()
	req.Eventually(func() bool { return f.broadcaster.Len() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestHealthz(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	response, body := f.do(t, http.MethodGet, "/healthz", nil, "")
	req.Equal(http.StatusOK, response.StatusCode)
	req.Contains(string(body), `"status":"ok"`)
}
