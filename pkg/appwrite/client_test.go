package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler, apiKey string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.AppwriteConfig{
		Endpoint: server.URL,
		Project:  "test-project",
		APIKey:   apiKey,
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewClientRequiresEndpointAndProject(t *testing.T) {
	_, err := NewClient(config.AppwriteConfig{Project: "p"})
	assert.Error(t, err)

	_, err = NewClient(config.AppwriteConfig{Endpoint: "https://cloud.appwrite.io/v1"})
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/u1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-project", r.Header.Get("X-Appwrite-Project"))
		assert.Equal(t, "key", r.Header.Get("X-Appwrite-Key"))
		writeJSON(w, http.StatusOK, map[string]any{"$id": "u1", "email": "a@x.com"})
	})
	mux.HandleFunc("GET /users/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found", "type": "user_not_found"})
	})
	client := newTestClient(t, mux, "key")

	user, err := client.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "a@x.com", user.Email)

	_, err = client.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchUserByEmailExactMatchCaseInsensitive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		// the search endpoint is fuzzy: return near matches too
		writeJSON(w, http.StatusOK, map[string]any{
			"total": 3,
			"users": []map[string]any{
				{"$id": "u1", "email": "other.bob@x.com"},
				{"$id": "u2", "email": "Bob@X.com"},
				{"$id": "u3", "email": "bob@x.com.br"},
			},
		})
	})
	client := newTestClient(t, mux, "key")

	user, err := client.SearchUserByEmail(context.Background(), "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)

	_, err = client.SearchUserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"message": "A user with the same email already exists",
			"type":    "user_already_exists",
		})
	})
	client := newTestClient(t, mux, "key")

	_, err := client.CreateUser(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestValidateCredentialsDiscardsSession(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /account/sessions/email", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials", "type": "user_invalid_credentials"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "sess1", "userId": "u1", "secret": "s3cret"})
	})
	mux.HandleFunc("DELETE /account/sessions/sess1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get("X-Appwrite-Session"))
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux, "")

	userID, ok := client.ValidateCredentials(context.Background(), "a@x.com", "correct")
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)
	assert.True(t, deleted, "validation session must be discarded")

	_, ok = client.ValidateCredentials(context.Background(), "a@x.com", "wrong")
	assert.False(t, ok)
}

func TestValidateCredentialsToleratesDiscardFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /account/sessions/email", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "sess1", "userId": "u1", "secret": "s"})
	})
	mux.HandleFunc("DELETE /account/sessions/sess1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})
	client := newTestClient(t, mux, "")

	_, ok := client.ValidateCredentials(context.Background(), "a@x.com", "pw")
	assert.True(t, ok)
}

func TestFailClosedOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error", "type": "general_unknown"})
	})
	client := newTestClient(t, mux, "key")

	_, err := client.GetUser(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = client.UpdatePassword(context.Background(), "u1", "pw")
	assert.Error(t, err)

	err = client.UpdateEmailVerification(context.Background(), "u1", true)
	assert.Error(t, err)
}

func TestCancellationAbortsCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	client := newTestClient(t, mux, "key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetUser(ctx, "u1")
	assert.Error(t, err)
}

func TestMessagingProviderLifecycle(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /messaging/providers/jellyfin_smtp", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found", "type": "provider_not_found"})
	})
	mux.HandleFunc("POST /messaging/providers/smtp", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "jellyfin_smtp"})
	})
	client := newTestClient(t, mux, "key")

	_, err := client.GetProvider(context.Background(), "jellyfin_smtp")
	assert.ErrorIs(t, err, ErrNotFound)

	smtp := config.SMTPConfig{Host: "mail.x.com", Port: 465, Username: "u", Password: "p", From: "noreply@x.com", TLS: true}
	require.NoError(t, client.CreateSMTPProvider(context.Background(), "jellyfin_smtp", "Jellyfin SMTP", smtp, "Jellyfin"))
	assert.Equal(t, "ssl", created["encryption"])
	assert.Equal(t, "mail.x.com", created["host"])
	assert.Equal(t, "noreply@x.com", created["fromEmail"])
	assert.Equal(t, true, created["autoTLS"])
}
