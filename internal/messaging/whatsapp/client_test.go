package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kairos/internal/common/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Token:         "test-token",
		PhoneNumberID: "555000",
		BaseURL:       srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestSendText(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/555000/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	})

	err := client.SendText(context.Background(), "27821234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "27821234567", got["to"])
	assert.Equal(t, "text", got["type"])
}

func TestSendTextServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.SendText(context.Background(), "27821234567", "hello")
	assert.True(t, errors.IsType(err, errors.ErrTypeTransport))
}

func TestDownloadMedia(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/media-9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"url":"%s/download/media-9","mime_type":"image/jpeg"}`, srvURL)
	})
	mux.HandleFunc("/download/media-9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte("image-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client, err := NewClient(Config{Token: "test-token", PhoneNumberID: "555000", BaseURL: srv.URL})
	require.NoError(t, err)

	data, err := client.DownloadMedia(context.Background(), "media-9")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestUploadMedia(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/555000/media", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whatsapp", r.FormValue("messaging_product"))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "invite.ics", header.Filename)
		w.Write([]byte(`{"id":"uploaded-1"}`))
	})

	mediaID, err := client.UploadMedia(context.Background(), "invite.ics", "text/calendar", []byte("BEGIN:VCALENDAR"))
	require.NoError(t, err)
	assert.Equal(t, "uploaded-1", mediaID)
}

func TestValidateToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "id", r.URL.Query().Get("fields"))
			w.Write([]byte(`{"id":"555000"}`))
		})
		assert.NoError(t, client.ValidateToken(context.Background()))
	})

	t.Run("expired", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := client.ValidateToken(context.Background())
		assert.True(t, errors.IsType(err, errors.ErrTypeAuth))
	})
}
