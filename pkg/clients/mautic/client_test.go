package mautic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"formrelay/pkg/models"
)

var testLead = models.Lead{
	Name:     "Jane Doe",
	Company:  "Acme",
	Email:    "jane@acme.com",
	Interest: "Custom App Development",
	Budget:   "< $5k",
	Source:   "cloudgeeks-website",
}

func TestEncodeForm_KeepsFieldOrder(t *testing.T) {
	encoded := EncodeForm("45", testLead)

	assert.Contains(t, encoded, "mauticform%5Bname%5D=Jane+Doe&mauticform%5Bcompany%5D=Acme&mauticform%5Bemail%5D=jane%40acme.com")
	assert.True(t, strings.HasPrefix(encoded, "mauticform%5BformId%5D=45&"))

	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	assert.Equal(t, "< $5k", values.Get("mauticform[budget]"))
	assert.Equal(t, "", values.Get("mauticform[return]"))
	assert.Equal(t, "1", values.Get("mauticform[messenger]"))
}

func TestSubmitForm_Success(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/form/submit", r.URL.Path)
		assert.Equal(t, "45", r.URL.Query().Get("formId"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 45, time.Second, zap.NewNop())
	require.NoError(t, client.SubmitForm(context.Background(), testLead))
	assert.Equal(t, EncodeForm("45", testLead), gotBody)
}

func TestSubmitForm_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("mautic internal: form 45 is unpublished"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 45, time.Second, zap.NewNop())
	err := client.SubmitForm(context.Background(), testLead)

	var sinkErr *SinkError
	require.True(t, errors.As(err, &sinkErr))
	assert.Equal(t, http.StatusUnprocessableEntity, sinkErr.StatusCode)
	assert.Equal(t, "mautic internal: form 45 is unpublished", sinkErr.Body)
	assert.NotContains(t, err.Error(), "unpublished")
}

func TestSubmitForm_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 45, 50*time.Millisecond, zap.NewNop())
	err := client.SubmitForm(context.Background(), testLead)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
