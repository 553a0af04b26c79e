package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTransport(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer ts.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer default")
	headers.Set("User-Agent", "tooldef/dev")

	client := &http.Client{Transport: NewHeaderTransport(nil, headers)}

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit", got.Get("Authorization"))
	assert.Equal(t, "tooldef/dev", got.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("User-Agent"), "caller's request must not be modified")
}
