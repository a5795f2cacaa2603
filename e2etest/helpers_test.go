package e2etest

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// getJSON performs a GET and decodes the body into out. It returns the response for header checks.
func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Should be able to read response body")

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, out), "Response should be valid JSON: %s", body)
	}
	return resp
}

// waitForWarmup waits until the periodic updater finished its first refresh cycle
func waitForWarmup(t *testing.T, env *TestEnv) {
	t.Helper()

	require.Eventually(t, func() bool {
		var health struct {
			Refresh struct {
				Runs int `json:"runs"`
			} `json:"refresh"`
		}
		resp, err := http.Get(env.ServerBaseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if json.NewDecoder(resp.Body).Decode(&health) != nil {
			return false
		}
		return health.Refresh.Runs > 0
	}, 10*time.Second, 50*time.Millisecond, "Programs should be warmed on startup")
}
