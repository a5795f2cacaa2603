package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relplan/plm-proxy/config"
)

const testConfigTemplate = `
plm:
  base_url: "%s"
  token: "test-token"
  request_timeout: 2s
  rate_limit:
    rate_limit_per_minute: 6000

request_queue:
  max_concurrent_requests: 4
  max_retries: 2
  retry_delay: 20ms     # short backoff for tests
  batch_delay: 5ms
  row_index_delay: 5ms
  timeout: 2s
  max_jitter: 1ms

data_service:
  ttl: 1m
  programs:
    - ALPHA
  refresh_interval: 1h  # refresh only on demand during tests
  max_parallel_rows: 4

server:
  port: "%s"
`

// createTestConfig writes a config pointing at the mock PLM server and returns its path
func createTestConfig(mockURL, port string) (string, error) {
	tempDir, err := os.MkdirTemp("", "plm-proxy-test")
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(tempDir, "config.yaml")
	content := fmt.Sprintf(testConfigTemplate, mockURL, port)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads the test configuration
func loadTestConfig(mockURL, port string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL, port)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
