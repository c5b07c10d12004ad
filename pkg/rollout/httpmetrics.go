package rollout

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPMetrics returns a collector that fetches health metrics from an HTTP
// endpoint returning a JSON object of metric name to value, e.g.
// {"error_rate": 0.013}. A nil client gets a 10-second-timeout default.
func HTTPMetrics(url string, client *http.Client) MetricsCollector {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func() (map[string]float64, error) {
		resp, err := client.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("metrics endpoint returned %s", resp.Status)
		}
		var metrics map[string]float64
		if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics response: %w", err)
		}
		return metrics, nil
	}
}
