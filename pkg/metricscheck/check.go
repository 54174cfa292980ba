// Package metricscheck scrapes a node's Prometheus endpoint and checks the
// value of one series.
package metricscheck

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"

	"github.com/vertti/hostverify/pkg/check"
)

// HTTPClient abstracts HTTP requests for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Check scrapes URL and validates the series Metric{Labels}.
type Check struct {
	URL        string            // exposition endpoint, e.g. http://127.0.0.1:9615/metrics
	Metric     string            // metric family name (required)
	Labels     map[string]string // label matchers; the series must match all of them
	Min        *float64          // minimum value (fail if below)
	Max        *float64          // maximum value (fail if above)
	Timeout    time.Duration     // request timeout (default: 5s)
	Retry      int               // retry count on failure
	RetryDelay time.Duration     // delay between retries (default: 1s)
	Client     HTTPClient        // injected for testing
}

// Run executes the metrics check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "metric: " + c.selector(),
	}

	if c.Metric == "" {
		return result.Failf("metric name is required")
	}
	parsedURL, err := url.Parse(c.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return result.Failf("invalid URL: %s", c.URL)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	retryDelay := c.RetryDelay
	if retryDelay == 0 {
		retryDelay = 1 * time.Second
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	// A node that just started may not have exported the series yet, so
	// every failure below is retried.
	maxAttempts := c.Retry + 1
	var value float64
	for attempt := 1; ; attempt++ {
		value, err = c.scrape(client)
		if err == nil {
			err = c.compare(value)
		}
		if err == nil {
			break
		}
		if attempt >= maxAttempts {
			if maxAttempts > 1 {
				return result.Failf("%v (after %d attempts)", err, maxAttempts)
			}
			return result.Fail(err.Error(), nil)
		}
		time.Sleep(retryDelay)
	}

	result.AddDetailf("url: %s", c.URL)
	result.AddDetailf("value: %v", value)
	return result.Pass()
}

func (c *Check) scrape(client HTTPClient) (float64, error) {
	req, err := http.NewRequest(http.MethodGet, c.URL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse metrics: %w", err)
	}

	family, ok := families[c.Metric]
	if !ok {
		return 0, fmt.Errorf("metric %s not exported", c.Metric)
	}

	var matched []*dto.Metric
	for _, m := range family.GetMetric() {
		if c.matches(m) {
			matched = append(matched, m)
		}
	}
	switch len(matched) {
	case 0:
		return 0, fmt.Errorf("no series matches %s", c.selector())
	case 1:
	default:
		return 0, fmt.Errorf("%d series match %s, expected 1 (add --label)", len(matched), c.selector())
	}

	return sampleValue(family.GetType(), matched[0])
}

func (c *Check) matches(m *dto.Metric) bool {
	for name, want := range c.Labels {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name {
				found = lp.GetValue() == want
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *Check) compare(value float64) error {
	if c.Min != nil && value < *c.Min {
		return fmt.Errorf("value %v < minimum %v", value, *c.Min)
	}
	if c.Max != nil && value > *c.Max {
		return fmt.Errorf("value %v > maximum %v", value, *c.Max)
	}
	return nil
}

func sampleValue(t dto.MetricType, m *dto.Metric) (float64, error) {
	switch t {
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), nil
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), nil
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), nil
	default:
		return 0, fmt.Errorf("unsupported metric type %s", t)
	}
}

// selector renders the check target as name{label="value",...}.
func (c *Check) selector() string {
	if len(c.Labels) == 0 {
		return c.Metric
	}
	keys := make([]string, 0, len(c.Labels))
	for k := range c.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, c.Labels[k])
	}
	return c.Metric + "{" + strings.Join(pairs, ",") + "}"
}

// ParseLabels converts ["key=value", ...] into label matchers.
func ParseLabels(pairs []string) (map[string]string, error) {
	labels := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid label %q, expected key=value", p)
		}
		labels[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return labels, nil
}
