package proxyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/pvminh/tally/expense"
	"golang.org/x/time/rate"
)

// The dashboard backend is a single endpoint dispatching on an "action" field
// in the POST body. Payload fields sit beside the action at the top level.

const (
	actionGetExpenses = "getExpenses"

	requestTimeout = 30 * time.Second
	maxAttempts    = 3
)

// Client calls the dashboard's backend proxy endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Opt configures a Client
type Opt func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(httpClient *http.Client) Opt {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New returns a client for the backend at 'endpoint'.
// Requests are throttled so sync bursts don't trip the backend's quotas
func New(endpoint string, opts ...Opt) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("Backend URL is required")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type response struct {
	Success bool
	Message string
	Data    json.RawMessage
}

// Expenses fetches the expense records spent between the start and end dates
func (c *Client) Expenses(ctx context.Context, start, end time.Time) ([]expense.Expense, error) {
	payload := map[string]interface{}{
		"startDate": start.Format(expense.DateFormat),
		"endDate":   end.Format(expense.DateFormat),
	}
	data, err := c.do(ctx, actionGetExpenses, payload)
	if err != nil {
		return nil, err
	}
	var expenses []expense.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, errors.Wrap(err, "Malformed expense payload from backend")
	}
	return expenses, nil
}

func (c *Client) do(ctx context.Context, action string, payload map[string]interface{}) (json.RawMessage, error) {
	body := make(map[string]interface{}, len(payload)+1)
	for key, value := range payload {
		body[key] = value
	}
	body["action"] = action
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var result response
	err = retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return c.post(ctx, bodyBytes, &result)
		},
		retry.Attempts(maxAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "Backend action %q failed", action)
	}
	if !result.Success {
		return nil, errors.Errorf("Backend action %q rejected: %s", action, result.Message)
	}
	return result.Data, nil
}

func (c *Client) post(ctx context.Context, body []byte, result *response) error {
	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("Backend returned status %d", resp.StatusCode)
	}
	return json.Unmarshal(respBytes, result)
}
