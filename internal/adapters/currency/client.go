package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"ratebot/internal/core/domain"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second

type apiError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

type listResponse struct {
	Success    bool              `json:"success"`
	Currencies map[string]string `json:"currencies"`
	Error      *apiError         `json:"error"`
}

type convertResponse struct {
	Success bool      `json:"success"`
	Result  *float64  `json:"result"`
	Error   *apiError `json:"error"`
}

// Client talks to an exchangerate.host compatible API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: currency api url and key", domain.ErrMissingConfig)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) ListCurrencies(ctx context.Context) (map[string]string, error) {
	var body listResponse
	if err := c.get(ctx, "list", url.Values{}, &body); err != nil {
		return nil, err
	}

	if !body.Success {
		return nil, fmt.Errorf("currency list rejected: %s", errorInfo(body.Error))
	}

	currencies := make(map[string]string, len(body.Currencies))
	for code, name := range body.Currencies {
		currencies[strings.ToUpper(code)] = name
	}

	log.Debug().Int("count", len(currencies)).Msg("fetched currency list")
	return currencies, nil
}

func (c *Client) Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	var body convertResponse
	if err := c.get(ctx, "convert", query, &body); err != nil {
		return domain.Conversion{}, err
	}

	conversion := domain.Conversion{Success: body.Success, Result: body.Result}
	if !body.Success {
		conversion.ErrorInfo = errorInfo(body.Error)
	}

	return conversion, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	query.Set("access_key", c.apiKey)
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	return nil
}

// redact drops the request URL, which carries the access key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func errorInfo(e *apiError) string {
	if e == nil {
		return ""
	}
	return e.Info
}
