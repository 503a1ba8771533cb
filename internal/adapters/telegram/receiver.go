package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"ratebot/internal/core/domain"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	requestTimeout = 15 * time.Second
)

var ErrAPIRejected = errors.New("telegram api returned ok=false")

type updatesResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      []models.Update `json:"result"`
}

// Receiver asks Telegram for the most recent update only. Older updates are not replayed.
type Receiver struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewReceiver(token string) *Receiver {
	return &Receiver{
		token:   token,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL points the receiver at another Bot API server.
func (r *Receiver) WithBaseURL(baseURL string) *Receiver {
	if baseURL != "" {
		r.baseURL = baseURL
	}
	return r
}

func (r *Receiver) FetchLatest(ctx context.Context) (*domain.Update, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?offset=-1&limit=1", r.baseURL, r.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updates: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching updates: %d", resp.StatusCode)
	}

	var body updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}

	if !body.OK {
		return nil, fmt.Errorf("%w: %s", ErrAPIRejected, body.Description)
	}

	if len(body.Result) == 0 {
		return nil, nil
	}

	latest := body.Result[len(body.Result)-1]
	log.Debug().Int64("updateId", latest.ID).Msg("fetched update")

	return toDomain(latest), nil
}

// redact drops the request URL, which carries the bot token, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func toDomain(u models.Update) *domain.Update {
	update := &domain.Update{ID: u.ID}
	if u.Message == nil || u.Message.Text == "" {
		return update
	}

	msg := &domain.Message{
		ID:     u.Message.ID,
		ChatID: u.Message.Chat.ID,
		Text:   u.Message.Text,
	}

	if from := u.Message.From; from != nil {
		msg.UserID = from.ID
		msg.Username = displayName(from)
	}

	update.Message = msg
	return update
}

func displayName(u *models.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FirstName
}
