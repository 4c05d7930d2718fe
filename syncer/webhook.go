package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chapterquiz-server/utils"
)

type webhookPayload struct {
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

// WebhookNotifier POSTs the sync message to a URL, authenticated with a
// short-lived HS256 bearer token.
type WebhookNotifier struct {
	url        string
	signingKey []byte
	issuer     string
	client     *http.Client
	now        func() time.Time
}

// NewWebhookNotifier targets url. An empty signing key sends no token.
func NewWebhookNotifier(url, signingKey, issuer string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		signingKey: []byte(signingKey),
		issuer:     issuer,
		client:     &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) token() (string, error) {
	now := w.now()
	claims := jwt.RegisteredClaims{
		Issuer:    w.issuer,
		Subject:   "sync",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(w.signingKey)
}

func (w *WebhookNotifier) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Message: message, TriggeredAt: utils.Timestamp(w.now())})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(w.signingKey) > 0 {
		token, err := w.token()
		if err != nil {
			return fmt.Errorf("sign webhook token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
