package alert

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/vigia-io/vigia/internal/model"
)

// Notifier is the external delivery collaborator. The evaluator hands it a
// payload and moves on; delivery success or failure never affects whether
// the AlertEvent is recorded.
type Notifier interface {
	Notify(ctx context.Context, payload model.NotificationPayload) error
}

// ShoutrrrNotifier pushes payloads through shoutrrr service URLs (webhook,
// telegram, slack, ...). One sender covers all configured URLs.
type ShoutrrrNotifier struct {
	sender *router.ServiceRouter
}

// NewShoutrrrNotifier validates the URLs and builds the sender.
func NewShoutrrrNotifier(urls []string, timeout time.Duration) (*ShoutrrrNotifier, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("notifier: at least one URL is required")
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrNotifier{sender: sender}, nil
}

// Notify sends one alert payload to every configured service.
func (n *ShoutrrrNotifier) Notify(ctx context.Context, payload model.NotificationPayload) error {
	body := fmt.Sprintf("%s\nprobability %.2f, confidence %.2f, trend %s, anomaly %t\n%s",
		payload.Territory, payload.Probability, payload.Confidence, payload.Trend, payload.Anomaly, payload.Explanation)

	params := stypes.Params{}
	params.SetTitle(fmt.Sprintf("[vigia] %s: %s", payload.Rule, payload.Territory))

	for _, err := range n.sender.Send(body, &params) {
		if err != nil {
			return fmt.Errorf("notifier: %w", err)
		}
	}
	return nil
}

// NopNotifier swallows payloads when no delivery target is configured.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(ctx context.Context, payload model.NotificationPayload) error {
	return nil
}
