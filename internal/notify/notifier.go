package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/telecomsupply/internal/models"
)

// Channel is a delivery medium for reminders.
type Channel string

const (
	ChannelEmail    Channel = "Email"
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WhatsApp"
)

// Channels lists every channel in canonical order.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp}

var (
	ErrNoChannels     = errors.New("at least one channel is required")
	ErrUnknownChannel = errors.New("unknown notification channel")
	ErrEmptyMessage   = errors.New("notification message is empty")
)

// ParseChannel matches a channel name case-insensitively.
func ParseChannel(s string) (Channel, error) {
	for _, ch := range Channels {
		if strings.EqualFold(string(ch), strings.TrimSpace(s)) {
			return ch, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Transport delivers a message over one channel.
type Transport interface {
	Channel() Channel
	Deliver(ctx context.Context, client models.Client, body string) error
}

// Receipt records what a Send attempted.
type Receipt struct {
	ClientID          string
	ClientName        string
	ChannelsAttempted []Channel
}

// Notifier fans a reminder out to the transports of the selected channels.
type Notifier struct {
	transports map[Channel]Transport
	logger     *slog.Logger
}

// NewNotifier registers transports by their channel. A later transport for
// the same channel replaces an earlier one.
func NewNotifier(logger *slog.Logger, transports ...Transport) *Notifier {
	n := &Notifier{
		transports: make(map[Channel]Transport, len(transports)),
		logger:     logger,
	}
	for _, t := range transports {
		n.transports[t.Channel()] = t
	}
	return n
}

// NewLogNotifier returns a Notifier backed by LogTransport for every channel.
func NewLogNotifier(logger *slog.Logger) *Notifier {
	transports := make([]Transport, 0, len(Channels))
	for _, ch := range Channels {
		transports = append(transports, NewLogTransport(ch, logger))
	}
	return NewNotifier(logger, transports...)
}

// Send delivers body to client over every selected channel. Channels are
// deduplicated and attempted in canonical order. Delivery failures on one
// channel do not stop the others; they are joined into the returned error.
func (n *Notifier) Send(ctx context.Context, client models.Client, body string, channels []Channel) (Receipt, error) {
	if strings.TrimSpace(body) == "" {
		return Receipt{}, ErrEmptyMessage
	}
	if len(channels) == 0 {
		return Receipt{}, ErrNoChannels
	}

	selected := make(map[Channel]bool, len(channels))
	for _, ch := range channels {
		if _, ok := n.transports[ch]; !ok {
			return Receipt{}, fmt.Errorf("%w: %q", ErrUnknownChannel, string(ch))
		}
		selected[ch] = true
	}

	receipt := Receipt{ClientID: client.ID, ClientName: client.Name}
	var errs []error
	for _, ch := range Channels {
		if !selected[ch] {
			continue
		}
		receipt.ChannelsAttempted = append(receipt.ChannelsAttempted, ch)
		if err := n.transports[ch].Deliver(ctx, client, body); err != nil {
			n.logger.Error("Notification delivery failed", "client_id", client.ID, "channel", ch, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ch, err))
		}
	}

	n.logger.Info("Notification sent",
		"client_id", client.ID,
		"channels", receipt.ChannelsAttempted,
	)
	return receipt, errors.Join(errs...)
}

// LogTransport is a stand-in transport that only logs the delivery.
type LogTransport struct {
	channel Channel
	logger  *slog.Logger
}

// NewLogTransport creates a LogTransport for ch.
func NewLogTransport(ch Channel, logger *slog.Logger) *LogTransport {
	return &LogTransport{channel: ch, logger: logger}
}

func (t *LogTransport) Channel() Channel { return t.channel }

func (t *LogTransport) Deliver(ctx context.Context, client models.Client, body string) error {
	to := client.Phone
	if t.channel == ChannelEmail {
		to = client.Email
	}
	if to == "" {
		return fmt.Errorf("client %s has no %s contact", client.ID, t.channel)
	}
	t.logger.Info("Delivering notification",
		"channel", t.channel,
		"to", to,
		"bytes", len(body),
	)
	return nil
}
