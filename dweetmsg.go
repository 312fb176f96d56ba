// Package dweetmsg provides a small messaging client on top of a public
// dweet-style key-value bulletin service.
//
// Messages are AES-CBC encrypted and published under a shared mailbox name;
// receivers poll for the latest record, which is validated against the
// service's receipt timestamp to spot replayed or duplicated records.
//
// Quick start:
//
//	m, err := dweetmsg.New(dweetmsg.Config{
//	    Mailbox: "YOUR MAILBOX",
//	    Key:     "YOUR KEY",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := m.SendMessage(ctx, []byte("YOUR MESSAGE")); err != nil {
//	    log.Fatal(err)
//	}
//
//	msg, ok, err := m.GetNewMessage(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ok {
//	    fmt.Println(msg)
//	}
//
// The mailbox name is not unique per instance: unrelated senders who pick
// the same name collide on the same board. Confidentiality rests entirely
// on the key material.
package dweetmsg

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dweetmsg/internal/bulletin"
	"dweetmsg/internal/crypto"
	"dweetmsg/internal/domain"
	"dweetmsg/internal/services/messenger"
)

// DefaultBaseURL is the public dweet service.
const DefaultBaseURL = "https://dweet.io"

// MaxSentCreatedGap is the default freshness tolerance applied to fetched
// records; see Config.MaxSentCreatedGap.
const MaxSentCreatedGap = messenger.MaxSentCreatedGap

// MessagingError is the single error kind returned by a Messenger. Use
// errors.As to get at the operation and the wrapped cause.
type MessagingError = domain.MessagingError

// PublishReceipt is the bulletin service's raw response to a send.
type PublishReceipt = domain.PublishReceipt

// Config holds the wiring options for a Messenger. The zero value is
// usable, with defaults matching the classic public setup (and, with the
// default key, no meaningful secrecy).
type Config struct {
	// Mailbox names the shared channel on the bulletin service.
	// Defaults to "mailbox".
	Mailbox string

	// Key is the AES-CBC key before normalization: shorter keys are
	// space-padded to 16 or 32 bytes, longer ones truncated to 32.
	// Defaults to "aes_cbc_key".
	Key string

	// IV is the AES-CBC IV before normalization to 16 bytes. When empty,
	// the pre-normalization Key is used, and each is then normalized
	// independently.
	IV string

	// BaseURL of the bulletin service. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTP is the client for outbound calls; timeouts belong here.
	// Defaults to http.DefaultClient.
	HTTP *http.Client

	// Logger receives structured debug/warn events. Defaults to a no-op
	// logger.
	Logger *zap.Logger

	// MaxSentCreatedGap overrides the freshness tolerance used to reject
	// suspected duplicate records. Defaults to MaxSentCreatedGap.
	MaxSentCreatedGap time.Duration
}

// Messenger is a messaging session on one mailbox. It is not safe for
// concurrent use; see the session's latest-sent/latest-received accessors.
type Messenger struct {
	svc *messenger.Service
}

// New builds a Messenger from cfg. It performs no network activity; the
// bulletin service is first contacted by SendMessage or a Get call.
func New(cfg Config) (*Messenger, error) {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "mailbox"
	}
	if cfg.Key == "" {
		cfg.Key = "aes_cbc_key"
	}
	if cfg.IV == "" {
		cfg.IV = cfg.Key
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	cipher, err := crypto.NewCipher(crypto.Normalize(cfg.Key, cfg.IV))
	if err != nil {
		return nil, err
	}
	client := bulletin.New(cfg.BaseURL, cfg.HTTP, cipher, cfg.Logger)
	return &Messenger{
		svc: messenger.New(cfg.Mailbox, client, cfg.Logger, cfg.MaxSentCreatedGap),
	}, nil
}

// SendMessage encrypts and publishes message to the mailbox and returns the
// service's raw receipt. One attempt, no retry.
func (m *Messenger) SendMessage(ctx context.Context, message []byte) (PublishReceipt, error) {
	return m.svc.SendMessage(ctx, message)
}

// GetLatestMessage fetches, decrypts and validates the most recent message
// in the mailbox.
func (m *Messenger) GetLatestMessage(ctx context.Context) (string, error) {
	return m.svc.GetLatestMessage(ctx)
}

// GetNewMessage is GetLatestMessage plus a seen-before check: ok is false
// when the latest message is the one already retrieved (or older).
func (m *Messenger) GetNewMessage(ctx context.Context) (msg string, ok bool, err error) {
	return m.svc.GetNewMessage(ctx)
}

// LatestSendTime returns the send time of the last successful SendMessage,
// with ok false before the first success.
func (m *Messenger) LatestSendTime() (time.Time, bool) { return m.svc.LatestSendTime() }

// LatestSendMessage returns the message of the last successful SendMessage.
func (m *Messenger) LatestSendMessage() (string, bool) { return m.svc.LatestSendMessage() }

// LatestGetTime returns the embedded send time of the last message
// retrieved successfully.
func (m *Messenger) LatestGetTime() (time.Time, bool) { return m.svc.LatestGetTime() }

// LatestGetMessage returns the last message retrieved successfully.
func (m *Messenger) LatestGetMessage() (string, bool) { return m.svc.LatestGetMessage() }
