package messenger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dweetmsg/internal/domain"
)

// TimeLayout is the fixed-width timestamp format embedded in message
// payloads: ISO-8601 UTC with six fractional digits and a literal Z.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// MaxSentCreatedGap is the default tolerance between a record's embedded
// send time and the service's receipt time. Records further apart are
// rejected as probable duplicates. The value is a heuristic tunable, not a
// proven security bound; it makes no allowance for clock skew between the
// sender and the service.
const MaxSentCreatedGap = 10 * time.Second

// createdPrefixLen keeps date through milliseconds of the service's receipt
// timestamp; the remainder is rebuilt to the fixed-width layout.
const createdPrefixLen = len("2006-01-02T15:04:05.000")

// Service is one messaging session on a shared mailbox.
//
// High-level flow:
//   - Send: label the message with the current UTC time, publish the
//     single-entry mapping via the bulletin client, remember what was sent.
//   - Get: fetch the latest record, compare its embedded send time against
//     the service's receipt time, reject on excessive gap, remember what
//     was received.
//
// A Service is not safe for concurrent use: SendMessage and the Get methods
// mutate the latest-sent/latest-received fields without locking. Callers
// needing concurrency must synchronize externally.
type Service struct {
	mailbox string
	client  domain.BulletinClient
	log     *zap.Logger
	maxGap  time.Duration

	lastSent     *domain.Record
	lastReceived *domain.Record
}

// New constructs a Service on the given mailbox and bulletin client.
// log may be nil (no-op) and maxGap zero (MaxSentCreatedGap). Construction
// performs no network activity.
func New(mailbox string, client domain.BulletinClient, log *zap.Logger, maxGap time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if maxGap == 0 {
		maxGap = MaxSentCreatedGap
	}
	return &Service{
		mailbox: mailbox,
		client:  client,
		log:     log,
		maxGap:  maxGap,
	}
}

// SendMessage publishes message to the mailbox, labelled with the current
// UTC time, and returns the service's raw receipt. One attempt, no retry.
// The latest-sent record is updated only on success.
func (s *Service) SendMessage(ctx context.Context, message []byte) (domain.PublishReceipt, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	sentAt := now.Format(TimeLayout)

	receipt, err := s.client.Publish(ctx, s.mailbox, map[string]string{sentAt: string(message)})
	if err != nil {
		return domain.PublishReceipt{}, &domain.MessagingError{
			Op: "send message", Msg: "publish to bulletin failed", Err: err,
		}
	}

	s.lastSent = &domain.Record{SentAt: now, Message: string(message)}
	s.log.Debug("message sent",
		zap.String("sent_at", sentAt),
		zap.String("transaction", receipt.Transaction))
	return receipt, nil
}

// GetLatestMessage fetches the most recent record in the mailbox and
// returns its message.
//
// The record's embedded send time must lie within the gap tolerance of the
// service's receipt time; records further apart are rejected as probable
// duplication or replay. The latest-received record is updated only when a
// message is returned.
func (s *Service) GetLatestMessage(ctx context.Context) (string, error) {
	const op = "get latest message"

	d, err := s.client.FetchLatest(ctx, s.mailbox)
	if err != nil {
		return "", &domain.MessagingError{Op: op, Msg: "fetch from bulletin failed", Err: err}
	}

	if len(d.Created) < createdPrefixLen {
		return "", &domain.MessagingError{
			Op: op, Msg: fmt.Sprintf("malformed created timestamp %q", d.Created),
		}
	}
	// Receipt timestamps carry millisecond precision; rebuild the
	// fixed-width six-digit form before parsing.
	createdStr := d.Created[:createdPrefixLen] + "000Z"

	if len(d.Content) != 1 {
		return "", &domain.MessagingError{
			Op: op, Msg: fmt.Sprintf("expected exactly one content entry, got %d", len(d.Content)),
		}
	}
	var sentStr, message string
	for k, v := range d.Content {
		sentStr, message = k, v
	}

	created, err := time.Parse(TimeLayout, createdStr)
	if err != nil {
		return "", &domain.MessagingError{Op: op, Msg: "parse created timestamp", Err: err}
	}
	sent, err := time.Parse(TimeLayout, sentStr)
	if err != nil {
		return "", &domain.MessagingError{Op: op, Msg: "parse sent timestamp", Err: err}
	}

	gap := created.Sub(sent)
	if gap < 0 {
		gap = -gap
	}
	if gap > s.maxGap {
		s.log.Warn("rejected record",
			zap.Duration("gap", gap),
			zap.Duration("max_gap", s.maxGap))
		return "", &domain.MessagingError{
			Op:  op,
			Msg: "too much gap between sent time and created time; likely a duplication attack",
		}
	}

	s.lastReceived = &domain.Record{SentAt: sent, Message: message}
	return message, nil
}

// GetNewMessage fetches the latest message and reports whether it is newer
// than the one last received. It returns (message, true, nil) for a new
// message, ("", false, nil) when the latest record is the one already seen
// (or older), and a MessagingError when the fetch or validation fails. The
// two non-error outcomes are distinct from failure: "no new message" is a
// success.
func (s *Service) GetNewMessage(ctx context.Context) (string, bool, error) {
	prev := s.lastReceived

	msg, err := s.GetLatestMessage(ctx)
	if err != nil {
		return "", false, err
	}
	if prev == nil || s.lastReceived.SentAt.After(prev.SentAt) {
		return msg, true, nil
	}
	return "", false, nil
}

// LatestSendTime returns the send time of the last successful SendMessage.
func (s *Service) LatestSendTime() (time.Time, bool) {
	if s.lastSent == nil {
		return time.Time{}, false
	}
	return s.lastSent.SentAt, true
}

// LatestSendMessage returns the message of the last successful SendMessage.
func (s *Service) LatestSendMessage() (string, bool) {
	if s.lastSent == nil {
		return "", false
	}
	return s.lastSent.Message, true
}

// LatestGetTime returns the embedded send time of the last successfully
// retrieved message.
func (s *Service) LatestGetTime() (time.Time, bool) {
	if s.lastReceived == nil {
		return time.Time{}, false
	}
	return s.lastReceived.SentAt, true
}

// LatestGetMessage returns the last successfully retrieved message.
func (s *Service) LatestGetMessage() (string, bool) {
	if s.lastReceived == nil {
		return "", false
	}
	return s.lastReceived.Message, true
}
