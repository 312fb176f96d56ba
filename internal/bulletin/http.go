package bulletin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"dweetmsg/internal/crypto"
	"dweetmsg/internal/domain"
)

// Client is an HTTP bulletin client bound to one cipher. The mailbox name
// and all content pass through the cipher, so two clients with different
// key material see disjoint boards even on the same service.
type Client struct {
	base   string
	http   *http.Client
	cipher *crypto.Cipher
	log    *zap.Logger
}

// New constructs a Client for the service at base (no trailing slash).
// httpClient and log may be nil; they default to http.DefaultClient and a
// no-op logger.
func New(base string, httpClient *http.Client, cipher *crypto.Cipher, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   httpClient,
		cipher: cipher,
		log:    log,
	}
}

func (c *Client) Publish(ctx context.Context, mailbox string, content map[string]string) (domain.PublishReceipt, error) {
	body := make(map[string]string, len(content))
	for k, v := range content {
		body[c.cipher.EncryptHex([]byte(k))] = c.cipher.EncryptHex([]byte(v))
	}

	var receipt domain.PublishReceipt
	if err := c.post(ctx, "/dweet/for/"+c.thingName(mailbox), body, &receipt); err != nil {
		return domain.PublishReceipt{}, err
	}
	c.log.Debug("published to bulletin",
		zap.String("transaction", receipt.Transaction),
		zap.String("created", receipt.Created))
	return receipt, nil
}

func (c *Client) FetchLatest(ctx context.Context, mailbox string) (domain.Dweet, error) {
	var with []domain.Dweet
	if err := c.getJSON(ctx, "/get/latest/dweet/for/"+c.thingName(mailbox), &with); err != nil {
		return domain.Dweet{}, err
	}
	if len(with) == 0 {
		return domain.Dweet{}, fmt.Errorf("bulletin returned no records for mailbox")
	}

	raw := with[0]
	content := make(map[string]string, len(raw.Content))
	for k, v := range raw.Content {
		pk, err := c.cipher.DecryptHex(k)
		if err != nil {
			return domain.Dweet{}, fmt.Errorf("decrypt content key: %w", err)
		}
		pv, err := c.cipher.DecryptHex(v)
		if err != nil {
			return domain.Dweet{}, fmt.Errorf("decrypt content value: %w", err)
		}
		content[string(pk)] = string(pv)
	}
	c.log.Debug("fetched latest from bulletin", zap.String("created", raw.Created))
	return domain.Dweet{Thing: raw.Thing, Created: raw.Created, Content: content}, nil
}

// thingName is the on-the-wire name of a mailbox.
func (c *Client) thingName(mailbox string) string {
	return c.cipher.EncryptHex([]byte(mailbox))
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("bulletin post %s: %s", path, resp.Status)
	}
	return decodeReply(resp.Body, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("bulletin get %s: %s", path, resp.Status)
	}
	return decodeReply(resp.Body, out)
}

// decodeReply unwraps the service's reply envelope. Every response carries a
// "this" status; on failure "because" holds the reason and "with" may be a
// bare status code rather than a payload.
func decodeReply(r io.Reader, out any) error {
	var reply struct {
		This    string          `json:"this"`
		Because json.RawMessage `json:"because"`
		With    json.RawMessage `json:"with"`
	}
	if err := json.NewDecoder(r).Decode(&reply); err != nil {
		return fmt.Errorf("decode bulletin reply: %w", err)
	}
	if reply.This != "succeeded" {
		return fmt.Errorf("bulletin request failed: %s", strings.Trim(string(reply.Because), `"`))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(reply.With, out)
}

var _ domain.BulletinClient = (*Client)(nil)
