package domain

import "context"

// BulletinClient is how we talk to the key-value bulletin service, all with
// context. Implementations encrypt the mailbox name and content mapping on
// the way out and decrypt fetched content on the way in.
type BulletinClient interface {
	// Publish posts a content mapping under the mailbox and returns the
	// service's raw receipt.
	Publish(ctx context.Context, mailbox string, content map[string]string) (PublishReceipt, error)

	// FetchLatest returns the most recent record published under the
	// mailbox, with its content decrypted.
	FetchLatest(ctx context.Context, mailbox string) (Dweet, error)
}
