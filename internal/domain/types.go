package domain

import "time"

// KeyMaterial holds AES-CBC key material after normalization.
// Key is 16 or 32 bytes, IV is always 16 bytes.
type KeyMaterial struct {
	Key []byte
	IV  []byte
}

// Record is the latest sent or received message held in session memory.
// Sessions keep at most one of each; there is no history.
type Record struct {
	SentAt  time.Time
	Message string
}

// PublishReceipt is the bulletin service's response to a publish, returned
// verbatim to the caller. Content is the encrypted mapping as stored by the
// service, not the plaintext.
type PublishReceipt struct {
	Thing       string            `json:"thing"`
	Transaction string            `json:"transaction"`
	Created     string            `json:"created"`
	Content     map[string]string `json:"content"`
}

// Dweet is one record fetched from the bulletin service. Content has been
// decrypted by the client; Created is the service's receipt timestamp as an
// ISO string with millisecond precision.
type Dweet struct {
	Thing   string            `json:"thing"`
	Created string            `json:"created"`
	Content map[string]string `json:"content"`
}
