// Package bulletin provides an HTTP implementation of the
// domain.BulletinClient interface used by dweetmsg.
//
// The bulletin service is a public dweet-style key-value board: anyone can
// publish a small JSON content mapping under a "thing" name and read back
// the latest one. This package offers a concrete HTTP client for such a
// service that keeps everything persisted there opaque: the thing name and
// every content key and value are AES-CBC encrypted and hex-encoded before
// they leave the process, and fetched content is decrypted on the way in.
//
// Supported operations include:
//   - Publishing a content mapping under a mailbox.
//   - Fetching the latest record published under a mailbox.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses and service-level "failed" replies are
// returned as errors with enough detail to aid diagnostics.
package bulletin
