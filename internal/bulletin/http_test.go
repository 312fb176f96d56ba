package bulletin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dweetmsg/internal/bulletin"
	"dweetmsg/internal/crypto"
)

func newCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, err := crypto.NewCipher(crypto.Normalize("test key", "test iv"))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return c
}

func TestPublish_EncryptsThingAndContent(t *testing.T) {
	cipher := newCipher(t)

	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"this": "succeeded",
			"with": map[string]any{
				"thing":       strings.TrimPrefix(r.URL.Path, "/dweet/for/"),
				"transaction": "tx-1",
				"created":     "2026-08-31T10:00:00.123Z",
				"content":     gotBody,
			},
		})
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, cipher, nil)
	receipt, err := c.Publish(context.Background(), "m1", map[string]string{"when": "hello"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if receipt.Transaction != "tx-1" {
		t.Fatalf("transaction = %q, want tx-1", receipt.Transaction)
	}

	// Thing name on the wire must decrypt back to the mailbox.
	thing := strings.TrimPrefix(gotPath, "/dweet/for/")
	if thing == "m1" {
		t.Fatalf("mailbox appeared on the wire unencrypted: %q", gotPath)
	}
	pt, err := cipher.DecryptHex(thing)
	if err != nil || string(pt) != "m1" {
		t.Fatalf("wire thing decrypts to %q (%v), want m1", pt, err)
	}

	// Content keys and values are encrypted too.
	if len(gotBody) != 1 {
		t.Fatalf("wire body has %d entries, want 1", len(gotBody))
	}
	for k, v := range gotBody {
		pk, err := cipher.DecryptHex(k)
		if err != nil || string(pk) != "when" {
			t.Fatalf("wire key decrypts to %q (%v), want when", pk, err)
		}
		pv, err := cipher.DecryptHex(v)
		if err != nil || string(pv) != "hello" {
			t.Fatalf("wire value decrypts to %q (%v), want hello", pv, err)
		}
	}
}

func TestFetchLatest_DecryptsContent(t *testing.T) {
	cipher := newCipher(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"this": "succeeded",
			"with": []map[string]any{{
				"thing":   strings.TrimPrefix(r.URL.Path, "/get/latest/dweet/for/"),
				"created": "2026-08-31T10:00:00.123Z",
				"content": map[string]string{
					cipher.EncryptHex([]byte("when")): cipher.EncryptHex([]byte("hello")),
				},
			}},
		})
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, cipher, nil)
	d, err := c.FetchLatest(context.Background(), "m1")
	if err != nil {
		t.Fatalf("fetch latest: %v", err)
	}
	if d.Created != "2026-08-31T10:00:00.123Z" {
		t.Fatalf("created = %q", d.Created)
	}
	if d.Content["when"] != "hello" {
		t.Fatalf("content = %v, want when=hello", d.Content)
	}
}

func TestFetchLatest_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"this":    "failed",
			"with":    404,
			"because": "we couldn't find this",
		})
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, newCipher(t), nil)
	_, err := c.FetchLatest(context.Background(), "m1")
	if err == nil {
		t.Fatal("expected error for failed reply")
	}
	if !strings.Contains(err.Error(), "we couldn't find this") {
		t.Fatalf("error %q does not carry the service reason", err)
	}
}

func TestFetchLatest_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, newCipher(t), nil)
	if _, err := c.FetchLatest(context.Background(), "m1"); err == nil {
		t.Fatal("expected error for 500 status")
	}
}

func TestFetchLatest_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"this": "succeeded", "with": []any{}})
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, newCipher(t), nil)
	if _, err := c.FetchLatest(context.Background(), "m1"); err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestFetchLatest_UndecryptableContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"this": "succeeded",
			"with": []map[string]any{{
				"created": "2026-08-31T10:00:00.123Z",
				"content": map[string]string{"not hex": "not hex either"},
			}},
		})
	}))
	defer srv.Close()

	c := bulletin.New(srv.URL, nil, newCipher(t), nil)
	if _, err := c.FetchLatest(context.Background(), "m1"); err == nil {
		t.Fatal("expected error for undecryptable content")
	}
}
