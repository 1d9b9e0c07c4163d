package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	s := NewURLSigner("secret", time.Minute)

	signed, err := s.Sign(OpUpload, "notes/u1/n1/file.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.HasPrefix(signed, "/assets/notes/u1/n1/file.pdf?") {
		t.Fatalf("unexpected path: %s", signed)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("ct") != "application/pdf" {
		t.Errorf("content type not carried: %q", q.Get("ct"))
	}
	if err := s.Verify(OpUpload, "notes/u1/n1/file.pdf", q.Get("exp"), q.Get("sig")); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestSignerRejectsTamperAndExpiry(t *testing.T) {
	s := NewURLSigner("secret", time.Minute)
	signed, _ := s.Sign(OpDownload, "notes/u1/n1/a.txt", "")
	u, _ := url.Parse(signed)
	q := u.Query()

	if err := s.Verify(OpDownload, "notes/u1/n1/b.txt", q.Get("exp"), q.Get("sig")); err != ErrBadSignature {
		t.Errorf("key tamper: got %v, want ErrBadSignature", err)
	}
	if err := s.Verify(OpUpload, "notes/u1/n1/a.txt", q.Get("exp"), q.Get("sig")); err != ErrBadSignature {
		t.Errorf("operation swap: got %v, want ErrBadSignature", err)
	}
	if err := s.Verify(OpDownload, "notes/u1/n1/a.txt", "notanumber", q.Get("sig")); err != ErrBadSignature {
		t.Errorf("bad exp: got %v, want ErrBadSignature", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if err := s.Verify(OpDownload, "notes/u1/n1/a.txt", q.Get("exp"), q.Get("sig")); err != ErrExpired {
		t.Errorf("expired: got %v, want ErrExpired", err)
	}
}

func TestSignerUnknownOperation(t *testing.T) {
	s := NewURLSigner("secret", time.Minute)
	if _, err := s.Sign("delete", "k", ""); err != ErrBadOperation {
		t.Errorf("got %v, want ErrBadOperation", err)
	}
}
