package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Operation string

const (
	OpUpload   Operation = "upload"
	OpDownload Operation = "download"
)

var (
	ErrBadSignature = errors.New("bad signature")
	ErrExpired      = errors.New("signed url expired")
	ErrBadOperation = errors.New("unknown operation")
)

// URLSigner issues short-lived signed URLs for direct file upload/download
// against the /assets routes, the in-process equivalent of an object store's
// presigned URL.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *URLSigner) mac(op Operation, key string, exp int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s\n%s\n%d", op, key, exp)
	return hex.EncodeToString(h.Sum(nil))
}

// Sign returns a relative URL under /assets/ for the given key and
// operation, with an optional content type echoed back on download.
func (s *URLSigner) Sign(op Operation, key, contentType string) (string, error) {
	if op != OpUpload && op != OpDownload {
		return "", ErrBadOperation
	}
	exp := s.now().Add(s.ttl).Unix()
	q := url.Values{}
	q.Set("op", string(op))
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.mac(op, key, exp))
	if contentType != "" {
		q.Set("ct", contentType)
	}
	u := url.URL{Path: "/assets/" + key, RawQuery: q.Encode()}
	return u.String(), nil
}

// Verify checks the signature and expiry carried in a signed request.
func (s *URLSigner) Verify(op Operation, key, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if !hmac.Equal([]byte(s.mac(op, key, exp)), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}
