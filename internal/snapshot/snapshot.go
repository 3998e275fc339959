// Package snapshot converts an owner's transaction log to and from the
// text forms used for clipboard, file and URL sharing.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/identity"

	"github.com/pkg/errors"
)

var (
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrNoSharedData      = errors.New("no shared data in url")
)

// QueryParam carries the encoded snapshot in share URLs.
const QueryParam = "data"

type Snapshot struct {
	User         string               `json:"user"`
	Transactions []models.Transaction `json:"transactions"`
	Timestamp    int64                `json:"timestamp,omitempty"`
}

func New(owner string, transactions []models.Transaction, now time.Time) Snapshot {
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return Snapshot{User: owner, Transactions: transactions, Timestamp: now.UnixMilli()}
}

// Marshal returns the indented JSON used for clipboard and file export.
func Marshal(s Snapshot) ([]byte, error) {
	if s.Transactions == nil {
		s.Transactions = []models.Transaction{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// Encode returns the URL-safe transport string.
func Encode(s Snapshot) (string, error) {
	if s.Transactions == nil {
		s.Transactions = []models.Transaction{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal snapshot")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode accepts either the transport string or raw JSON text. Every
// failure wraps ErrMalformedSnapshot.
func Decode(input string) (*Snapshot, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.Wrap(ErrMalformedSnapshot, "empty input")
	}

	data := []byte(input)
	if !json.Valid(data) {
		decoded, err := decodeBase64(input)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedSnapshot, "not json and not base64")
		}
		data = decoded
	}
	return Parse(data)
}

func decodeBase64(input string) ([]byte, error) {
	// PathUnescape keeps '+' intact, which the standard alphabet needs.
	if strings.Contains(input, "%") {
		if unescaped, err := url.PathUnescape(input); err == nil {
			input = unescaped
		}
	}
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(input)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Parse validates a JSON document and builds the snapshot from it.
func Parse(data []byte) (*Snapshot, error) {
	var raw struct {
		User         json.RawMessage   `json:"user"`
		OwnerID      json.RawMessage   `json:"ownerId"`
		Transactions []json.RawMessage `json:"transactions"`
		Timestamp    json.RawMessage   `json:"timestamp"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(ErrMalformedSnapshot, "invalid json: "+err.Error())
	}

	owner, ok := ownerField(raw.User)
	if !ok {
		owner, ok = ownerField(raw.OwnerID)
	}
	if !ok {
		return nil, errors.Wrap(ErrMalformedSnapshot, "owner must be a non-empty string")
	}
	if raw.Transactions == nil {
		return nil, errors.Wrap(ErrMalformedSnapshot, "transactions must be an array")
	}

	transactions, err := Validate(raw.Transactions)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{User: owner, Transactions: transactions}
	if len(raw.Timestamp) > 0 {
		// a non-numeric timestamp is ignored, it is informational only
		var ts float64
		if json.Unmarshal(raw.Timestamp, &ts) == nil {
			s.Timestamp = int64(ts)
		}
	}
	return s, nil
}

func ownerField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var owner string
	if err := json.Unmarshal(raw, &owner); err != nil || owner == "" {
		return "", false
	}
	return owner, true
}

// ShareURL appends the encoded snapshot to base, keeping its other query
// parameters.
func ShareURL(base string, s Snapshot) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(err, "invalid base url")
	}
	encoded, err := Encode(s)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(QueryParam, encoded)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseAndClear reads the shared snapshot from rawURL and returns the URL
// with the data parameter removed. The cleaned URL is returned even when the
// snapshot is malformed so that callers never read stale shared data twice.
func ParseAndClear(rawURL string) (*Snapshot, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rawURL, errors.Wrap(err, "invalid url")
	}
	q := u.Query()
	value := q.Get(QueryParam)
	if !q.Has(QueryParam) {
		return nil, rawURL, ErrNoSharedData
	}
	q.Del(QueryParam)
	u.RawQuery = q.Encode()
	cleaned := u.String()

	if value == "" {
		return nil, cleaned, errors.Wrap(ErrMalformedSnapshot, "empty data parameter")
	}
	s, err := Decode(value)
	if err != nil {
		return nil, cleaned, err
	}
	return s, cleaned, nil
}

// ExportFilename names a downloaded snapshot file.
func ExportFilename(profileID string, now time.Time) string {
	return fmt.Sprintf("portfoy-%s-%s.json", identity.Short(profileID), now.Format(models.DateLayout))
}
