package lettermint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DevTransport is a Transport for local development. Instead of calling
// the API it writes every send request to dir as an .eml message next to
// a .json file with the request body, and answers like the API would.
type DevTransport struct {
	dir    string
	now    func() time.Time
	closed atomic.Bool
}

// NewDevTransport creates a DevTransport writing to dir. The directory is
// created on first use.
func NewDevTransport(dir string) *DevTransport {
	return &DevTransport{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (d *DevTransport) Dir() string {
	return d.dir
}

func (d *DevTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	if d.closed.Load() {
		return nil, ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var w wireEmail
	if err := json.Unmarshal(r.Body, &w); err != nil {
		return devError(http.StatusBadRequest, "invalid_json", err), nil
	}
	msg, err := w.message()
	if err != nil {
		return devError(http.StatusUnprocessableEntity, CodeInvalidAddress, err), nil
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	id := uuid.NewString()
	now := d.now()
	identifier := w.Subject
	if len(w.Tags) > 0 {
		identifier = w.Tags[0]
	}
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier), id[:8]))

	if err := writeEML(base+".eml", msg, now, id); err != nil {
		return nil, err
	}

	sidecar, err := json.MarshalIndent(struct {
		MessageID      string          `json:"message_id"`
		IdempotencyKey string          `json:"idempotency_key,omitempty"`
		Timestamp      string          `json:"timestamp"`
		Request        json.RawMessage `json:"request"`
	}{id, r.Header.Get(headerIdempotencyKey), now.Format(time.RFC3339), r.Body}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode request record: %w", err)
	}
	if err := os.WriteFile(base+".json", sidecar, 0o644); err != nil {
		return nil, fmt.Errorf("write request record: %w", err)
	}

	body, _ := json.Marshal(map[string]string{"message_id": id, "status": string(StatusQueued)})
	return &Response{
		StatusCode: http.StatusAccepted,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}, nil
}

// Close makes later requests fail with ErrClientClosed.
func (d *DevTransport) Close() error {
	d.closed.Store(true)
	return nil
}

func writeEML(path string, msg Message, date time.Time, id string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create message file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := writeMIME(f, msg, date, id+"@lettermint.localhost"); err != nil {
		return fmt.Errorf("write message file: %w", err)
	}
	return nil
}

func devError(status int, errType string, err error) *Response {
	body, _ := json.Marshal(map[string]string{"error_type": errType, "message": err.Error()})
	return &Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename turns s into a short, lower-case file name fragment.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 60
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
