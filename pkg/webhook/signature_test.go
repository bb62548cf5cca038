package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettermint/lettermint-go/pkg/webhook"
)

// hmacHex computes the reference signature independently of the package.
func hmacHex(secret string, ts int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return hex.EncodeToString(h.Sum(nil))
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    webhook.Signature
		wantErr bool
	}{
		{
			name:   "single v1",
			header: "t=1700000000,v1=abc123",
			want:   webhook.Signature{Timestamp: 1700000000, V1: []string{"abc123"}},
		},
		{
			name:   "rotated secrets",
			header: "t=1700000000,v1=aaa,v1=bbb",
			want:   webhook.Signature{Timestamp: 1700000000, V1: []string{"aaa", "bbb"}},
		},
		{
			name:   "spaces and unknown keys",
			header: " t=42 , v0=old, v1=abc ,foo",
			want:   webhook.Signature{Timestamp: 42, V1: []string{"abc"}},
		},
		{
			name:   "order independent",
			header: "v1=abc,t=42",
			want:   webhook.Signature{Timestamp: 42, V1: []string{"abc"}},
		},
		{name: "empty", header: "", wantErr: true},
		{name: "missing timestamp", header: "v1=abc", wantErr: true},
		{name: "missing v1", header: "t=42", wantErr: true},
		{name: "empty v1", header: "t=42,v1=", wantErr: true},
		{name: "non numeric timestamp", header: "t=abc,v1=abc", wantErr: true},
		{name: "garbage", header: "invalid_signature", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := webhook.ParseSignature(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
				assert.ErrorIs(t, err, webhook.ErrWebhookVerification)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignature_String(t *testing.T) {
	t.Parallel()

	sig := webhook.Signature{Timestamp: 7, V1: []string{"a", "b"}}
	assert.Equal(t, "t=7,v1=a,v1=b", sig.String())

	parsed, err := webhook.ParseSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}

func TestSign(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"event":"sent"}`)
	at := time.Unix(1700000000, 0)

	header := webhook.Sign("s", payload, at)
	assert.Equal(t, "t=1700000000,v1="+hmacHex("s", 1700000000, payload), header)
}
