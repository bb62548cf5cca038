package lettermint_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettermint/lettermint-go"
	"github.com/lettermint/lettermint-go/pkg/address"
)

func decodeBody(t *testing.T, e lettermint.Email) map[string]any {
	t.Helper()
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEmail_RoundTripRecipientsOrder(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().
		From("sender@example.com").
		To("a@x.com", "b@y.com").
		Subject("Hi").
		Text("Hello")

	require.NoError(t, e.Validate())
	body := decodeBody(t, e)

	assert.Equal(t, []any{"a@x.com", "b@y.com"}, body["to"])
	assert.Equal(t, "sender@example.com", body["from"])
	assert.Equal(t, "Hi", body["subject"])
	assert.Equal(t, "Hello", body["text"])
	for _, absent := range []string{"html", "cc", "bcc", "reply_to", "headers", "metadata", "tag", "tags", "route", "attachments"} {
		assert.NotContains(t, body, absent)
	}
}

func TestEmail_TagFields(t *testing.T) {
	t.Parallel()

	body := decodeBody(t, validEmail().Tag("welcome").Tag("onboarding"))
	assert.Equal(t, []any{"welcome", "onboarding"}, body["tags"])
	assert.Equal(t, "onboarding", body["tag"])
}

func TestEmail_Serialization(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().
		From(`"Acme, Inc." <billing@acme.com>`).
		To("Ada Lovelace <ada@example.com>").
		To("grace@example.com").
		Cc("cc@example.com").
		Bcc("bcc@example.com").
		ReplyTo("support@acme.com").
		Subject("Invoice").
		HTML("<p>Hi</p>").
		Text("Hi").
		Headers(map[string]string{"X-Campaign": "q3"}).
		Metadata(map[string]string{"user_id": "42"}).
		Tag("billing").
		Tag("billing").
		Route("transactional").
		AttachInline("logo.png", "aGVsbG8=", "logo").
		Attach("invoice.pdf", "cGRm").
		IdempotencyKey("key-1")

	require.NoError(t, e.Validate())
	body := decodeBody(t, e)

	assert.Equal(t, `"Acme, Inc." <billing@acme.com>`, body["from"])
	assert.Equal(t, []any{"Ada Lovelace <ada@example.com>", "grace@example.com"}, body["to"])
	assert.Equal(t, []any{"cc@example.com"}, body["cc"])
	assert.Equal(t, []any{"bcc@example.com"}, body["bcc"])
	assert.Equal(t, []any{"support@acme.com"}, body["reply_to"])
	assert.Equal(t, "<p>Hi</p>", body["html"])
	assert.Equal(t, map[string]any{"X-Campaign": "q3"}, body["headers"])
	assert.Equal(t, map[string]any{"user_id": "42"}, body["metadata"])
	assert.Equal(t, []any{"billing", "billing"}, body["tags"])
	assert.Equal(t, "billing", body["tag"])
	assert.Equal(t, "transactional", body["route"])
	assert.Equal(t, []any{
		map[string]any{"filename": "logo.png", "content": "aGVsbG8=", "content_id": "logo"},
		map[string]any{"filename": "invoice.pdf", "content": "cGRm"},
	}, body["attachments"])
	assert.NotContains(t, body, "idempotency_key")
}

func TestEmail_CanonicalAddresses(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().
		From("  Jane   <jane@example.com> ").
		To("<bob@example.com>").
		Text("x")

	body := decodeBody(t, e)
	assert.Equal(t, "Jane <jane@example.com>", body["from"])
	assert.Equal(t, []any{"bob@example.com"}, body["to"])
}

func TestEmail_EmptyContentCountsAsPresent(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().From("a@x.com").To("b@x.com").Text("")
	require.NoError(t, e.Validate())
	assert.Equal(t, "", decodeBody(t, e)["text"])
}

func TestEmail_Validate(t *testing.T) {
	t.Parallel()

	base := lettermint.NewEmail()
	tests := []struct {
		name     string
		email    lettermint.Email
		wantCode string
	}{
		{name: "empty", email: base, wantCode: lettermint.CodeMissingSender},
		{name: "missing from", email: base.To("b@x.com").Text("hi"), wantCode: lettermint.CodeMissingSender},
		{name: "missing to", email: base.From("a@x.com").Text("hi"), wantCode: lettermint.CodeMissingRecipient},
		{name: "cc only", email: base.From("a@x.com").Cc("c@x.com").Text("hi"), wantCode: lettermint.CodeMissingRecipient},
		{name: "missing content", email: base.From("a@x.com").To("b@x.com").Subject("s"), wantCode: lettermint.CodeMissingContent},
		{name: "missing to and content", email: base.From("a@x.com"), wantCode: lettermint.CodeMissingRecipient},
		{name: "invalid address wins", email: base.To("nope").Text("hi"), wantCode: lettermint.CodeInvalidAddress},
		{name: "html only", email: base.From("a@x.com").To("b@x.com").HTML("<b>hi</b>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.email.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, lettermint.ErrValidation)

			var lerr *lettermint.Error
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, lettermint.KindValidation, lerr.Kind)
			assert.Equal(t, lettermint.SourceLocal, lerr.Source)
			assert.Equal(t, tt.wantCode, lerr.Code)
		})
	}
}

func TestEmail_StickyError(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().
		From("a@x.com").
		To("first-bad").
		Cc("<also@bad").
		To("ok@x.com").
		Text("hi")

	err := e.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, address.ErrInvalidAddress)
	assert.Contains(t, err.Error(), "invalid to address")
	assert.Equal(t, err, e.Validate())

	// The bad input was not appended; the later good one was.
	assert.Equal(t, []address.Address{{Addr: "ok@x.com"}}, e.Message().To)
}

func TestEmail_InvalidInputs(t *testing.T) {
	t.Parallel()

	bad := []string{"", "   ", "plainaddress", "Bob <bob@example.com", "bob@example.com>", "@example.com", "bob@"}
	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			for name, e := range map[string]lettermint.Email{
				"from":     lettermint.NewEmail().From(in),
				"to":       lettermint.NewEmail().To(in),
				"cc":       lettermint.NewEmail().Cc(in),
				"bcc":      lettermint.NewEmail().Bcc(in),
				"reply_to": lettermint.NewEmail().ReplyTo(in),
			} {
				assert.ErrorIs(t, e.Err(), lettermint.ErrValidation, name)
				assert.Equal(t, lettermint.KindValidation, lettermint.KindOf(e.Err()), name)
			}
		})
	}
}

func TestEmail_BranchesDoNotAlias(t *testing.T) {
	t.Parallel()

	base := lettermint.NewEmail().
		From("a@x.com").
		To("shared@x.com").
		Text("hi").
		Tag("common").
		Headers(map[string]string{"X-A": "1"}).
		Attach("a.txt", "YQ==")

	left := base.To("left@x.com").Tag("left").Headers(map[string]string{"X-A": "left"}).Attach("l.txt", "bA==")
	right := base.To("right@x.com").Tag("right").Headers(map[string]string{"X-B": "2"}).Attach("r.txt", "cg==")

	assert.Equal(t, []any{"shared@x.com"}, decodeBody(t, base)["to"])
	assert.Equal(t, []any{"common"}, decodeBody(t, base)["tags"])
	assert.Equal(t, map[string]any{"X-A": "1"}, decodeBody(t, base)["headers"])
	assert.Len(t, decodeBody(t, base)["attachments"], 1)

	assert.Equal(t, []any{"shared@x.com", "left@x.com"}, decodeBody(t, left)["to"])
	assert.Equal(t, []any{"common", "left"}, decodeBody(t, left)["tags"])
	assert.Equal(t, map[string]any{"X-A": "left"}, decodeBody(t, left)["headers"])

	assert.Equal(t, []any{"shared@x.com", "right@x.com"}, decodeBody(t, right)["to"])
	assert.Equal(t, []any{"common", "right"}, decodeBody(t, right)["tags"])
	assert.Equal(t, map[string]any{"X-A": "1", "X-B": "2"}, decodeBody(t, right)["headers"])
	assert.Equal(t, "r.txt", decodeBody(t, right)["attachments"].([]any)[1].(map[string]any)["filename"])
}

func TestEmail_CallerMapsAreCopied(t *testing.T) {
	t.Parallel()

	h := map[string]string{"X-A": "1"}
	e := lettermint.NewEmail().Headers(h).Metadata(h)
	h["X-A"] = "changed"

	m := e.Message()
	assert.Equal(t, "1", m.Headers["X-A"])
	assert.Equal(t, "1", m.Metadata["X-A"])

	m.Headers["X-A"] = "mutated"
	assert.Equal(t, "1", e.Message().Headers["X-A"])
}

func TestEmail_MergeOverrides(t *testing.T) {
	t.Parallel()

	e := lettermint.NewEmail().
		Metadata(map[string]string{"a": "1", "b": "2"}).
		Metadata(map[string]string{"b": "3", "c": "4"}).
		Headers(map[string]string{"X-Key": "1"}).
		Headers(map[string]string{"x-key": "2"})

	m := e.Message()
	assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, m.Metadata)
	assert.Equal(t, map[string]string{"X-Key": "1", "x-key": "2"}, m.Headers)
}

func TestEmail_LastWriteWins(t *testing.T) {
	t.Parallel()

	m := lettermint.NewEmail().
		From("first@x.com").From("second@x.com").
		ReplyTo("r1@x.com").ReplyTo("r2@x.com").
		Subject("one").Subject("two").
		HTML("a").HTML("b").
		Text("c").Text("d").
		Route("r1").Route("r2").
		IdempotencyKey("k1").IdempotencyKey("k2").
		Message()

	assert.Equal(t, "second@x.com", m.From.Addr)
	assert.Equal(t, "r2@x.com", m.ReplyTo.Addr)
	assert.Equal(t, "two", m.Subject)
	assert.Equal(t, "b", m.HTML)
	assert.Equal(t, "d", m.Text)
	assert.Equal(t, "r2", m.Route)
	assert.Equal(t, "k2", m.IdempotencyKey)
}

func TestEmail_AttachBytes(t *testing.T) {
	t.Parallel()

	m := lettermint.NewEmail().AttachBytes("hello.txt", []byte("hello")).Message()
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, lettermint.Attachment{Filename: "hello.txt", Content: "aGVsbG8="}, m.Attachments[0])
}

func TestEmail_RenderHTML(t *testing.T) {
	t.Parallel()

	welcome := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Welcome</h1>")
		return err
	})

	e, err := lettermint.NewEmail().From("a@x.com").To("b@x.com").RenderHTML(context.Background(), welcome)
	require.NoError(t, err)
	require.NoError(t, e.Validate())
	assert.Equal(t, "<h1>Welcome</h1>", e.Message().HTML)

	boom := errors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
	orig := lettermint.NewEmail().Text("kept")
	got, err := orig.RenderHTML(context.Background(), failing)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, lettermint.ErrValidation)
	assert.Equal(t, "kept", got.Message().Text)
	assert.Empty(t, got.Message().HTML)
}
