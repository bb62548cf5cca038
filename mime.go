package lettermint

import (
	"encoding/base64"
	"fmt"
	"io"
	"maps"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/lettermint/lettermint-go/pkg/address"
)

// EncodeMIME writes the request as an RFC 5322 message, for previews and
// local inspection. Bcc recipients are included in the headers.
func (e Email) EncodeMIME(w io.Writer) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return writeMIME(w, e.Message(), time.Now(), "")
}

// writeMIME renders m. An empty messageID gets a generated one.
func writeMIME(w io.Writer, m Message, date time.Time, messageID string) error {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", mailAddresses(m.From))
	h.SetAddressList("To", mailAddresses(m.To...))
	if len(m.Cc) > 0 {
		h.SetAddressList("Cc", mailAddresses(m.Cc...))
	}
	if len(m.Bcc) > 0 {
		h.SetAddressList("Bcc", mailAddresses(m.Bcc...))
	}
	if !m.ReplyTo.IsZero() {
		h.SetAddressList("Reply-To", mailAddresses(m.ReplyTo))
	}
	h.SetSubject(m.Subject)
	if messageID != "" {
		h.SetMessageID(messageID)
	} else if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generate message id: %w", err)
	}
	if len(m.Tags) > 0 {
		h.Set("X-Lettermint-Tags", strings.Join(m.Tags, ", "))
	}
	if m.Route != "" {
		h.Set("X-Lettermint-Route", m.Route)
	}
	for _, k := range slices.Sorted(maps.Keys(m.Headers)) {
		h.Set(k, m.Headers[k])
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("create mime writer: %w", err)
	}

	if err := writeBodies(mw, m); err != nil {
		return err
	}
	for _, a := range m.Attachments {
		if err := writeAttachment(mw, a); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeBodies(mw *mail.Writer, m Message) error {
	iw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("create inline part: %w", err)
	}
	parts := []struct{ contentType, body string }{
		{"text/plain", m.Text},
		{"text/html", m.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		var ph mail.InlineHeader
		ph.SetContentType(p.contentType, map[string]string{"charset": "utf-8"})
		pw, err := iw.CreatePart(ph)
		if err != nil {
			return fmt.Errorf("create %s part: %w", p.contentType, err)
		}
		if _, err := io.WriteString(pw, p.body); err != nil {
			return err
		}
		if err := pw.Close(); err != nil {
			return err
		}
	}
	return iw.Close()
}

func writeAttachment(mw *mail.Writer, a Attachment) error {
	data, err := base64.StdEncoding.DecodeString(a.Content)
	if err != nil {
		return fmt.Errorf("attachment %q: content is not base64: %w", a.Filename, err)
	}

	mediaType, params, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(a.Filename)))
	if err != nil {
		mediaType, params = "application/octet-stream", nil
	}

	var ah mail.AttachmentHeader
	ah.SetContentType(mediaType, params)
	ah.SetFilename(a.Filename)
	if a.ContentID != "" {
		ah.SetContentDisposition("inline", map[string]string{"filename": a.Filename})
		ah.Set("Content-ID", "<"+a.ContentID+">")
	}

	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return fmt.Errorf("attachment %q: %w", a.Filename, err)
	}
	if _, err := aw.Write(data); err != nil {
		return err
	}
	return aw.Close()
}

func mailAddresses(list ...address.Address) []*mail.Address {
	out := make([]*mail.Address, len(list))
	for i, a := range list {
		out[i] = &mail.Address{Name: a.Name, Address: a.Addr}
	}
	return out
}
