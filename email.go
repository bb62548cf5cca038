package lettermint

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"maps"
	"slices"

	"github.com/lettermint/lettermint-go/pkg/address"
)

// Attachment is a file sent with an email. Content is base64 encoded.
// A non-empty ContentID makes the attachment inline; the HTML body refers
// to it as "cid:<ContentID>".
type Attachment struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	ContentID string `json:"content_id,omitempty"`
}

// Email is an outgoing message under construction.
//
// Email is a value: every builder method returns a new Email and leaves the
// receiver untouched, so a partially built request can be reused as the
// base for several different messages. The zero value is an empty request.
//
// Inputs are validated by the method that receives them. The first invalid
// input is kept and reported by Err, Validate and Client.Send; later calls
// still build but never replace that error.
type Email struct {
	from           address.Address
	to             []address.Address
	cc             []address.Address
	bcc            []address.Address
	replyTo        address.Address
	subject        string
	html           *string
	text           *string
	attachments    []Attachment
	headers        map[string]string
	metadata       map[string]string
	tags           []string
	route          string
	idempotencyKey string
	err            error
}

// NewEmail returns an empty request.
func NewEmail() Email {
	return Email{}
}

// From sets the sender, "addr@example.com" or "Name <addr@example.com>".
func (e Email) From(raw string) Email {
	a, err := address.Parse(raw)
	if err != nil {
		return e.fail(validationError(CodeInvalidAddress, "invalid from address", err))
	}
	e.from = a
	return e
}

// To appends recipients in order.
func (e Email) To(raw ...string) Email {
	list, err := parseRecipients("to", raw)
	if err != nil {
		return e.fail(err)
	}
	e.to = slices.Concat(e.to, list)
	return e
}

// Cc appends carbon-copy recipients in order.
func (e Email) Cc(raw ...string) Email {
	list, err := parseRecipients("cc", raw)
	if err != nil {
		return e.fail(err)
	}
	e.cc = slices.Concat(e.cc, list)
	return e
}

// Bcc appends blind carbon-copy recipients in order.
func (e Email) Bcc(raw ...string) Email {
	list, err := parseRecipients("bcc", raw)
	if err != nil {
		return e.fail(err)
	}
	e.bcc = slices.Concat(e.bcc, list)
	return e
}

// ReplyTo sets the reply-to address.
func (e Email) ReplyTo(raw string) Email {
	a, err := address.Parse(raw)
	if err != nil {
		return e.fail(validationError(CodeInvalidAddress, "invalid reply_to address", err))
	}
	e.replyTo = a
	return e
}

// Subject sets the subject line. Last call wins.
func (e Email) Subject(s string) Email {
	e.subject = s
	return e
}

// HTML sets the HTML body. An empty string still counts as content.
func (e Email) HTML(s string) Email {
	e.html = &s
	return e
}

// Text sets the plain-text body. An empty string still counts as content.
func (e Email) Text(s string) Email {
	e.text = &s
	return e
}

// Attach appends an attachment whose content is already base64 encoded.
func (e Email) Attach(filename, content string) Email {
	return e.attach(Attachment{Filename: filename, Content: content})
}

// AttachInline appends an attachment referenced from the HTML body by
// "cid:<contentID>".
func (e Email) AttachInline(filename, content, contentID string) Email {
	return e.attach(Attachment{Filename: filename, Content: content, ContentID: contentID})
}

// AttachBytes base64-encodes data and appends it as an attachment.
func (e Email) AttachBytes(filename string, data []byte) Email {
	return e.Attach(filename, base64.StdEncoding.EncodeToString(data))
}

func (e Email) attach(a Attachment) Email {
	e.attachments = append(slices.Clip(e.attachments), a)
	return e
}

// Headers merges custom headers; keys in h replace existing ones.
// Keys are case-sensitive.
func (e Email) Headers(h map[string]string) Email {
	e.headers = merge(e.headers, h)
	return e
}

// Metadata merges metadata; keys in m replace existing ones.
func (e Email) Metadata(m map[string]string) Email {
	e.metadata = merge(e.metadata, m)
	return e
}

// Tag appends a tag. Duplicates are kept.
//
// The body carries every tag under "tags" and the most recent one under
// "tag", the single-value field older API versions read.
func (e Email) Tag(tag string) Email {
	e.tags = append(slices.Clip(e.tags), tag)
	return e
}

// Route selects the sending route.
func (e Email) Route(name string) Email {
	e.route = name
	return e
}

// IdempotencyKey sets the key sent in the Idempotency-Key header. The API
// processes requests with the same key once, which makes retries safe.
func (e Email) IdempotencyKey(key string) Email {
	e.idempotencyKey = key
	return e
}

// Err returns the first invalid input given to the builder.
func (e Email) Err() error {
	return e.err
}

// Validate reports the builder error, if any, and then checks required
// fields: sender, at least one recipient, html or text content.
func (e Email) Validate() error {
	switch {
	case e.err != nil:
		return e.err
	case e.from.IsZero():
		return validationError(CodeMissingSender, "from address is required", nil)
	case len(e.to) == 0:
		return validationError(CodeMissingRecipient, "at least one recipient is required", nil)
	case e.html == nil && e.text == nil:
		return validationError(CodeMissingContent, "html or text content is required", nil)
	}
	return nil
}

// Message returns a copy of the request contents.
func (e Email) Message() Message {
	m := Message{
		From:           e.from,
		To:             slices.Clone(e.to),
		Cc:             slices.Clone(e.cc),
		Bcc:            slices.Clone(e.bcc),
		ReplyTo:        e.replyTo,
		Subject:        e.subject,
		Attachments:    slices.Clone(e.attachments),
		Headers:        maps.Clone(e.headers),
		Metadata:       maps.Clone(e.metadata),
		Tags:           slices.Clone(e.tags),
		Route:          e.route,
		IdempotencyKey: e.idempotencyKey,
	}
	if e.html != nil {
		m.HTML = *e.html
	}
	if e.text != nil {
		m.Text = *e.text
	}
	return m
}

// MarshalJSON renders the send request body. Addresses are written in
// canonical form; the idempotency key travels as a header and is not part
// of the body.
func (e Email) MarshalJSON() ([]byte, error) {
	w := wireEmail{
		To:          addressStrings(e.to),
		Cc:          addressStrings(e.cc),
		Bcc:         addressStrings(e.bcc),
		Subject:     e.subject,
		HTML:        e.html,
		Text:        e.text,
		Headers:     e.headers,
		Metadata:    e.metadata,
		Tags:        e.tags,
		Route:       e.route,
		Attachments: e.attachments,
	}
	if n := len(e.tags); n > 0 {
		w.Tag = e.tags[n-1]
	}
	if !e.from.IsZero() {
		w.From = e.from.String()
	}
	if !e.replyTo.IsZero() {
		w.ReplyTo = []string{e.replyTo.String()}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (e Email) fail(err error) Email {
	if e.err == nil {
		e.err = err
	}
	return e
}

// Message is a plain snapshot of an Email.
type Message struct {
	From           address.Address
	To             []address.Address
	Cc             []address.Address
	Bcc            []address.Address
	ReplyTo        address.Address
	Subject        string
	HTML           string
	Text           string
	Attachments    []Attachment
	Headers        map[string]string
	Metadata       map[string]string
	Tags           []string
	Route          string
	IdempotencyKey string
}

// wireEmail is the JSON body of POST /v1/send.
type wireEmail struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Cc          []string          `json:"cc,omitempty"`
	Bcc         []string          `json:"bcc,omitempty"`
	ReplyTo     []string          `json:"reply_to,omitempty"`
	Subject     string            `json:"subject"`
	HTML        *string           `json:"html,omitempty"`
	Text        *string           `json:"text,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Tag         string            `json:"tag,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Route       string            `json:"route,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`
}

// message converts a decoded body back into a Message.
func (w wireEmail) message() (Message, error) {
	m := Message{
		Subject:     w.Subject,
		Attachments: w.Attachments,
		Headers:     w.Headers,
		Metadata:    w.Metadata,
		Tags:        w.Tags,
		Route:       w.Route,
	}
	if len(m.Tags) == 0 && w.Tag != "" {
		m.Tags = []string{w.Tag}
	}
	var err error
	if m.From, err = address.Parse(w.From); err != nil {
		return Message{}, err
	}
	if m.To, err = address.ParseList(w.To...); err != nil {
		return Message{}, err
	}
	if m.Cc, err = address.ParseList(w.Cc...); err != nil {
		return Message{}, err
	}
	if m.Bcc, err = address.ParseList(w.Bcc...); err != nil {
		return Message{}, err
	}
	if len(w.ReplyTo) > 0 {
		if m.ReplyTo, err = address.Parse(w.ReplyTo[0]); err != nil {
			return Message{}, err
		}
	}
	if w.HTML != nil {
		m.HTML = *w.HTML
	}
	if w.Text != nil {
		m.Text = *w.Text
	}
	return m, nil
}

func parseRecipients(field string, raw []string) ([]address.Address, error) {
	list, err := address.ParseList(raw...)
	if err != nil {
		return nil, validationError(CodeInvalidAddress, "invalid "+field+" address", err)
	}
	return list, nil
}

func addressStrings(list []address.Address) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.String()
	}
	return out
}

func merge(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]string, len(dst)+len(src))
	maps.Copy(out, dst)
	maps.Copy(out, src)
	return out
}
