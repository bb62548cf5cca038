package address

import (
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

func init() {
	// Legacy charsets still show up in encoded display names.
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Address is a parsed mailbox: an optional display name and the
// local@domain address itself.
type Address struct {
	Name string
	Addr string
}

// New builds an Address from its parts and validates the result.
func New(name, addr string) (Address, error) {
	if name == "" {
		return Parse(addr)
	}
	return Parse(Address{Name: name, Addr: addr}.String())
}

// Parse parses a single mailbox in either bare or "Name <addr>" form.
func Parse(raw string) (Address, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Address{}, invalid(raw, "address is empty")
	}

	spec, err := addrSpec(s)
	if err != nil {
		return Address{}, invalid(raw, err.Error())
	}
	at := strings.LastIndexByte(spec, '@')
	switch {
	case at < 0:
		return Address{}, invalid(raw, "missing @ in address")
	case at == 0:
		return Address{}, invalid(raw, "missing local part")
	case at == len(spec)-1:
		return Address{}, invalid(raw, "missing domain")
	}

	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, invalid(raw, err.Error())
	}

	return Address{
		Name: norm.NFC.String(strings.TrimSpace(parsed.Name)),
		Addr: parsed.Address,
	}, nil
}

// MustParse is like Parse but panics on invalid input.
// Intended for package-level variables and tests.
func MustParse(raw string) Address {
	a, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseList parses every input in order and stops at the first failure.
func ParseList(raw ...string) ([]Address, error) {
	out := make([]Address, 0, len(raw))
	for _, r := range raw {
		a, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// String returns the canonical form: the bare address when there is no
// display name, otherwise "Name <addr>" with the name quoted if needed.
func (a Address) String() string {
	if a.Name == "" {
		return a.Addr
	}
	return formatName(a.Name) + " <" + a.Addr + ">"
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a.Addr == ""
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// addrSpec checks angle bracket and quote balance and returns the
// address portion of s: the text inside <...>, or s itself.
func addrSpec(s string) (string, error) {
	var (
		inQuote bool
		escaped bool
		open    = -1
		closed  = -1
	)
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '<':
			if open >= 0 {
				return "", errString("unbalanced angle brackets")
			}
			open = i
		case r == '>':
			if open < 0 || closed >= 0 {
				return "", errString("unbalanced angle brackets")
			}
			closed = i
		case closed >= 0 && r != ' ' && r != '\t':
			return "", errString("unexpected text after closing angle bracket")
		}
	}
	if inQuote {
		return "", errString("unterminated quoted display name")
	}
	if open >= 0 && closed < 0 {
		return "", errString("unbalanced angle brackets")
	}
	if open < 0 {
		return s, nil
	}
	return strings.TrimSpace(s[open+1 : closed]), nil
}

type errString string

func (e errString) Error() string { return string(e) }

// formatName quotes a display name unless it consists only of atext
// characters and inner spaces.
func formatName(name string) string {
	if !needsQuoting(name) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 2)
	b.WriteByte('"')
	for _, r := range name {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(name string) bool {
	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		return true
	}
	for _, r := range name {
		if r >= 0x80 || r == ' ' {
			continue
		}
		if !isAtext(r) {
			return true
		}
	}
	return false
}

func isAtext(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("!#$%&'*+-/=?^_`{|}~", r)
}
