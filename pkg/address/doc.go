// Package address parses and formats RFC 5322 mailbox specifications.
//
// Two shapes are accepted:
//
//	user@example.com
//	Jane Doe <jane@example.com>
//	"Doe, Jane" <jane@example.com>
//
// Parsing is purely syntactic. No DNS lookups or deliverability checks are
// performed. Encoded words (RFC 2047) in display names are decoded and
// names are normalized to Unicode NFC so that the same mailbox always
// formats to the same string.
//
// # Usage
//
//	addr, err := address.Parse("Jane Doe <jane@example.com>")
//	if err != nil {
//	    // errors.Is(err, address.ErrInvalidAddress)
//	}
//	fmt.Println(addr.Name)     // Jane Doe
//	fmt.Println(addr.Addr)     // jane@example.com
//	fmt.Println(addr.String()) // Jane Doe <jane@example.com>
//
// # Error Handling
//
// All parse failures wrap ErrInvalidAddress and can be inspected with
// errors.As to obtain a *ParseError carrying the input and the reason.
package address
