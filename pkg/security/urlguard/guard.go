// Package urlguard decides whether the agent may navigate to an address.
// Only public http and https destinations are allowed; script, file and
// data schemes are refused outright, and hosts that resolve to loopback,
// link-local or private ranges are refused so a model-driven navigation
// cannot reach internal infrastructure.
package urlguard

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnsafe is matched by every rejection.
var ErrUnsafe = errors.New("unsafe url")

// blockedSchemes are refused before any parsing takes place.
var blockedSchemes = []string{
	"javascript:",
	"data:",
	"file:",
	"ftp:",
	"about:",
	"blob:",
	"vbscript:",
	"chrome:",
	"view-source:",
}

// allowedSchemes is the final authority once the block list has passed.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// RejectionError explains why an address was refused.
type RejectionError struct {
	Address string
	Reason  string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("refusing to navigate to %s: %s", e.Address, e.Reason)
}

// Unwrap lets callers match ErrUnsafe with errors.Is.
func (e *RejectionError) Unwrap() error {
	return ErrUnsafe
}

// IsSafe reports whether address may be visited. An address without a
// scheme is safe because Normalize will prefix https.
func IsSafe(address string) bool {
	return Inspect(address) == nil
}

// Inspect is IsSafe with the reason attached.
func Inspect(address string) error {
	lower := strings.ToLower(strings.TrimSpace(address))

	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return &RejectionError{Address: address, Reason: fmt.Sprintf("%s URLs are not allowed", strings.TrimSuffix(scheme, ":"))}
		}
	}

	if !strings.Contains(lower, "://") {
		return nil
	}

	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return &RejectionError{Address: address, Reason: "address could not be parsed"}
	}

	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return &RejectionError{Address: address, Reason: "only http:// and https:// protocols are allowed"}
	}

	if reason := internalHost(u.Hostname()); reason != "" {
		return &RejectionError{Address: address, Reason: reason}
	}

	return nil
}

// internalHost returns a reason when host names this machine or a private
// network, and "" otherwise. Hostnames are not resolved.
func internalHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return "address has no host"
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return "loopback hosts are not allowed"
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		var ok bool
		if addr, ok = parseLooseIPv4(host); !ok {
			return ""
		}
	}
	addr = addr.Unmap()

	switch {
	case addr.IsLoopback():
		return "loopback addresses are not allowed"
	case addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast():
		return "link-local addresses are not allowed"
	case addr.IsPrivate():
		return "private network addresses are not allowed"
	case addr.IsUnspecified():
		return "unspecified addresses are not allowed"
	}
	return ""
}

// parseLooseIPv4 reads the IPv4 spellings browsers accept but netip does
// not: a single 32-bit number ("2130706433"), shortened dotted forms
// ("127.1") and hex or octal parts ("0x7f.0.0.1", "0177.0.0.1").
func parseLooseIPv4(host string) (netip.Addr, bool) {
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return netip.Addr{}, false
	}

	var value uint64
	for i, part := range parts {
		if part == "" {
			return netip.Addr{}, false
		}
		n, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return netip.Addr{}, false
		}
		if i < len(parts)-1 {
			if n > 0xff {
				return netip.Addr{}, false
			}
			value = value<<8 | n
			continue
		}
		// The last part fills every byte the earlier parts left.
		rest := uint(4 - i)
		if n >= 1<<(8*rest) {
			return netip.Addr{}, false
		}
		value = value<<(8*rest) | n
	}

	return netip.AddrFrom4([4]byte{byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value)}), true
}

// Normalize prefixes https:// when the address carries no scheme.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	lower := strings.ToLower(address)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return address
	}
	return "https://" + address
}
