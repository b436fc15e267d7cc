package urlguard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Policy layers operator-configured domain rules on top of IsSafe. Deny
// patterns win over allow patterns, and an empty allow list admits every
// domain that is not denied. Patterns use glob syntax with '.' as the
// separator, so "*.example.com" matches "shop.example.com" but not
// "example.com".
type Policy struct {
	allowedPatterns []glob.Glob
	deniedPatterns  []glob.Glob
	allowedRaw      []string
}

// NewPolicy compiles the allow and deny patterns.
func NewPolicy(allowed, denied []string) (*Policy, error) {
	p := &Policy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid allowed domain pattern %q: %w", pattern, err)
		}
		p.allowedPatterns = append(p.allowedPatterns, g)
		p.allowedRaw = append(p.allowedRaw, pattern)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid denied domain pattern %q: %w", pattern, err)
		}
		p.deniedPatterns = append(p.deniedPatterns, g)
	}

	return p, nil
}

// Check runs Inspect on address and on its normalized form, then the domain
// rules. A bare "127.0.0.1/admin" passes IsSafe but not Check. A nil Policy
// only runs the Inspect passes.
func (p *Policy) Check(address string) error {
	if err := Inspect(address); err != nil {
		return err
	}
	if err := Inspect(Normalize(address)); err != nil {
		return err
	}
	if p == nil || (len(p.allowedPatterns) == 0 && len(p.deniedPatterns) == 0) {
		return nil
	}

	u, err := url.Parse(Normalize(address))
	if err != nil {
		return &RejectionError{Address: address, Reason: "address could not be parsed"}
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")

	for _, g := range p.deniedPatterns {
		if g.Match(host) {
			return &RejectionError{Address: address, Reason: fmt.Sprintf("domain %s is blocked by policy", host)}
		}
	}

	if len(p.allowedPatterns) == 0 {
		return nil
	}
	for _, g := range p.allowedPatterns {
		if g.Match(host) {
			return nil
		}
	}

	return &RejectionError{
		Address: address,
		Reason:  fmt.Sprintf("domain %s is not in the allowed list (%s)", host, strings.Join(p.allowedRaw, ", ")),
	}
}
