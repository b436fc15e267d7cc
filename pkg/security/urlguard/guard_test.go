package urlguard

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafe(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "bare hostname", address: "example.com", want: true},
		{name: "bare hostname with path", address: "news.ycombinator.com/item?id=1", want: true},
		{name: "https", address: "https://example.com", want: true},
		{name: "http uppercase", address: "HTTP://Example.com/path", want: true},
		{name: "public ip", address: "https://93.184.216.34/", want: true},
		{name: "javascript", address: "javascript:alert(1)", want: false},
		{name: "javascript mixed case", address: "JaVaScRiPt:alert(1)", want: false},
		{name: "data", address: "data:text/html,<h1>x</h1>", want: false},
		{name: "file", address: "file:///etc/passwd", want: false},
		{name: "file uppercase", address: "FILE:///etc/passwd", want: false},
		{name: "ftp", address: "ftp://example.com", want: false},
		{name: "about", address: "about:blank", want: false},
		{name: "blob", address: "blob:https://example.com/uuid", want: false},
		{name: "vbscript", address: "VBScript:msgbox", want: false},
		{name: "unknown scheme", address: "gopher://example.com", want: false},
		{name: "localhost", address: "http://localhost:8080", want: false},
		{name: "localhost subdomain", address: "http://api.localhost/", want: false},
		{name: "loopback v4", address: "http://127.0.0.1/admin", want: false},
		{name: "loopback v6", address: "http://[::1]/", want: false},
		{name: "private 10/8", address: "https://10.0.0.5", want: false},
		{name: "private 192.168/16", address: "http://192.168.1.1", want: false},
		{name: "private 172.16/12", address: "http://172.20.0.1", want: false},
		{name: "link local metadata", address: "http://169.254.169.254/latest/meta-data", want: false},
		{name: "v4 mapped loopback", address: "http://[::ffff:127.0.0.1]/", want: false},
		{name: "unspecified", address: "http://0.0.0.0/", want: false},
		{name: "missing host", address: "https:///path", want: false},
		{name: "decimal loopback", address: "http://2130706433/", want: false},
		{name: "short loopback", address: "http://127.1/", want: false},
		{name: "hex loopback", address: "http://0x7f.0.0.1/", want: false},
		{name: "octal private", address: "http://012.0.0.1/", want: false},
		{name: "decimal public", address: "http://1572395042/", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafe(tt.address))
		})
	}
}

func TestBlockedSchemesAnyCase(t *testing.T) {
	for _, scheme := range blockedSchemes {
		for _, variant := range []string{scheme, strings.ToUpper(scheme), strings.ToUpper(scheme[:1]) + scheme[1:]} {
			assert.False(t, IsSafe(variant+"payload"), variant)
		}
	}
}

func TestInspectReturnsRejectionError(t *testing.T) {
	err := Inspect("file:///etc/hosts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafe))

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "file:///etc/hosts", rej.Address)
	assert.Contains(t, rej.Reason, "file")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "https://example.com", Normalize("example.com"))
	assert.Equal(t, "https://example.com", Normalize("  example.com "))
	assert.Equal(t, "http://example.com", Normalize("http://example.com"))
	assert.Equal(t, "HTTPS://example.com", Normalize("HTTPS://example.com"))
}

func TestPolicy(t *testing.T) {
	p, err := NewPolicy([]string{"example.com", "*.example.com", "*.wikipedia.org"}, []string{"admin.example.com"})
	require.NoError(t, err)

	tests := []struct {
		address string
		wantErr bool
	}{
		{address: "example.com"},
		{address: "https://shop.example.com/cart"},
		{address: "https://en.wikipedia.org/wiki/Go"},
		{address: "https://admin.example.com", wantErr: true},
		{address: "https://evil.com", wantErr: true},
		{address: "https://a.b.example.com", wantErr: true},
		{address: "http://127.0.0.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := p.Check(tt.address)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafe)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInspectsNormalizedAddress(t *testing.T) {
	// Bare addresses are safe to IsSafe because the scheme is added later.
	assert.True(t, IsSafe("127.0.0.1/admin"))

	var p *Policy
	for _, address := range []string{
		"127.0.0.1/admin",
		"localhost:8080/admin",
		"169.254.169.254/latest/meta-data",
		"10.0.0.1",
		"127.1",
		"2130706433/",
	} {
		t.Run(address, func(t *testing.T) {
			assert.ErrorIs(t, p.Check(address), ErrUnsafe)
		})
	}

	assert.NoError(t, p.Check("example.org/docs"))
}

func TestNilPolicyOnlyInspects(t *testing.T) {
	var p *Policy
	assert.NoError(t, p.Check("example.org"))
	assert.Error(t, p.Check("javascript:void(0)"))
}

func TestNewPolicyRejectsBadPattern(t *testing.T) {
	_, err := NewPolicy([]string{"[unclosed"}, nil)
	assert.Error(t, err)
}
