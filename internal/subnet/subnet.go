package subnet

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

const (
	// Wildcard marks an octet position that expands to every value 1-255.
	Wildcard = "x"

	// MaxWildcards bounds expansion to 255^3 addresses.
	MaxWildcards = 3

	// MinPrefixBits is the widest CIDR prefix accepted (a /16 holds 65534 hosts).
	MinPrefixBits = 16
)

var (
	// ErrEmptyPattern is returned when no pattern is given.
	ErrEmptyPattern = errors.New("empty address pattern")

	// ErrTooManyWildcards is returned when a pattern would expand past MaxWildcards.
	ErrTooManyWildcards = fmt.Errorf("address pattern has more than %d wildcards", MaxWildcards)
)

// Expand turns an address pattern into the concrete addresses to probe.
//
// Each wildcard is substituted left to right: the first remaining wildcard
// is replaced with every value in 1..255, multiplying the list by 255, until
// none remain. A pattern without wildcards returns itself as the only
// element. Octet counts are not validated, so "1.2.3.4.x" expands to 255
// five-part strings, and surrounding whitespace is kept.
//
// A pattern containing "/" is parsed as an IPv4 CIDR prefix instead and
// expands to its host addresses.
func Expand(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if strings.Contains(pattern, "/") {
		return expandPrefix(pattern)
	}

	if strings.Count(pattern, Wildcard) > MaxWildcards {
		return nil, ErrTooManyWildcards
	}

	addrs := []string{pattern}
	for strings.Contains(addrs[0], Wildcard) {
		next := make([]string, 0, len(addrs)*255)
		for _, addr := range addrs {
			for octet := 1; octet <= 255; octet++ {
				next = append(next, strings.Replace(addr, Wildcard, strconv.Itoa(octet), 1))
			}
		}
		addrs = next
	}

	return addrs, nil
}

// expandPrefix lists the host addresses of an IPv4 prefix. Network and
// broadcast addresses are skipped for prefixes of /30 and wider.
func expandPrefix(pattern string) ([]string, error) {
	prefix, err := netip.ParsePrefix(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR pattern %q: %w", pattern, err)
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("invalid CIDR pattern %q: only IPv4 is supported", pattern)
	}
	if prefix.Bits() < MinPrefixBits {
		return nil, fmt.Errorf("invalid CIDR pattern %q: prefix wider than /%d", pattern, MinPrefixBits)
	}

	prefix = prefix.Masked()
	size := 1 << (32 - prefix.Bits())

	addrs := make([]string, 0, size)
	addr := prefix.Addr()
	for i := 0; i < size; i++ {
		addrs = append(addrs, addr.String())
		addr = addr.Next()
	}

	if prefix.Bits() <= 30 {
		addrs = addrs[1 : len(addrs)-1]
	}

	return addrs, nil
}

// Partition splits addrs into n contiguous chunks whose sizes differ by at
// most one. The first len(addrs)%n chunks carry the extra address, so every
// address lands in exactly one chunk.
func Partition(addrs []string, n int) ([][]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("chunk count must be positive, got %d", n)
	}
	if n > len(addrs) {
		return nil, fmt.Errorf("chunk count %d exceeds address count %d", n, len(addrs))
	}

	size := len(addrs) / n
	extra := len(addrs) % n

	chunks := make([][]string, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, addrs[start:end])
		start = end
	}

	return chunks, nil
}
