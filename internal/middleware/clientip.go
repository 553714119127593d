package middleware

import (
	"net"
	"net/http"
	"strings"
)

// IPResolver finds the client address of a request. X-Forwarded-For is read
// only when the peer is a trusted proxy, walking the chain from the right
// to the first address that is not a proxy. A nil or empty resolver always
// returns the peer address.
type IPResolver struct {
	trusted []*net.IPNet
}

// NewIPResolver accepts CIDRs or single addresses. Entries that parse as
// neither are skipped.
func NewIPResolver(proxies []string) *IPResolver {
	nets := make([]*net.IPNet, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if _, n, err := net.ParseCIDR(p); err == nil {
			nets = append(nets, n)
			continue
		}
		ip := net.ParseIP(p)
		if ip == nil {
			continue
		}
		bits := 128
		if ip.To4() != nil {
			ip, bits = ip.To4(), 32
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return &IPResolver{trusted: nets}
}

// ClientIP returns the address requests from r are counted under.
func (res *IPResolver) ClientIP(r *http.Request) string {
	peer := peerIP(r)
	if res == nil || len(res.trusted) == 0 || !res.isTrusted(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !res.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (res *IPResolver) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range res.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
