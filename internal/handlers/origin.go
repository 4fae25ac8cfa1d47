package handlers

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// LocalHosts lists the Host header values a local server on port answers
// to: the loopback names plus bind, when bind is a specific address.
func LocalHosts(bind string, port int) []string {
	p := strconv.Itoa(port)
	hosts := []string{
		net.JoinHostPort("localhost", p),
		net.JoinHostPort("127.0.0.1", p),
		net.JoinHostPort("::1", p),
	}
	switch bind {
	case "", "0.0.0.0", "::", "localhost", "127.0.0.1", "::1":
	default:
		hosts = append(hosts, net.JoinHostPort(bind, p))
	}
	return hosts
}

// hostGuard admits requests addressed to an allowed host from a page on
// that same host. Checking Host defeats DNS rebinding, where a foreign page
// reaches the loopback server under its own name.
type hostGuard struct {
	hosts map[string]bool
}

func newHostGuard(hosts []string) *hostGuard {
	g := &hostGuard{hosts: make(map[string]bool, len(hosts))}
	for _, h := range hosts {
		g.hosts[strings.ToLower(h)] = true
	}
	return g
}

func (g *hostGuard) allow(r *http.Request) bool {
	return g.hosts[strings.ToLower(r.Host)] && sameOrigin(r)
}

// sameOrigin reports whether r came from a page served by this host. Requests
// without an Origin header (curl, same-origin GETs) are allowed.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
