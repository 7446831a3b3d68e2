// Package gateway implements the offline gateway: a versioned response cache
// and a partitioned transport that arbitrates between network and cache for
// every outbound request, plus the worker lifecycle (install, activate,
// message-driven activation override) and the HTTP surface in front of it.
package gateway

import (
	"net/url"
	"strings"
)

// Partition is the handling class assigned to an outbound request.
type Partition int

const (
	// PartitionShell is the first-party application shell (markup, styles,
	// scripts, manifest): network-first with cache fallback.
	PartitionShell Partition = iota
	// PartitionCDN is third-party static assets: cache-first, entries are
	// immutable per URL.
	PartitionCDN
	// PartitionLive is the document store and the AI endpoint: network-only,
	// never cached.
	PartitionLive
)

func (p Partition) String() string {
	switch p {
	case PartitionCDN:
		return "cdn"
	case PartitionLive:
		return "live"
	default:
		return "shell"
	}
}

// DefaultCDNHosts are the third-party origins serving the editor library and
// web fonts. Responses from these hosts never change for a given URL.
var DefaultCDNHosts = []string{
	"cdnjs.cloudflare.com",
	"cdn.jsdelivr.net",
	"fonts.googleapis.com",
	"fonts.gstatic.com",
}

// Classifier routes a request URL to its partition. Classification is a pure
// function of the host: CDN hosts match exactly, live hosts match by
// substring (so "appwrite.io" covers regional subdomains), everything else is
// the application shell.
type Classifier struct {
	cdnHosts  map[string]struct{}
	liveHosts []string
}

func NewClassifier(cdnHosts, liveHosts []string) *Classifier {
	c := &Classifier{
		cdnHosts:  make(map[string]struct{}, len(cdnHosts)),
		liveHosts: liveHosts,
	}
	for _, h := range cdnHosts {
		c.cdnHosts[h] = struct{}{}
	}
	return c
}

func (c *Classifier) Classify(u *url.URL) Partition {
	host := u.Hostname()
	if _, ok := c.cdnHosts[host]; ok {
		return PartitionCDN
	}
	for _, h := range c.liveHosts {
		if h != "" && strings.Contains(host, h) {
			return PartitionLive
		}
	}
	return PartitionShell
}

// LiveHostsFromEndpoints extracts hostnames from endpoint URLs, for building
// the live-data host list out of the configured collaborator endpoints.
func LiveHostsFromEndpoints(endpoints ...string) []string {
	hosts := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		u, err := url.Parse(e)
		if err != nil || u.Hostname() == "" {
			continue
		}
		hosts = append(hosts, u.Hostname())
	}
	return hosts
}
