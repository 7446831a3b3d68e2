package gateway

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultCDNHosts, []string{"api.snipai.dev", "groq.com"})

	tests := []struct {
		name string
		url  string
		want Partition
	}{
		{"monaco cdn", "https://cdnjs.cloudflare.com/ajax/libs/monaco-editor/0.44.0/min/vs/loader.js", PartitionCDN},
		{"fonts", "https://fonts.gstatic.com/s/firacode/v21/x.woff2", PartitionCDN},
		{"doc store", "https://api.snipai.dev/v1/databases/snipai/collections/snippets/documents", PartitionLive},
		{"ai endpoint subdomain", "https://api.groq.com/openai/v1/chat/completions", PartitionLive},
		{"own shell", "https://snipai.dev/index.html", PartitionShell},
		{"own script", "https://snipai.dev/app.js", PartitionShell},
		{"unknown host", "https://example.com/whatever", PartitionShell},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.Classify(mustURL(t, tc.url)))
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(DefaultCDNHosts, []string{"api.snipai.dev"})
	u := mustURL(t, "https://cdn.jsdelivr.net/npm/appwrite@16/src/index.js")

	first := c.Classify(u)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, c.Classify(u), "same URL must always route to the same partition")
	}
}

func TestLiveHostsFromEndpoints(t *testing.T) {
	hosts := LiveHostsFromEndpoints("https://api.snipai.dev/v1", "https://api.groq.com", "%%%")
	require.Equal(t, []string{"api.snipai.dev", "api.groq.com"}, hosts)
}
