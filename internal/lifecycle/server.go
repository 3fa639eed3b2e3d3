package lifecycle

import "strings"

// UnknownServer is the sentinel canonical name produced when a
// worker name matches none of the declared system tokens.
const UnknownServer = "Unknown Server"

type serverEntry struct {
	token     string
	canonical string
}

// ServerResolver derives the canonical server name owning a worker.
// Tokens are matched case-insensitively as substrings of the worker
// name, in declaration order; the first match wins.
type ServerResolver struct {
	entries []serverEntry
}

// NewServerResolver builds a resolver from ordered "token=canonical"
// pairs, e.g. ["sp1=SP1", "sp2=SP2"]. A pair without '=' uses the
// value as token and its upper-cased form as canonical name.
func NewServerResolver(pairs []string) *ServerResolver {
	r := &ServerResolver{}

	for _, pair := range pairs {
		token, canonical, ok := strings.Cut(pair, "=")
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !ok || strings.TrimSpace(canonical) == "" {
			canonical = strings.ToUpper(token)
		}
		r.entries = append(r.entries, serverEntry{
			token:     strings.ToLower(token),
			canonical: strings.TrimSpace(canonical),
		})
	}

	return r
}

// Resolve maps a worker name onto its canonical server name. The
// function is total: an empty worker name yields an empty server
// name, an unmatched one yields UnknownServer.
func (r *ServerResolver) Resolve(workerName string) string {
	if workerName == "" {
		return ""
	}

	needle := strings.ToLower(workerName)
	for _, entry := range r.entries {
		if strings.Contains(needle, entry.token) {
			return entry.canonical
		}
	}

	return UnknownServer
}
