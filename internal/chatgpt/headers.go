package chatgpt

import "net/http"

const (
	HostURL   = "https://chat.openai.com"
	ChatPage  = HostURL + "/chat"
	UserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Mobile/15E148 Safari/604.1"

	// RequestedWith identifies this client in x-requested-with.
	RequestedWith = "com.chatgpt3auth"
)

// HeaderField is a single lowercase header name and its value.
type HeaderField struct {
	Name  string
	Value string
}

// HeaderSet is an ordered list of request headers.
type HeaderSet []HeaderField

// Headers returns the headers for a /backend-api/conversation call.
// accessToken is used as the authorization value verbatim; callers add the
// "Bearer " prefix themselves.
func Headers(accessToken string) HeaderSet {
	return HeaderSet{
		{"accept", "application/json"},
		{"x-openai-assistant-app-id", ""},
		{"authorization", accessToken},
		{"content-type", "application/json"},
		{"origin", HostURL},
		{"referrer", ChatPage},
		{"sec-fetch-mode", "cors"},
		{"sec-fetch-site", "same-origin"},
		{"x-requested-with", RequestedWith},
		{"user-agent", UserAgent},
	}
}

func (s HeaderSet) Len() int { return len(s) }

// Get returns the value for name and whether it is present. Names are
// matched exactly.
func (s HeaderSet) Get(name string) (string, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (s HeaderSet) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

func (s HeaderSet) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, f := range s {
		m[f.Name] = f.Value
	}
	return m
}

// Apply sets every field on h, replacing existing values. Names are written
// as-is, bypassing canonicalization.
func (s HeaderSet) Apply(h http.Header) {
	for _, f := range s {
		h[f.Name] = []string{f.Value}
	}
}
