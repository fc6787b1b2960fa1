package browser

// Common desktop user agent strings.
const (
	UserAgentFirefox35 = "Mozilla/5.0 (Windows NT 6.1; WOW64; rv:35.0) Gecko/20100101 Firefox/35.0"
	UserAgentFirefox   = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	UserAgentChrome    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	UserAgentSafari    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"
)

var userAgents = map[string]string{
	"firefox35": UserAgentFirefox35,
	"firefox":   UserAgentFirefox,
	"chrome":    UserAgentChrome,
	"safari":    UserAgentSafari,
}

// LookupUserAgent expands a short browser name ("firefox", "chrome", ...)
// to its user agent string. Unknown names are returned unchanged so a
// literal user agent can be passed through.
func LookupUserAgent(name string) string {
	if ua, ok := userAgents[name]; ok {
		return ua
	}
	return name
}
