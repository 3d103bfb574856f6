package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Label extracts a human-readable device display name from a User-Agent
// string, "Browser on OS" (e.g., "Chrome on Linux", "Safari on iOS"). Scans
// carry the label so operators can tell a kiosk from a phone in the history
// view without storing the raw header.
func Label(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}

	browser = strings.TrimSpace(browser)
	os = strings.TrimSpace(os)

	switch {
	case browser == "" && os == "":
		return "Unknown Device"
	case browser == "":
		return os
	case os == "":
		return browser
	}
	return browser + " on " + os
}
