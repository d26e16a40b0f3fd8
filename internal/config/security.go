package config

import (
	"net/url"
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate a credential.
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "URL credentials",
		Pattern:     regexp.MustCompile(`https?://[^/\s:@"']+:[^/\s@"']+@`),
		Description: "URL with embedded username and password",
	},
	{
		Name:        "Query token",
		Pattern:     regexp.MustCompile(`(?i)[?&](token|access_token|api_key|apikey|key|sig|signature)=[^&\s"']{8,}`),
		Description: "URL query parameter that looks like a token",
	},
	{
		Name:        "GitHub token",
		Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
		Description: "GitHub access token",
	},
}

// sensitiveQueryKeys are query parameters masked by RedactURL.
var sensitiveQueryKeys = map[string]bool{
	"token":        true,
	"access_token": true,
	"api_key":      true,
	"apikey":       true,
	"key":          true,
	"sig":          true,
	"signature":    true,
}

// SensitiveDataFinding represents a detected credential.
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // Redacted preview of the line
}

// DetectSensitiveData scans configuration content for credentials that
// would end up in logs or in a shared config file.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Description: pattern.Description,
					Line:        lineNum + 1,
					Preview:     redactLine(line),
				})
			}
		}
	}

	return findings
}

// redactLine keeps the key of an assignment and hides the value.
func redactLine(line string) string {
	eqIdx := strings.Index(line, "=")
	if eqIdx == -1 {
		return "[REDACTED]"
	}
	return strings.TrimSpace(line[:eqIdx]) + " = [REDACTED]"
}

// RedactURL returns raw with its password and token-like query values
// masked, for use in logs and messages. Unparseable input is returned as a
// placeholder.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if sensitiveQueryKeys[strings.ToLower(k)] {
				q.Set(k, "REDACTED")
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.Redacted()
}
