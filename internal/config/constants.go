package config

import "time"

// Lua schema names.
const (
	luaGlobal = "lumafetch"

	luaSectionFetch   = "fetch"
	luaSectionPayload = "payload"
	luaSectionSources = "sources"
	luaSectionVerify  = "verify"

	luaFieldUserAgent      = "user_agent"
	luaFieldMaxRedirects   = "max_redirects"
	luaFieldMaxSizeMB      = "max_size_mb"
	luaFieldTimeoutSeconds = "timeout_seconds"
	luaFieldPath           = "path"
	luaFieldMarker         = "marker"
	luaFieldStable         = "stable"
	luaFieldHourly         = "hourly"
	luaFieldRequireDigest  = "require_digest"
	luaFieldKeyring        = "keyring"
)

// Source names accepted by Config.ResolveSource.
const (
	SourceStable = "stable"
	SourceHourly = "hourly"
)

const (
	// MaxConfigSize bounds the size of a configuration file.
	MaxConfigSize = 1 << 20

	// DefaultParseTimeout applies when the parse context has no deadline.
	DefaultParseTimeout = 5 * time.Second

	// MaxRedirectLimit bounds fetch.max_redirects.
	MaxRedirectLimit = 50

	// MaxSizeLimitMB bounds fetch.max_size_mb.
	MaxSizeLimitMB = 4096

	// MaxUserAgentLength bounds fetch.user_agent.
	MaxUserAgentLength = 256

	luaCallStackSize = 256
	luaRegistrySize  = 8 * 1024
)
