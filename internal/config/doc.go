// Package config loads lumafetch settings from a sandboxed Lua file.
//
// A configuration file assigns a single global table:
//
//	lumafetch = {
//	  fetch = {
//	    user_agent = "lumafetch/1.0",
//	    max_redirects = 10,
//	    max_size_mb = 256,
//	    timeout_seconds = 300,
//	  },
//	  payload = {
//	    path = "/boot.firm",
//	    marker = "Luma3DS v",
//	  },
//	  sources = {
//	    stable = "https://example.org/luma/stable/boot.firm",
//	    hourly = "https://example.org/luma/hourly/boot.firm",
//	  },
//	  verify = {
//	    require_digest = false,
//	    keyring = "/etc/lumafetch/release.asc",
//	  },
//	}
//
// Every section and field is optional; missing values keep the result of
// Default. Fields holding a value of the wrong Lua type are ignored with a
// warning.
//
// # Sandbox
//
// The file runs in a gopher-lua state opened with only the base, string,
// table and math libraries. File, process and module loading functions are
// removed, the call stack is capped and execution stops when the context is
// done. ParseString applies DefaultParseTimeout when the context carries no
// deadline.
//
// # Errors
//
// Lua failures are reported as *ParseError and rejected values as
// *ValidationError. FormatError renders either for a terminal.
package config
