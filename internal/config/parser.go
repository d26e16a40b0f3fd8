package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/logging"
)

// Parser turns a Lua configuration file into a Config. A Parser holds no
// per-parse state and is safe for concurrent use.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a config parser.
func NewParser() *Parser {
	return &Parser{logger: logging.Nop()}
}

// WithLogger sets the logger for the parser and returns it.
func (p *Parser) WithLogger(logger logging.Logger) *Parser {
	p.logger = logging.OrNop(logger)
	return p
}

// ParseFile reads and parses the configuration file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	// #nosec G304 -- path is chosen by the user running the command
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	p.logger.Debug("parsing config file", "path", path, "size", len(content))
	return p.ParseString(ctx, string(content))
}

// ParseString parses Lua configuration code. Values not set by the code keep
// their Default.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	for _, finding := range DetectSensitiveData(luaCode) {
		p.logger.Warn("possible credential in config", "kind", finding.PatternName, "line", finding.Line, "preview", finding.Preview)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation stopped", Detail: ctxErr.Error(), Err: ctxErr}
		}
		return nil, &ParseError{Message: "Lua error", Detail: err.Error(), Err: err}
	}

	cfg, err := p.extractConfig(L)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// extractConfig reads the global lumafetch table over a Default config.
func (p *Parser) extractConfig(L *lua.LState) (*Config, error) {
	global := L.GetGlobal(luaGlobal)
	root, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", luaGlobal),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	cfg := Default()

	if t := p.section(root, luaSectionFetch); t != nil {
		p.readString(t, luaSectionFetch, luaFieldUserAgent, &cfg.Fetch.UserAgent)
		if err := p.readInt(t, luaSectionFetch, luaFieldMaxRedirects, &cfg.Fetch.MaxRedirects); err != nil {
			return nil, err
		}
		if err := p.readInt(t, luaSectionFetch, luaFieldMaxSizeMB, &cfg.Fetch.MaxSizeMB); err != nil {
			return nil, err
		}
		if err := p.readInt(t, luaSectionFetch, luaFieldTimeoutSeconds, &cfg.Fetch.TimeoutSeconds); err != nil {
			return nil, err
		}
	}

	if t := p.section(root, luaSectionPayload); t != nil {
		p.readString(t, luaSectionPayload, luaFieldPath, &cfg.Payload.Path)
		p.readString(t, luaSectionPayload, luaFieldMarker, &cfg.Payload.Marker)
	}

	if t := p.section(root, luaSectionSources); t != nil {
		p.readString(t, luaSectionSources, luaFieldStable, &cfg.Sources.Stable)
		p.readString(t, luaSectionSources, luaFieldHourly, &cfg.Sources.Hourly)
	}

	if t := p.section(root, luaSectionVerify); t != nil {
		p.readBool(t, luaSectionVerify, luaFieldRequireDigest, &cfg.Verify.RequireDigest)
		p.readString(t, luaSectionVerify, luaFieldKeyring, &cfg.Verify.Keyring)
	}

	return cfg, nil
}

func (p *Parser) section(root *lua.LTable, name string) *lua.LTable {
	value := root.RawGetString(name)
	switch v := value.(type) {
	case *lua.LTable:
		return v
	case *lua.LNilType:
		return nil
	default:
		p.logger.Warn("ignoring config section of wrong type", "section", name, "type", value.Type().String())
		return nil
	}
}

func (p *Parser) readString(t *lua.LTable, section, field string, dst *string) {
	value := t.RawGetString(field)
	switch v := value.(type) {
	case lua.LString:
		*dst = string(v)
	case *lua.LNilType:
	default:
		p.wrongType(section, field, "string", value)
	}
}

func (p *Parser) readBool(t *lua.LTable, section, field string, dst *bool) {
	value := t.RawGetString(field)
	switch v := value.(type) {
	case lua.LBool:
		*dst = bool(v)
	case *lua.LNilType:
	default:
		p.wrongType(section, field, "boolean", value)
	}
}

// readInt accepts only numbers without a fractional part.
func (p *Parser) readInt(t *lua.LTable, section, field string, dst *int) error {
	value := t.RawGetString(field)
	switch v := value.(type) {
	case lua.LNumber:
		n := int(v)
		if lua.LNumber(n) != v {
			return &ValidationError{
				Field:   section + "." + field,
				Message: fmt.Sprintf("must be a whole number (got %s)", v.String()),
			}
		}
		*dst = n
	case *lua.LNilType:
	default:
		p.wrongType(section, field, "number", value)
	}
	return nil
}

func (p *Parser) wrongType(section, field, want string, got lua.LValue) {
	p.logger.Warn("ignoring config field of wrong type",
		"field", section+"."+field,
		"want", want,
		"got", got.Type().String())
}

// FormatError formats a config error for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	return err.Error()
}
