package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Generator renders a Config as Lua code that Parser reads back unchanged.
type Generator struct {
	indent string // Indentation string (default: two spaces)
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// Generate renders every field of config, including defaults, so the
// output documents the full schema.
func (g *Generator) Generate(config *Config) (string, error) {
	if config == nil {
		return "", fmt.Errorf("generate config: nil config")
	}

	var buf bytes.Buffer

	buf.WriteString("-- lumafetch configuration\n\n")
	buf.WriteString(luaGlobal)
	buf.WriteString(" = {\n")

	g.openSection(&buf, luaSectionFetch)
	g.writeString(&buf, luaFieldUserAgent, config.Fetch.UserAgent)
	g.writeInt(&buf, luaFieldMaxRedirects, config.Fetch.MaxRedirects)
	g.writeInt(&buf, luaFieldMaxSizeMB, config.Fetch.MaxSizeMB)
	g.writeInt(&buf, luaFieldTimeoutSeconds, config.Fetch.TimeoutSeconds)
	g.closeSection(&buf)

	g.openSection(&buf, luaSectionPayload)
	g.writeString(&buf, luaFieldPath, config.Payload.Path)
	g.writeString(&buf, luaFieldMarker, config.Payload.Marker)
	g.closeSection(&buf)

	g.openSection(&buf, luaSectionSources)
	g.writeOptionalString(&buf, luaFieldStable, config.Sources.Stable)
	g.writeOptionalString(&buf, luaFieldHourly, config.Sources.Hourly)
	g.closeSection(&buf)

	g.openSection(&buf, luaSectionVerify)
	g.writeBool(&buf, luaFieldRequireDigest, config.Verify.RequireDigest)
	g.writeOptionalString(&buf, luaFieldKeyring, config.Verify.Keyring)
	g.closeSection(&buf)

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) openSection(buf *bytes.Buffer, name string) {
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = {\n")
}

func (g *Generator) closeSection(buf *bytes.Buffer) {
	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

func (g *Generator) writeField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

func (g *Generator) writeString(buf *bytes.Buffer, name, value string) {
	g.writeField(buf, name, g.quoteLuaString(value))
}

// writeOptionalString writes an empty value as a commented-out field.
func (g *Generator) writeOptionalString(buf *bytes.Buffer, name, value string) {
	if value == "" {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("-- ")
		buf.WriteString(name)
		buf.WriteString(" = \"\",\n")
		return
	}
	g.writeString(buf, name, value)
}

func (g *Generator) writeInt(buf *bytes.Buffer, name string, value int) {
	g.writeField(buf, name, fmt.Sprintf("%d", value))
}

func (g *Generator) writeBool(buf *bytes.Buffer, name string, value bool) {
	g.writeField(buf, name, fmt.Sprintf("%t", value))
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
