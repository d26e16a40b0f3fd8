package config

import (
	"strings"
	"testing"
)

func TestNewSandboxedVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		// Safe operations that should work
		{
			name: "string operations allowed",
			code: `x = string.upper("hello")`,
		},
		{
			name: "string methods allowed",
			code: `x = ("hello"):rep(2)`,
		},
		{
			name: "table operations allowed",
			code: `t = {1, 2, 3}; table.insert(t, 4)`,
		},
		{
			name: "math operations allowed",
			code: `x = math.floor(256.7)`,
		},
		{
			name: "basic functions allowed",
			code: `x = type("hello"); y = tostring(123); z = tonumber("456")`,
		},
		{
			name: "pairs and ipairs allowed",
			code: `t = {a=1, b=2}; for k,v in pairs(t) do end; for i,v in ipairs({1}) do end`,
		},

		// Dangerous operations that should fail
		{
			name:    "os.execute blocked",
			code:    `os.execute("ls")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "os.getenv blocked",
			code:    `x = os.getenv("PATH")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.open blocked",
			code:    `f = io.open("/etc/passwd")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "require blocked",
			code:    `socket = require("socket")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "dofile blocked",
			code:    `dofile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadfile blocked",
			code:    `f = loadfile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "load blocked",
			code:    `f = load("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadstring blocked",
			code:    `f = loadstring("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "debug blocked",
			code:    `debug.getinfo(1)`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "package blocked",
			code:    `x = package.path`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "print blocked",
			code:    `print("noise")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("DoString(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
				return
			}

			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.errMsg)
			}
		})
	}
}

func TestNewSandboxedVM_Isolated(t *testing.T) {
	first := newSandboxedVM()
	defer first.Close()
	if err := first.DoString(`leaked = "yes"`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	second := newSandboxedVM()
	defer second.Close()
	if v := second.GetGlobal("leaked"); v.String() != "nil" {
		t.Errorf("global leaked between VMs: %v", v)
	}
}
