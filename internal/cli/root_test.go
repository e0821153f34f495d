package cli

import (
	"io"
	"testing"
)

func TestRootCommand_Subcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"packages":   false,
		"graph":      false,
		"build":      false,
		"clean":      false,
		"tui":        false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Use(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	if !root.SilenceUsage {
		t.Error("SilenceUsage should be set")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
