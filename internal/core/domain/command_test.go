package domain

import (
	"errors"
	"testing"
)

func TestNewCommand(t *testing.T) {
	cmd, err := NewCommand("set", "k", "", "-1")
	if err != nil {
		t.Fatalf("NewCommand failed: %v", err)
	}
	if len(cmd) != 4 {
		t.Fatalf("len = %d, want 4", len(cmd))
	}
	if cmd.Name() != "SET" {
		t.Errorf("Name() = %q, want %q", cmd.Name(), "SET")
	}
	want := []string{"set", "k", "", "-1"}
	for i, s := range cmd.Strings() {
		if s != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, s, want[i])
		}
	}
	if len(cmd.Args()) != 3 {
		t.Errorf("Args() len = %d, want 3", len(cmd.Args()))
	}
}

func TestNewCommand_Empty(t *testing.T) {
	_, err := NewCommand()
	if !errors.Is(err, ErrUsage) {
		t.Errorf("NewCommand() error = %v, want usage error", err)
	}
}

func TestCommand_NoArgs(t *testing.T) {
	cmd, _ := NewCommand("PING")
	if cmd.Args() != nil {
		t.Errorf("Args() = %v, want nil", cmd.Args())
	}
	var empty Command
	if empty.Name() != "" {
		t.Errorf("Name() of empty command = %q", empty.Name())
	}
}
