package cli

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("SWEEP_CONFIG_DIR", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	output, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"sweep", "Usage:", "--dry-run", "--min-size", "CLI & Tooling:", "sweep ./version"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	output, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", output)
	}

	output, _, err = execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(output) != "1.2.3" {
		t.Errorf("version command = %q", output)
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	_, _, err := execute(t, "a", "b")
	if err == nil {
		t.Error("expected error for two positional arguments")
	}
}

func TestRootCommand_InvalidFlag(t *testing.T) {
	_, _, err := execute(t, "--min-size", "huge", t.TempDir())
	if err == nil {
		t.Error("expected error for an unparsable size")
	}
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "1.2.3"}, // Should not change if empty
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if rootCmd.Version != tt.want {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{"version", "completion"}

	cmd := newRootCmd()
	for _, name := range subcommands {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			if err != nil {
				t.Errorf("Find(%q) error = %v", name, err)
			}
			if subCmd == nil || subCmd.Name() != name {
				t.Errorf("Find(%q) returned %v", name, subCmd)
			}
		})
	}
}

func TestRootCommand_Completion(t *testing.T) {
	output, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "sweep") {
		t.Error("expected bash completion to mention sweep")
	}
}
