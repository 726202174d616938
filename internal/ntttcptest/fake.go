// Package ntttcptest provides a scriptable stand-in for the ntttcp executable.
package ntttcptest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const DefaultTotals = "#####  Totals:  #####\n\n"

// Behavior describes how the fake tool acts in one role
type Behavior struct {
	Stdout string
	Stderr string
	Exit   int
	// Sleep keeps the process running for the given number of seconds
	Sleep int
}

type Tool struct {
	Path    string
	callLog string
}

// New writes a fake ntttcp shell script into a temporary directory
func New(t testing.TB, receiver, sender Behavior) *Tool {
	t.Helper()
	dir := t.TempDir()
	tool := &Tool{
		Path:    filepath.Join(dir, "ntttcp"),
		callLog: filepath.Join(dir, "calls.log"),
	}
	b := new(strings.Builder)
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(b, "echo \"$*\" >> %q\n", tool.callLog)
	b.WriteString("case \"$1\" in\n")
	writeCase(b, "-r", receiver)
	writeCase(b, "-s", sender)
	b.WriteString("esac\n")
	b.WriteString("exit 64\n")
	if err := os.WriteFile(tool.Path, []byte(b.String()), 0o755); err != nil {
		t.Fatal(err)
	}
	return tool
}

// Report renders a minimal report with the given totals text
func Report(name, totals string) string {
	return name + " per-thread results\n" + DefaultTotals + totals
}

// Calls returns the argument lines the tool was invoked with, in order
func (tool *Tool) Calls(t testing.TB) []string {
	t.Helper()
	b, err := os.ReadFile(tool.callLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func writeCase(b *strings.Builder, flag string, behavior Behavior) {
	fmt.Fprintf(b, "%s)\n", flag)
	if behavior.Stdout != "" {
		fmt.Fprintf(b, "cat <<'__STDOUT__'\n%s\n__STDOUT__\n", behavior.Stdout)
	}
	if behavior.Stderr != "" {
		fmt.Fprintf(b, "cat >&2 <<'__STDERR__'\n%s\n__STDERR__\n", behavior.Stderr)
	}
	if behavior.Sleep > 0 {
		if behavior.Exit == 0 {
			fmt.Fprintf(b, "exec sleep %d\n", behavior.Sleep)
		} else {
			fmt.Fprintf(b, "sleep %d\n", behavior.Sleep)
		}
	}
	fmt.Fprintf(b, "exit %d\n;;\n", behavior.Exit)
}
