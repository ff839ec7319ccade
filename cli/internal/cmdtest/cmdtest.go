// Package cmdtest provides helpers for testing cobra commands.
package cmdtest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Error expects cmd to fail with an error that unwraps to want. Error returns
// the command output but does not validate the output.
func Error(t *testing.T, cmd *cobra.Command, args []string, want error) string {
	t.Helper()

	out, err := execute(cmd, args)
	if !errors.Is(err, want) {
		t.Fatalf("Command should fail with %q; got %q", want, err)
	}

	return out
}

// ErrorContains expects cmd to fail with an error whose message contains
// substr. ErrorContains returns the command output.
func ErrorContains(t *testing.T, cmd *cobra.Command, args []string, substr string) string {
	t.Helper()

	out, err := execute(cmd, args)
	if err == nil {
		t.Fatalf("Command should fail with an error containing %q", substr)
	}

	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("Command error should contain %q; got %q", substr, err)
	}

	return out
}

// Output expects cmd to succeed and to output fmt.Sprint(want). Output returns
// the actual output.
func Output(t *testing.T, cmd *cobra.Command, args []string, want interface{}) string {
	t.Helper()

	result, err := execute(cmd, args)
	if err != nil {
		t.Fatalf("Command failed with %q", err)
	}

	wantStr := fmt.Sprint(want)
	if result != wantStr {
		t.Fatalf("Command has wrong output.\n\nwant:\n%v\n\ngot:\n%v\n", wantStr, result)
	}

	return result
}

// OutputContains expects cmd to succeed and its output to contain substr.
func OutputContains(t *testing.T, cmd *cobra.Command, args []string, substr string) string {
	t.Helper()

	result, err := execute(cmd, args)
	if err != nil {
		t.Fatalf("Command failed with %q", err)
	}

	if !strings.Contains(result, substr) {
		t.Fatalf("Command output should contain %q; got:\n%v", substr, result)
	}

	return result
}

func execute(cmd *cobra.Command, args []string) (string, error) {
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}
