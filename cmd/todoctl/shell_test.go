package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/tasktrack/tasktrack/internal/testutil"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"list", []string{"list"}},
		{"list  -f   high", []string{"list", "-f", "high"}},
		{`add "Pay rent" --desc 'to landlord'`, []string{"add", "Pay rent", "--desc", "to landlord"}},
		{`add ""`, []string{"add", ""}},
		{`edit 3 --title=a"b c"d`, []string{"edit", "3", "--title=ab cd"}},
	}
	for _, tc := range cases {
		got, err := splitArgs(tc.line)
		if err != nil {
			t.Fatalf("splitArgs(%q): %v", tc.line, err)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("splitArgs(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}

	if _, err := splitArgs(`add "open`); !errors.Is(err, errUnterminatedQuote) {
		t.Fatalf("expected errUnterminatedQuote, got %v", err)
	}
}

func runScript(t *testing.T, srv *testutil.APIServer, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	cmd.SetArgs([]string{"--api", srv.BaseURL, "--log-level", "disabled"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("todoctl: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestShell_Session(t *testing.T) {
	srv := testutil.NewAPIServer(t)

	out := runScript(t, srv,
		"list",
		"register --username ada --email ada@example.com --password Secret1 --confirm Secret1 --first Ada --last Lovelace",
		"whoami",
		`add "Write notes" --desc "for the review" --date 2026-11-02 --priority High`,
		`add "Buy milk" -d "two litres" --date 2026-11-01 -p Low`,
		"list --sort date",
		"complete 1",
		"stats",
		"list -f completed",
		"delete 2",
		"n",
		"rm 2 --yes",
		`add "unterminated`,
		"logout",
		"list",
		"exit",
	)

	for _, want := range []string{
		"Not signed in.",
		"No tasks (filter: all).",
		"Welcome, Ada Lovelace.",
		"ada (",
		"Task added.",
		"Buy milk",
		"Task completed.",
		"2 total, 1 completed, 0 in progress, 1 pending (50% done)",
		`Delete "Buy milk"? [y/N] Kept.`,
		"Task deleted.",
		"error: unterminated quote",
		"Signed out.",
		"ada@todoctl> ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	// The first list is the only place either title appears before the delete prompt.
	if strings.Index(out, "Buy milk") > strings.Index(out, "Write notes") {
		t.Fatalf("expected date order:\n%s", out)
	}
}

func TestShell_AddKeepsStatus(t *testing.T) {
	srv := testutil.NewAPIServer(t)

	out := runScript(t, srv,
		"register --username bob --email bob@example.com --password Secret1 --confirm Secret1 --first Bob",
		`add "Paint fence" --desc "south side" --date 2026-11-03 --status "In Progress"`,
		"list -f inprogress",
		"stats",
		`add "No details"`,
	)

	for _, want := range []string{
		"Task added.",
		"Paint fence",
		"In Progress",
		"1 total, 0 completed, 1 in progress, 0 pending (0% done)",
		"error: date: Due date is required; description: Description is required",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShell_RejectsBadInput(t *testing.T) {
	srv := testutil.NewAPIServer(t)

	out := runScript(t, srv,
		"login ada",
		"login ghost Secret1",
		"register --username ab --email nope --password short --confirm other",
		"bogus",
	)

	for _, want := range []string{
		"error: accepts 2 arg(s), received 1",
		"error: Invalid credentials",
		"password: weak",
		"confirmPassword: mismatch",
		`error: unknown command "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Welcome") {
		t.Fatalf("invalid registration signed in:\n%s", out)
	}
}
