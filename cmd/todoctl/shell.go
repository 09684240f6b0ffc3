package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/client/session"
	"github.com/tasktrack/tasktrack/internal/client/view"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// shell reads one command per line and runs it through a fresh cobra tree,
// so flags never leak from one line to the next.
type shell struct {
	app *client.App
	in  *bufio.Scanner
	out io.Writer

	filter view.Filter
	sort   view.SortKey
}

func newShell(app *client.App, in io.Reader, out io.Writer) *shell {
	return &shell{
		app:    app,
		in:     bufio.NewScanner(in),
		out:    out,
		filter: view.FilterAll,
		sort:   view.SortDate,
	}
}

func (s *shell) run(ctx context.Context) error {
	st := s.app.Start(ctx)
	if st.IsAuthenticated {
		fmt.Fprintf(s.out, "Welcome back, %s.\n", st.User.DisplayName())
	} else {
		fmt.Fprintln(s.out, "Not signed in. Use 'login' or 'register'; 'help' lists commands.")
	}

	for {
		fmt.Fprint(s.out, s.prompt())
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		if err := s.exec(ctx, args); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *shell) exec(ctx context.Context, args []string) error {
	root := s.commands()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(""))
	root.SetOut(s.out)
	root.SetErr(s.out)
	return root.ExecuteContext(ctx)
}

func (s *shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// confirm asks a yes/no question on the shell's own input.
func (s *shell) confirm(question string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", question)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (s *shell) prompt() string {
	st := s.app.Session.Snapshot()
	if !st.IsAuthenticated {
		return "todoctl> "
	}
	return st.User.Username + "@todoctl> "
}

func (s *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "todoctl",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		s.loginCmd(),
		s.registerCmd(),
		s.logoutCmd(),
		s.whoamiCmd(),
		s.profileCmd(),
		s.passwdCmd(),
		s.checkCmd(),
		s.listCmd(),
		s.statsCmd(),
		s.refreshCmd(),
		s.addCmd(),
		s.editCmd(),
		s.completeCmd(),
		s.toggleCmd(),
		s.deleteCmd(),
	)
	return root
}

func (s *shell) report(res session.Result) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	if res.Message != "" {
		fmt.Fprintln(s.out, res.Message)
	}
	return nil
}

// splitArgs splits a line on whitespace, honouring single and double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
