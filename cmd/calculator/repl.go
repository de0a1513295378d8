package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/session"
)

const replHelp = `Enter an expression to evaluate it. A line starting with an operator
continues from the previous result, e.g. "*2". That includes a minus sign:
after a result of 5, "-3" gives 2. Enter "(-3)", or :clear first, to start
a new expression with a negative number.

  :clear    clear the input
  :back     delete the last character of the input
  :neg      toggle the sign of the last number in the input
  :history  show recent results
  :help     show this help
  :quit     exit`

func newReplCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer env.log.Close()
			return runRepl(cmd.OutOrStdout(), env)
		},
	}
	cmd.Flags().StringVar(&opts.history, "history", "", "line history file (default from config)")
	return cmd
}

func runRepl(out io.Writer, env *env) error {
	s := session.New(
		session.WithContext(env.ctx),
		session.WithHistorySize(env.cfg.HistorySize),
		session.WithLogger(env.log),
	)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if path := env.cfg.HistoryFile; path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				env.log.Warn("creating history directory: %v", err)
				return
			}
			f, err := os.Create(path)
			if err != nil {
				env.log.Warn("saving history: %v", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	for {
		line, err := ln.Prompt(prompt(s))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if quit := step(out, s, line); quit {
			return nil
		}
	}
}

func prompt(s *session.Session) string {
	if s.Input() == "" {
		return "> "
	}
	return s.Input() + " > "
}

// step handles one line of REPL input and reports whether to exit.
func step(out io.Writer, s *session.Session, line string) bool {
	if strings.HasPrefix(line, ":") {
		switch strings.ToLower(line) {
		case ":quit", ":q", ":exit":
			return true
		case ":clear":
			s.Clear()
		case ":back":
			s.Backspace()
		case ":neg":
			s.Negate()
		case ":history":
			for _, h := range s.History() {
				fmt.Fprintln(out, h)
			}
			return false
		case ":help":
			fmt.Fprintln(out, replHelp)
			return false
		default:
			fmt.Fprintln(out, color.RedString("unknown command %s. Type :help for commands.", line))
			return false
		}
		fmt.Fprintln(out, s.Display())
		return false
	}
	if !strings.ContainsRune(calculator.Operators, rune(line[0])) {
		s.Clear()
	}
	s.Append(line)
	r, err := s.Evaluate()
	if err != nil {
		fmt.Fprintln(out, color.RedString("%s: %v", s.Display(), err))
		return false
	}
	fmt.Fprintln(out, color.GreenString("%s", r))
	return false
}
