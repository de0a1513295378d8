package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/config"
	"github.com/zephyrtronium/calculator/internal/logger"
)

// errFailed reports that at least one expression failed. Its message has
// already been printed.
var errFailed = errors.New("evaluation failed")

type options struct {
	configFile string
	inname     string
	echo       bool
	prec       uint32
	rounding   string
	arbitrary  bool
	logLevel   string
	logFile    string
	noColor    bool
	history    string
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "calculator [expression ...]",
		Short: "Evaluate decimal arithmetic expressions",
		Long: `Calculator evaluates infix expressions over decimal numbers.

Expressions use + - * / % ^, parentheses, and the functions sin, cos, tan,
sqrt, ln, and log. Each argument is one expression. With no arguments, one
expression is read from each line of the --in file or standard input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, &opts)
			if err != nil {
				return err
			}
			defer env.log.Close()
			return runBatch(cmd, env, &opts, args)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "configuration file (JSON)")
	pf.Uint32VarP(&opts.prec, "prec", "p", calculator.DefaultPrec, "significant decimal digits kept after each operation")
	pf.StringVar(&opts.rounding, "rounding", "half_even", "rounding mode: "+strings.Join(config.RoundingModes(), ", "))
	pf.BoolVar(&opts.arbitrary, "arbitrary", false, "compute ^, sqrt, ln, and log at full precision")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error, none")
	pf.StringVar(&opts.logFile, "log-file", "", "append diagnostic logs to this file")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.Flags().StringVar(&opts.inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	root.Flags().BoolVar(&opts.echo, "echo", false, "print the postfix form of each expression")
	root.AddCommand(newReplCmd(&opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		os.Exit(1)
	}
}

// env is the configured state shared by commands.
type env struct {
	cfg *config.Config
	ctx *calculator.Context
	log *logger.Logger
}

// setup loads the configuration file, applies flags given on the command
// line over it, and opens the log.
func setup(cmd *cobra.Command, opts *options) (*env, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		cfg, err = config.Load(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("prec") {
		cfg.Precision = opts.prec
	}
	if flags.Changed("rounding") {
		cfg.Rounding = opts.rounding
	}
	if flags.Changed("arbitrary") {
		cfg.ArbitraryFuncs = opts.arbitrary
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("no-color") {
		cfg.Color = !opts.noColor
	}
	if flags.Lookup("history") != nil && flags.Changed("history") {
		cfg.HistoryFile = opts.history
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if !cfg.Color {
		color.NoColor = true
	}
	l, err := logger.New(cfg.Level(), cfg.LogFile, "calculator")
	if err != nil {
		return nil, err
	}
	logger.SetGlobal(l)
	l.Info("precision %d, rounding %s, arbitrary %t", cfg.Precision, cfg.Rounding, cfg.ArbitraryFuncs)
	return &env{cfg: cfg, ctx: calculator.NewContext(cfg.ContextOptions()...), log: l}, nil
}

func runBatch(cmd *cobra.Command, env *env, opts *options, args []string) error {
	var exprs []string
	f, err := infile(cmd.InOrStdin(), opts.inname, len(args) == 0)
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				exprs = append(exprs, line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	exprs = append(exprs, args...)

	out, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	for _, expr := range exprs {
		if !evalLine(out, errw, env, expr, opts.echo) {
			failed++
		}
	}
	if failed > 0 {
		env.log.Warn("%d of %d expressions failed", failed, len(exprs))
		return errFailed
	}
	return nil
}

// evalLine evaluates and prints one expression, reporting whether it
// succeeded.
func evalLine(out, errw io.Writer, env *env, expr string, echo bool) bool {
	toks, err := calculator.Tokenize(expr)
	if err == nil {
		toks, err = calculator.ToPostfix(toks)
	}
	if err != nil {
		printErr(errw, expr, err)
		return false
	}
	if echo {
		fmt.Fprintf(out, "%s : ", postfix(toks))
	}
	r, err := env.ctx.EvalPostfix(toks)
	if err != nil {
		if echo {
			fmt.Fprintln(out)
		}
		printErr(errw, expr, err)
		return false
	}
	env.log.Debug("%s = %s", expr, r)
	fmt.Fprintln(out, color.GreenString("%s", calculator.Format(r)))
	return true
}

func printErr(w io.Writer, expr string, err error) {
	fmt.Fprintln(w, color.RedString("%s: %v", expr, err))
}

// postfix renders tokens separated by spaces.
func postfix(toks []calculator.Token) string {
	v := make([]string, len(toks))
	for i, tok := range toks {
		v[i] = tok.Text
	}
	return strings.Join(v, " ")
}

// infile opens the named input, or std if the name is "-" or if there is no
// name and std is true.
func infile(std io.Reader, inname string, useStd bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", useStd:
		return io.NopCloser(std), nil
	}
	return nil, nil
}
