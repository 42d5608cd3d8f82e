package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/cibere/safulate-go/internal/lexer"
	"github.com/cibere/safulate-go/pkg/ast"
	"github.com/cibere/safulate-go/pkg/builtins"
	"github.com/cibere/safulate-go/pkg/eval"
	"github.com/cibere/safulate-go/pkg/parser"
	"github.com/cibere/safulate-go/pkg/version"
)

var (
	// Version information (set during build via ldflags, or detected from build info)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	// Try to get version from Go module build info (works with go install)
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				Version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if len(setting.Value) >= 7 {
						GitCommit = setting.Value[:7]
					}
				case "vcs.time":
					BuildTime = setting.Value
				}
			}
		}
	}
}

// Parse/run command flags
var (
	outputFile  string
	withLoc     bool
	withRange   bool
	tolerant    bool
	prettyPrint bool
	hostVersion string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "safulate",
		Short: "Safulate: a dynamically-typed scripting language",
		Long: `Safulate is a dynamically-typed scripting language with a
tree-walking evaluator, object/spec dispatch, partial application,
decorators, and req-based module imports.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	}

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a Safulate script",
		Long: `Run a Safulate script to completion, printing whatever it prints.
If no file is specified or '-' is given, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	runCmd.Flags().StringVar(&hostVersion, "host-version", "0.1.0", "Host version exposed to req version checks")

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Safulate script and output its AST as JSON",
		Long: `Parse a Safulate script and output the Abstract Syntax Tree (AST) as JSON.
If no file is specified or '-' is given, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().BoolVar(&withLoc, "loc", false, "Include location information (line/column)")
	parseCmd.Flags().BoolVar(&withRange, "range", false, "Include character range information")
	parseCmd.Flags().BoolVar(&tolerant, "tolerant", false, "Tolerant mode (collect errors)")
	parseCmd.Flags().BoolVarP(&prettyPrint, "pretty", "p", true, "Pretty print JSON output")

	tokenizeCmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Print the token stream for a Safulate script",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokenize,
	}

	versionCheckCmd := &cobra.Command{
		Use:   "version-check [constraint]",
		Short: "Check a req version constraint against a host version",
		Long: `Parse a req version constraint (e.g. "v1.2" or "v1 - v2") and report
whether --host-version satisfies it.`,
		Args: cobra.ExactArgs(1),
		RunE: runVersionCheck,
	}
	versionCheckCmd.Flags().StringVar(&hostVersion, "host-version", "0.1.0", "Host version to check the constraint against")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCheckCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	prog, err := parser.Parse(input, nil)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	hv, err := version.Parse(hostVersion)
	if err != nil {
		return fmt.Errorf("invalid --host-version: %w", err)
	}

	var baseDir string
	if len(args) > 0 && args[0] != "-" {
		baseDir = filepath.Dir(args[0])
	}

	interp := eval.NewInterpreter(&fileModuleLoader{baseDir: baseDir}, constHost{hv})
	builtins.Register(interp, os.Stdout)

	if _, err := interp.Run(prog); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	opts := &parser.Options{
		Tolerant: tolerant,
		Loc:      withLoc,
		Range:    withRange,
	}

	prog, err := parser.Parse(input, opts)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	var output []byte
	if prettyPrint {
		output, err = json.MarshalIndent(prog, "", "  ")
	} else {
		output, err = json.Marshal(prog)
	}
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}

	return writeOutput(output)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		fmt.Printf("%-4d:%-4d %-12s %q\n", tok.Line, tok.Column, tok.Type.String(), tok.Value)
		if tok.Type == lexer.EOF {
			break
		}
	}
	for _, e := range l.Errors() {
		fmt.Fprintf(os.Stderr, "  line %d:%d: %s\n", e.Line, e.Column, e.Message)
	}
	return nil
}

func runVersionCheck(cmd *cobra.Command, args []string) error {
	constraint, err := version.ParseConstraint(args[0])
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", args[0], err)
	}
	hv, err := version.Parse(hostVersion)
	if err != nil {
		return fmt.Errorf("invalid --host-version: %w", err)
	}

	fmt.Printf("Constraint: %s\n", constraint.String())
	fmt.Printf("Host:       %s\n", hv.String())
	if constraint.Satisfies(hv) {
		fmt.Println("Satisfied: yes")
		return nil
	}
	fmt.Println("Satisfied: no")
	os.Exit(1)
	return nil
}

// fileModuleLoader resolves a req'd module name to a sibling ".saf" file
// next to the script being run, the simplest ModuleLoader that exercises
// the req machinery without requiring a package registry.
type fileModuleLoader struct {
	baseDir string
}

func (l *fileModuleLoader) Load(nameOrURL string) (*ast.Program, error) {
	path := filepath.Join(l.baseDir, nameOrURL+".saf")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot locate module %q: %w", nameOrURL, err)
	}
	return parser.Parse(string(content), nil)
}

// constHost answers VersionHost with a fixed version, supplied via
// --host-version rather than any build-time constant.
type constHost struct {
	v version.Version
}

func (h constHost) HostVersion() version.Version { return h.v }

func readInput(args []string) (string, error) {
	var reader io.Reader

	if len(args) == 0 || args[0] == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot open file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("cannot read input: %w", err)
	}

	return string(content), nil
}

func writeOutput(data []byte) error {
	var writer io.Writer

	if outputFile == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	_, err := writer.Write(data)
	if err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	if outputFile == "" {
		fmt.Println()
	}

	return nil
}
