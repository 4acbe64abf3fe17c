package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/aunetx/libmoon/api"
	"github.com/aunetx/libmoon/config"
	"github.com/aunetx/libmoon/debugger"
	"github.com/aunetx/libmoon/loader"
	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/tools"
	"github.com/aunetx/libmoon/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode (CLI)")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		maxSteps    = flag.Uint64("max-steps", 0, "Maximum instructions before halt (0 = unbounded)")
		sigilFlag   = flag.String("sigil", "", "Variable-reference sigil (default: &, or the configured value)")
		configPath  = flag.String("config", "", "Path to config.toml (default: platform config directory)")

		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")

		lintMode = flag.Bool("lint", false, "Lint the program and exit")
		xrefMode = flag.Bool("xref", false, "Print a symbol cross-reference table and exit")
		listMode = flag.Bool("list", false, "Print the canonical instruction listing and exit")

		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("libmoon %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	sourcePath := flag.Arg(0)
	if _, err := os.Stat(sourcePath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", sourcePath)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	sigil := cfg.SigilByte(parser.DefaultSigil)
	if *sigilFlag != "" {
		sigil = (*sigilFlag)[0]
	}

	if *verboseMode {
		fmt.Printf("Parsing %s (sigil %q)\n", sourcePath, string(sigil))
	}

	program, err := parser.ParseFile(sourcePath, sigil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	if *listMode {
		fmt.Print(tools.Listing(program))
		os.Exit(0)
	}

	if *lintMode {
		runLint(program)
		return
	}

	if *xrefMode {
		runXref(program)
		return
	}

	steps := *maxSteps
	if steps == 0 {
		steps = cfg.Execution.MaxSteps
	}

	var trace *vm.ExecutionTrace
	if *enableTrace || cfg.Execution.EnableTrace {
		tracePath := *traceFile
		if tracePath == "" {
			tracePath = cfg.Trace.OutputFile
		}
		if !filepath.IsAbs(tracePath) {
			tracePath = filepath.Join(config.GetLogPath(), filepath.Base(tracePath))
		}

		traceWriter, err := os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := traceWriter.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", err)
			}
		}()

		trace = vm.NewExecutionTrace(traceWriter, cfg.Trace.MaxEntries)
		if *verboseMode {
			fmt.Printf("Execution trace enabled: %s\n", tracePath)
		}
	}

	if *debugMode || *tuiMode {
		runDebugger(program, *tuiMode, sourcePath)
		return
	}

	runDirect(program, steps, trace, *verboseMode)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func runDirect(program *parser.Program, maxSteps uint64, trace *vm.ExecutionTrace, verbose bool) {
	result, err := loader.RunProgram(program, loader.Options{
		Output:   os.Stdout,
		MaxSteps: maxSteps,
		Trace:    trace,
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "\nRuntime error at pc=%d: %v\n", result.PC, err)
		os.Exit(1)
	}

	if verbose {
		fmt.Println("\n----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("Final pc: %d\n", result.PC)
		fmt.Printf("Variables declared: %d\n", result.Interpreter.Store.Len())
	}
}

func runDebugger(program *parser.Program, tui bool, sourcePath string) {
	interp := vm.NewInterpreter(program, os.Stdout)
	dbg := debugger.NewDebugger(interp)

	if tui {
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Moon Debugger - Type 'help' for commands")
	fmt.Printf("Program loaded: %s\n", sourcePath)
	fmt.Println()

	if err := debugger.RunCLI(dbg); err != nil {
		fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
		os.Exit(1)
	}
}

func runLint(program *parser.Program) {
	issues := tools.Lint(program)
	if len(issues) == 0 {
		fmt.Println("No issues found")
		return
	}

	hasError := false
	for _, issue := range issues {
		fmt.Println(issue.String())
		if issue.Level == tools.LintError {
			hasError = true
		}
	}

	if hasError {
		os.Exit(1)
	}
}

func runXref(program *parser.Program) {
	table := tools.Xref(program)
	for _, name := range tools.Names(table) {
		sym := table[name]
		kind := "variable"
		if sym.Kind == tools.SymbolLabel {
			kind = "label"
		}
		fmt.Printf("%s (%s):\n", name, kind)
		for _, ref := range sym.References {
			fmt.Printf("  line %d: %s\n", ref.Line, ref.Kind)
		}
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`libmoon %s

Usage: libmoon [options] <source-file>
       libmoon -api-server [-port N]

Options:
  -help              Show this help message
  -version           Show version information
  -api-server        Start HTTP API server mode (no source file required)
  -port N            API server port (default: 8080, used with -api-server)
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -max-steps N       Set maximum instruction count (default: unbounded)
  -sigil C           Variable-reference sigil (default: &, or the configured value)
  -config PATH       Path to config.toml (default: platform config directory)
  -verbose           Enable verbose output

Tracing:
  -trace             Enable execution trace
  -trace-file FILE   Trace output file (default: trace.log in log dir)

Static analysis:
  -lint              Lint the program and exit
  -xref              Print a symbol cross-reference table and exit
  -list              Print the canonical instruction listing and exit

Examples:
  # Run a program directly
  libmoon examples/hello.moon

  # Run with the debugger
  libmoon -debug examples/fizzbuzz.moon

  # Run with the TUI debugger
  libmoon -tui examples/fizzbuzz.moon

  # Run with a custom step limit and execution trace
  libmoon -max-steps 100000 -trace examples/loop.moon

  # Start the HTTP API server
  libmoon -api-server -port 3000

  # Lint a program without running it
  libmoon -lint examples/fizzbuzz.moon
`, Version)
}
