// cmd/bidiconformer/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/BiDiConformer/internal/errors"
	"github.com/valpere/BiDiConformer/pkg/api"
	"github.com/valpere/BiDiConformer/pkg/types"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Global error service instance
var errorService = errors.NewService()

// main handles CLI arguments and routes to the appropriate command.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: bidiconformer run <config.yaml>\n")
			os.Exit(1)
		}
		runSuite(os.Args[2])

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: bidiconformer validate <config.yaml>\n")
			os.Exit(1)
		}
		validateConfig(os.Args[2])

	case "template":
		template, err := generateTemplate(os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(template)

	case "checks":
		printChecks()

	case "version", "--version", "-v":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runSuite executes a conformance suite from a configuration file.
func runSuite(configFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := executeSuite(ctx, configFile, verbose)
	if summary != nil {
		printSummary(summary, verbose)
	}

	if err != nil {
		fmt.Fprint(os.Stderr, errorService.FormatErrorForCLI(err))
		os.Exit(errorService.GetExitCode(err))
	}

	if summary != nil && !summary.Success() {
		os.Exit(errors.ExitAssertion)
	}
}

// executeSuite loads the configuration and runs the selected checks.
func executeSuite(ctx context.Context, configFile string, verbose bool) (*types.SuiteSummary, error) {
	cfg, err := api.LoadConfig(configFile)
	if err != nil {
		return nil, errors.WrapConfig(err)
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if verbose {
		names, err := client.CheckNames()
		if err != nil {
			return nil, err
		}
		fmt.Printf("Suite: %s\n", cfg.Name)
		fmt.Printf("Backend: %s\n", cfg.Backend)
		fmt.Printf("Checks: %d\n", len(names))
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
	}

	return client.Run(ctx)
}

// validateConfig loads and validates a configuration file.
func validateConfig(configFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	cfg, err := api.LoadConfig(configFile)
	if err != nil {
		fmt.Fprint(os.Stderr, errorService.FormatErrorForCLI(errors.WrapConfig(err)))
		os.Exit(errorService.GetExitCode(errors.WrapConfig(err)))
	}

	if verbose {
		fmt.Printf("Configuration details:\n")
		fmt.Printf("  Name: %s\n", cfg.Name)
		fmt.Printf("  Backend: %s\n", cfg.Backend)
		fmt.Printf("  Wait timeout: %s\n", cfg.WaitTimeoutDuration())
		fmt.Printf("  Output format: %s\n", cfg.Output.Format)
	}

	fmt.Printf("✓ Configuration file '%s' is valid\n", configFile)
}

// generateTemplate renders a starter configuration as YAML.
func generateTemplate(args []string) (string, error) {
	templateType := "basic"
	if len(args) > 0 && args[0] == "--type" && len(args) > 1 {
		templateType = args[1]
	}

	template := api.GenerateTemplate(templateType)

	yamlData, err := yaml.Marshal(template)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}

	return string(yamlData), nil
}

// printSummary renders the suite outcome for the terminal.
func printSummary(summary *types.SuiteSummary, verbose bool) {
	fmt.Printf("\nSuite %s: %d checks, %d passed, %d failed, %d skipped (%s)\n",
		summary.Suite, summary.Total, summary.Passed, summary.Failed,
		summary.Skipped, summary.Duration.Round(time.Millisecond))

	if verbose {
		for _, r := range summary.Results {
			marker := "✓"
			if !r.Passed() {
				marker = "✗"
			}
			fmt.Printf("  %s %s\n", marker, r.String())
		}
		return
	}

	for _, r := range summary.FailedResults() {
		fmt.Printf("  ✗ %s\n", r.String())
	}
}

// printChecks lists every registered check.
func printChecks() {
	for _, name := range checkNames() {
		fmt.Println(name)
	}
}

func checkNames() []string {
	cfg := api.GenerateTemplate("basic")
	client, err := api.NewClient(&cfg)
	if err != nil {
		return nil
	}
	names, err := client.CheckNames()
	if err != nil {
		return nil
	}
	return names
}

// hasFlag checks if a flag is present in command line arguments.
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

// printUsage displays help information.
func printUsage() {
	fmt.Println("BiDiConformer - Browsing-Context History Traversal Conformance Suite")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bidiconformer run <config.yaml>          Run conformance suite")
	fmt.Println("  bidiconformer validate <config.yaml>     Validate configuration file")
	fmt.Println("  bidiconformer template [--type <type>]   Generate configuration template")
	fmt.Println("  bidiconformer checks                     List registered checks")
	fmt.Println("  bidiconformer version                    Show version information")
	fmt.Println("  bidiconformer help                       Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose                            Enable verbose output")
	fmt.Println()
	fmt.Println("Template types:")
	fmt.Println("  basic       In-memory session backend (default)")
	fmt.Println("  chrome      Headless Chrome backend")
	fmt.Println("  ci          CI profile with SQLite results and metrics")
}

// printVersion displays version information.
func printVersion() {
	fmt.Printf("BiDiConformer %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
