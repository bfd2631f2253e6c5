// Command radix-gate runs the repository's required verification gates in order.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

type gateStep struct {
	label   string
	args    []string
	timeout time.Duration
	// quick steps still run under --quick.
	quick bool
}

type commandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error
}

type realRunner struct{}

var requiredGateSteps = []gateStep{
	{label: "go vet", args: []string{"vet", "./..."}, timeout: 5 * time.Minute, quick: true},
	{label: "unit tests", args: []string{"test", "./...", "-count=1"}, timeout: 10 * time.Minute, quick: true},
	{label: "race tests", args: []string{"test", "./...", "-race", "-count=1"}, timeout: 15 * time.Minute},
	{label: "conformance", args: []string{"test", "./conformance", "-count=1", "-v"}, timeout: 10 * time.Minute, quick: true},
	{label: "fuzz smoke", args: []string{"test", "./radixfloat", "-run", "^$", "-fuzz", "^FuzzFormatFloatRoundTrip$", "-fuzztime", "20s"}, timeout: 5 * time.Minute},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, realRunner{}))
}

//nolint:gocyclo,cyclop // Gate orchestration dispatch is intentionally explicit and linear.
func run(args []string, stdout, stderr io.Writer, runner commandRunner) int {
	quick := false
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			if err := writeUsage(stdout); err != nil {
				return 1
			}
			return 0
		case "--quick":
			quick = true
		default:
			if err := writef(stderr, "error: unknown argument %q\n", arg); err != nil {
				return 1
			}
			if err := writeUsage(stderr); err != nil {
				return 1
			}
			return 2
		}
	}

	steps := selectSteps(quick)
	for i, step := range steps {
		if err := writef(stdout, "[%d/%d] %s\n", i+1, len(steps), step.label); err != nil {
			return 1
		}
		if err := runStep(runner, step, stdout, stderr); err != nil {
			if writeErr := writef(stderr, "gate failed: %s: %v\n", step.label, err); writeErr != nil {
				return 1
			}
			return 1
		}
	}

	if err := writeLine(stdout, "all gates passed"); err != nil {
		return 1
	}
	return 0
}

func selectSteps(quick bool) []gateStep {
	if !quick {
		return requiredGateSteps
	}
	var steps []gateStep
	for _, s := range requiredGateSteps {
		if s.quick {
			steps = append(steps, s)
		}
	}
	return steps
}

func runStep(runner commandRunner, step gateStep, stdout, stderr io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), step.timeout)
	defer cancel()
	return runner.Run(ctx, "go", step.args, stdout, stderr)
}

func (realRunner) Run(ctx context.Context, name string, args []string, stdout io.Writer, stderr io.Writer) error {
	// #nosec G204 -- command and args are fixed repository gate invocations.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func writeUsage(w io.Writer) error {
	if err := writeLine(w, "usage: go run ./cmd/radix-gate [--quick] [--help]"); err != nil {
		return err
	}
	if err := writeLine(w, "runs: vet, tests, race, conformance, fuzz smoke"); err != nil {
		return err
	}
	return writeLine(w, "--quick skips the race and fuzz gates")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
