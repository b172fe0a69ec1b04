package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS before the pool is sized from it.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(os.Args[1:], os.Stderr)))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// maxprocsLogger prints automaxprocs decisions only in verbose mode.
func maxprocsLogger(args []string, w io.Writer) func(string, ...any) {
	if !hasVerboseFlag(args) {
		return func(string, ...any) {}
	}
	return func(format string, a ...any) {
		fmt.Fprintf(w, format+"\n", a...)
	}
}

// run dispatches to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "compile":
		err = runCompileCmd(ctx, rest, env)
	case "render":
		err = runRenderCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "tex2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		if !isReported(err) {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}
