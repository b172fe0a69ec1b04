package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compile    Compile .tex files to PDF")
	fmt.Fprintln(w, "  render     Render a template and compile it to PDF")
	fmt.Fprintln(w, "  doctor     Check the LaTeX toolchain and system")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tex2pdf help <command>' for details on a specific command.")
}

// printCompilerFlags prints the flags shared by compile and render.
func printCompilerFlags(w io.Writer) {
	fmt.Fprintln(w, "Compiler:")
	fmt.Fprintln(w, "      --compiler <s>        Compiler executable (default pdflatex)")
	fmt.Fprintln(w, "      --no-nonstop          Let the compiler stop for input on errors")
	fmt.Fprintln(w, "      --single-pass         Run once, skip waiting for convergence")
	fmt.Fprintln(w, "      --max-passes <n>      Maximum runs per document (1-100, default 10)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-run timeout (e.g., 90s, 2m; default 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Workspace:")
	fmt.Fprintln(w, "      --work-dir <path>     Directory for workspaces (default: temp dir)")
	fmt.Fprintln(w, "      --keep-workdir        Keep the temp dir of a failed compile")
	fmt.Fprintln(w, "      --template-path <p>   Directory with templates/ and styles/")
	fmt.Fprintln(w, "      --style <name>        Style copied into the workspace (repeatable)")
	fmt.Fprintln(w, "      --attach <path>       File copied into the workspace (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show passes, timing, and compiler logs")
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2pdf compile <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile LaTeX documents to PDF, re-running the compiler until")
	fmt.Fprintln(w, "cross-references settle.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .tex file or directory (searched recursively)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .pdf file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel compilers (0 = auto)")
	fmt.Fprintln(w)
	printCompilerFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2pdf render <template> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a document template with YAML data, then compile it.")
	fmt.Fprintln(w, "Built-in templates: article, letter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -d, --data <path>         YAML file with template data")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default <template>.pdf)")
	fmt.Fprintln(w, "      --code-style <s>      Chroma style for code blocks (e.g., github, monokai)")
	fmt.Fprintln(w)
	printCompilerFlags(w)
}

// printEnvironment lists the supported environment variables.
func printEnvironment(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (flags > env > config file > defaults):")
	fmt.Fprintln(w, "  TEX2PDF_CONFIG, TEX2PDF_COMPILER, TEX2PDF_TIMEOUT, TEX2PDF_MAX_PASSES,")
	fmt.Fprintln(w, "  TEX2PDF_WORKERS, TEX2PDF_TEMPLATE_PATH, TEX2PDF_WORK_DIR,")
	fmt.Fprintln(w, "  TEX2PDF_OUTPUT_DIR, TEX2PDF_LOG_LEVEL, TEX2PDF_LOG_FORMAT")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "compile":
		printCompileUsage(env.Stdout)
		printEnvironment(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
		printEnvironment(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: tex2pdf doctor [--json] [--compiler <s>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that the compiler is installed and workspaces can be created.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tex2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tex2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
