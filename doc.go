// Package tex2pdf compiles LaTeX documents to PDF by driving an external
// compiler such as pdflatex, xelatex or lualatex.
//
// # Quick Start
//
// Create a compiler, compile a document, deliver the PDF and release it:
//
//	c := tex2pdf.NewCompiler()
//
//	out, err := c.Compile(ctx, tex2pdf.CompileRequest{
//	    Source:             source,
//	    NonStopMode:        true,
//	    WaitForConvergence: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Release()
//
//	if err := out.MoveTo("report.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Compile Loop
//
// Each compile follows these stages:
//
//  1. A fresh workspace with a random base name is provisioned
//  2. The source is written verbatim to the workspace
//  3. The optional SetupFunc injects images, bibliographies or styles
//  4. The compiler runs with -output-directory set to the workspace
//  5. With WaitForConvergence, it runs again until the BLAKE3 digest of the
//     .aux file repeats, up to WithMaxPasses runs
//  6. Source, aux and log files are removed on every path
//
// A non-zero exit aborts the loop with a *CompileError carrying the compiler
// log verbatim. A run exceeding WithTimeout is killed along with its process
// group and reported as a *TimeoutError.
//
// A document that never writes an .aux file converges after one pass: the
// missing file hashes the same before and after the run.
//
// # Templates
//
// RenderAndCompile renders a template before compiling it:
//
//	loader, err := tex2pdf.NewAssetLoader("/path/to/assets")
//	c := tex2pdf.NewCompiler(
//	    tex2pdf.WithRenderer(tex2pdf.NewTemplateRenderer(loader)),
//	)
//	out, err := c.RenderAndCompile(ctx, "article", map[string]any{
//	    "title": "Report",
//	    "body":  "# Intro\n\nSome **Markdown**.",
//	}, tex2pdf.CompileRequest{
//	    NonStopMode: true,
//	    Setup:       tex2pdf.StyleSetup(loader, tex2pdf.DefaultStyle),
//	})
//
// Templates use [[ ]] delimiters. Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.sty
//	└── templates/
//	    └── custom.tex
//
// # Parallel Processing
//
// For batch compilation, use CompilerPool to bound concurrent compiler
// processes:
//
//	pool := tex2pdf.NewCompilerPool(tex2pdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	c, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(c)
//
// # Error Handling
//
// Errors match sentinels with errors.Is (ErrCompile, ErrTimeout,
// ErrConvergenceTimeout, ErrIO, ErrSetup, ErrTemplateNotFound) and expose
// details with errors.As on the typed errors.
package tex2pdf
