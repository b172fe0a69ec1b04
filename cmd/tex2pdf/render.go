package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
	"github.com/alnah/go-tex2pdf/internal/pipeline"
	"github.com/alnah/go-tex2pdf/internal/render"
	"github.com/alnah/go-tex2pdf/internal/yamlutil"
	flag "github.com/spf13/pflag"
)

// stylesKey is the template data key listing \usepackage'd styles.
const stylesKey = "styles"

// Sentinel errors for the render command.
var (
	ErrMissingTemplate = errors.New("template name required")
	ErrDataParse       = errors.New("failed to parse template data")
)

func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return runRender(ctx, positional, flags, env)
}

func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) error {
	if len(positional) != 1 {
		return fmt.Errorf("%w: got %d arguments", ErrMissingTemplate, len(positional))
	}
	name := positional[0]

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := resolveConfig(flags.common, &flags.compiler, flags.changed, envCfg)
	if err != nil {
		return err
	}
	env.Config = cfg
	env.Logger = newLogger(env.Stderr, flags.common, cfg)

	data, err := loadTemplateData(flags.data)
	if err != nil {
		return err
	}
	styles := templateStyles(data, cfg.Templates.Styles)

	loader, err := tex2pdf.NewAssetLoader(cfg.Templates.BasePath)
	if err != nil {
		return err
	}
	opts, err := compilerOptions(cfg, flags.compiler.keepWorkDir, env.Logger)
	if err != nil {
		return err
	}
	opts = append(opts, tex2pdf.WithRenderer(newTemplateRenderer(loader, dataDir(flags.data), flags.codeStyle, env.Now)))

	outPath := flags.output
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.DefaultDir, name+pdfExt)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	req := baseRequest(cfg, workspaceSetup(loader, styles, flags.compiler.attach))
	req.Metadata = map[string]string{metaInput: name}

	start := env.Now()
	out, err := tex2pdf.NewCompiler(opts...).RenderAndCompile(ctx, name, data, req)
	if err != nil {
		var compileErr *tex2pdf.CompileError
		if flags.common.verbose && errors.As(err, &compileErr) {
			fmt.Fprintf(env.Stderr, "--- compiler log ---\n%s\n", compileErr.Diagnostics)
		}
		return err
	}
	defer out.Release()

	if err := out.MoveTo(outPath); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "%s -> %s (%d passes, %v)\n",
			name, outPath, out.Result().Passes, env.Now().Sub(start).Round(time.Millisecond))
	} else if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// newTemplateRenderer is tex2pdf.NewTemplateRenderer with relative Markdown
// image paths resolved against sourceDir, since the compiler runs elsewhere.
func newTemplateRenderer(loader tex2pdf.AssetLoader, sourceDir, codeStyle string, now func() time.Time) tex2pdf.Renderer {
	convOpts := []pipeline.ConverterOption{pipeline.WithSourceDir(sourceDir)}
	if codeStyle != "" {
		convOpts = append(convOpts, pipeline.WithCodeStyle(codeStyle))
	}
	return render.New(loader,
		render.WithMarkdownConverter(pipeline.NewGoldmarkConverter(convOpts...)),
		render.WithNow(now),
	)
}

// dataDir is the directory Markdown paths in the data are relative to.
func dataDir(dataPath string) string {
	if dataPath == "" {
		return "."
	}
	return filepath.Dir(dataPath)
}

// loadTemplateData reads a YAML mapping, or returns an empty map for "".
func loadTemplateData(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := yamlutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	data, err := yamlutil.DecodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataParse, path, err)
	}
	return data, nil
}

// templateStyles returns the styles to copy into the workspace. Styles named
// by the data come first. Configured styles are added to the data when it
// names none, so the template loads them.
func templateStyles(data map[string]any, configured []string) []string {
	var styles []string
	if list, ok := data[stylesKey].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && !slices.Contains(styles, s) {
				styles = append(styles, s)
			}
		}
	}
	if _, ok := data[stylesKey]; !ok && len(configured) > 0 {
		data[stylesKey] = slices.Clone(configured)
	}
	for _, s := range configured {
		if !slices.Contains(styles, s) {
			styles = append(styles, s)
		}
	}
	return styles
}
