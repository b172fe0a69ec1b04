package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
)

// versionTimeout bounds the `<compiler> --version` probe.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Compiler compilerInfo `json:"compiler"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// compilerInfo holds LaTeX compiler detection results.
type compilerInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
	Workers      int    `json:"workers"`
}

// doctorDeps are swapped in tests.
type doctorDeps struct {
	lookPath func(string) (string, error)
	version  func(path string) (string, error)
	getenv   func(string) string
	stat     func(string) (os.FileInfo, error)
	tempDir  func() string
}

func defaultDoctorDeps(env *Environment) doctorDeps {
	return doctorDeps{
		lookPath: exec.LookPath,
		version:  compilerVersion,
		getenv:   env.Getenv,
		stat:     os.Stat,
		tempDir:  os.TempDir,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	compiler := ""
	for i, arg := range args {
		switch {
		case arg == "--json":
			jsonOutput = true
		case strings.HasPrefix(arg, "--compiler="):
			compiler = strings.TrimPrefix(arg, "--compiler=")
		case arg == "--compiler" && i+1 < len(args):
			compiler = args[i+1]
		}
	}
	if compiler == "" {
		compiler = loadEnvConfig(env.Getenv).Compiler
	}
	if compiler == "" {
		compiler = tex2pdf.DefaultCompilerPath
	}

	result := runDoctor(compiler, defaultDoctorDeps(env))

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(compiler string, deps doctorDeps) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkCompiler(result, compiler, deps)
	checkEnvironment(result, deps)
	checkSystem(result, deps)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkCompiler locates the compiler and asks it for its version.
func checkCompiler(result *doctorResult, compiler string, deps doctorDeps) {
	result.Compiler.Name = compiler

	path, err := deps.lookPath(compiler)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found on PATH. Install a TeX distribution or set TEX2PDF_COMPILER", compiler))
		return
	}
	result.Compiler.Found = true
	result.Compiler.Path = path

	version, err := deps.version(path)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", compiler, err))
		return
	}
	result.Compiler.Version = version
}

// compilerVersion returns the first line of `<path> --version`.
func compilerVersion(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- resolved by LookPath
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, deps doctorDeps) {
	result.Env.Container, result.Env.ContainerHint = isContainer(deps)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if deps.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(deps doctorDeps) (bool, string) {
	if deps.getenv("TEX2PDF_CONTAINER") == "1" {
		return true, "TEX2PDF_CONTAINER=1"
	}
	if _, err := deps.stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := deps.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if deps.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies that workspaces can be created in the temp dir.
func checkSystem(result *doctorResult, deps doctorDeps) {
	tmpDir := deps.tempDir()
	result.System.TempDir = tmpDir
	result.System.Workers = tex2pdf.ResolvePoolSize(0)

	dir, err := os.MkdirTemp(tmpDir, "tex2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "probe.tex"), []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "tex2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LaTeX compiler")
	if r.Compiler.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Compiler.Name, r.Compiler.Path)
		if r.Compiler.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Compiler.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Compiler.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory writable: %s\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory not writable: %s\n", r.System.TempDir)
	}
	fmt.Fprintf(w, "  [OK] Default workers: %d\n", r.System.Workers)

	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", e)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to compile")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
