package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tex2pdf "github.com/alnah/go-tex2pdf"
)

const (
	texExt = ".tex"
	pdfExt = ".pdf"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoTexFiles         = errors.New("no .tex files found")
	ErrInvalidExtension   = errors.New("file must have .tex extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputConflict     = errors.New("a single .pdf output needs a single input")
)

// FileToCompile represents a single document to process.
type FileToCompile struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the .tex files under each input path.
// Directories are walked recursively and mirror their layout under outputDir.
func discoverFiles(inputs []string, outputDir string) ([]FileToCompile, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var files []FileToCompile
	for _, input := range inputs {
		found, err := discoverInput(input, outputDir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTexFiles, strings.Join(inputs, ", "))
	}
	if len(files) > 1 && strings.HasSuffix(outputDir, pdfExt) {
		return nil, fmt.Errorf("%w: %d files for %s", ErrOutputConflict, len(files), outputDir)
	}
	return files, nil
}

func discoverInput(inputPath, outputDir string) ([]FileToCompile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateTexExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToCompile{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToCompile
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != texExt {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToCompile{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a .tex file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+pdfExt)
	}

	if strings.HasSuffix(outputDir, pdfExt) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+pdfExt)
		}
	}

	return filepath.Join(outputDir, base+pdfExt)
}

func validateTexExtension(path string) error {
	if ext := filepath.Ext(path); ext != texExt {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > tex2pdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, tex2pdf.MaxPoolSize)
	}
	return nil
}
