package tex2pdf

import (
	"context"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"

	"github.com/zeebo/blake3"
)

// noAuxHash stands for a missing aux file. No BLAKE3 hex digest is empty.
const noAuxHash = ""

// CompileResult summarizes the compiler passes of a successful compile.
type CompileResult struct {
	OutputPath string
	ExitCode   int
	Passes     int

	// AuxHashes holds the aux file digest after each pass, noAuxHash when
	// the pass left no aux file.
	AuxHashes []string
}

// hashAux returns the hex BLAKE3 digest of the aux file, or noAuxHash if
// it does not exist.
func hashAux(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- workspace path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return noAuxHash, nil
		}
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// runPasses drives the compiler until the aux digest repeats, or once when
// convergence is not requested. A non-zero exit stops the loop at once.
func (c *Compiler) runPasses(ctx context.Context, ws *Workspace, req CompileRequest) (*CompileResult, error) {
	result := &CompileResult{OutputPath: ws.OutputPath}
	auxHash := noAuxHash

	for {
		if result.Passes >= c.cfg.maxPasses {
			return result, &ConvergenceError{Passes: result.Passes}
		}
		lastAuxHash := auxHash
		result.Passes++

		inv, err := c.invoker.invoke(ctx, ws, req.CompilerPath, req.NonStopMode)
		if err != nil {
			return result, err
		}
		result.ExitCode = inv.ExitCode
		c.logger.Debug("compiler pass finished",
			"pass", result.Passes,
			"exit_code", inv.ExitCode,
			"duration", inv.Duration,
			"base_name", ws.BaseName)

		if inv.ExitCode != 0 {
			return result, &CompileError{
				Diagnostics: extractDiagnostics(ws, inv),
				ExitCode:    inv.ExitCode,
				Pass:        result.Passes,
			}
		}

		auxHash, err = hashAux(ws.AuxPath)
		if err != nil {
			return result, err
		}
		result.AuxHashes = append(result.AuxHashes, auxHash)

		if !req.WaitForConvergence {
			return result, nil
		}
		if auxHash == lastAuxHash {
			if auxHash == noAuxHash {
				c.logger.Warn("aux file missing, treating document as converged",
					"pass", result.Passes,
					"aux_path", ws.AuxPath)
			}
			return result, nil
		}
	}
}
