// Package shell runs the external bundler as a subprocess.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/dll/internal/adapters/detector"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables handed to the bundler.
const (
	EnvDllDir    = "DLL_DIR"
	EnvContext   = "DLL_CONTEXT"
	EnvBundles   = "DLL_BUNDLES"
	EnvEntryFile = "DLL_ENTRY_FILE"
)

// Rebuilder implements ports.Rebuilder by running the configured build command.
type Rebuilder struct {
	interactive func() bool
}

// NewRebuilder creates a new Rebuilder.
func NewRebuilder() *Rebuilder {
	return &Rebuilder{interactive: detector.IsInteractive}
}

// Build writes the entry file for bundles and runs the bundler in the context directory.
func (r *Rebuilder) Build(
	ctx context.Context,
	opts domain.Options,
	bundles []domain.BundleDefinition,
	stdout, stderr io.Writer,
) (*domain.BuildArtifacts, error) {
	if len(opts.Build.Cmd) == 0 {
		return nil, errors.Join(domain.ErrConfiguration, domain.ErrNoBuildCommand)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := writeEntryFile(opts.EntryFilePath(), bundles); err != nil {
		return nil, err
	}

	env := resolveEnvironment(os.Environ(), bundlerEnv(opts, bundles), opts.Build.Env)
	cmd := newCommand(ctx, opts.Build.Cmd, env)
	cmd.Dir = opts.Context

	start := time.Now()
	var err error
	if detector.ResolveTTY(opts.Build.TTY, r.interactive) {
		err = runPTY(cmd, stdout)
	} else {
		err = runPipes(cmd, stdout, stderr)
	}
	if err != nil {
		return nil, err
	}

	artifacts := &domain.BuildArtifacts{
		Bundles:  make([]domain.BundleArtifact, len(bundles)),
		Duration: time.Since(start),
	}
	for i, b := range bundles {
		artifacts.Bundles[i] = domain.BundleArtifact{
			Name:     b.Name,
			File:     opts.BundlePath(b.Name),
			Manifest: opts.ManifestPath(b.Name),
		}
	}
	return artifacts, nil
}

func writeEntryFile(path string, bundles []domain.BundleDefinition) error {
	entries := make(map[string][]string, len(bundles))
	for _, b := range bundles {
		entries[b.Name] = b.EntryPackages()
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrEntryFileWriteFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEntryFileWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Path is derived from the resolved bundle directory
	if err := os.WriteFile(path, append(data, '\n'), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEntryFileWriteFailed.Error()), "path", path)
	}
	return nil
}

func bundlerEnv(opts domain.Options, bundles []domain.BundleDefinition) map[string]string {
	return map[string]string{
		EnvDllDir:    opts.DllDir,
		EnvContext:   opts.Context,
		EnvBundles:   strings.Join(domain.BundleNames(bundles), ","),
		EnvEntryFile: opts.EntryFilePath(),
	}
}

// resolveEnvironment merges the system environment with the bundler variables
// and the configured overrides, in increasing priority.
func resolveEnvironment(sysEnv []string, dllEnv, buildEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(dllEnv)+len(buildEnv))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range dllEnv {
		envMap[k] = v
	}
	for k, v := range buildEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

func newCommand(ctx context.Context, argv, env []string) *exec.Cmd {
	name := argv[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Env = env
	return cmd
}

func runPipes(cmd *exec.Cmd, stdout, stderr io.Writer) error {
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBundlerStartFailed.Error()), "command", cmd.Args[0])
	}
	return wait(cmd)
}

// runPTY runs cmd attached to a pseudo-terminal. Both output streams arrive
// merged on the terminal and are copied to stdout.
func runPTY(cmd *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBundlerStartFailed.Error()), "command", cmd.Args[0])
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child exits.
		_, _ = io.Copy(stdout, ptmx)
	}()

	err = wait(cmd)
	<-ioDone
	_ = ptmx.Close()
	return err
}

func wait(cmd *exec.Cmd) error {
	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "bundler failed"), "exit_code", exitCode)
	}
	return nil
}

// lookPath searches for an executable in the PATH of env rather than the
// current process, so build.env can override PATH.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
