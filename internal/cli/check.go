package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/committed/internal/checks"
	"github.com/dshills/committed/internal/config"
	"github.com/dshills/committed/internal/gitctx"
	"github.com/dshills/committed/internal/output"
	"github.com/dshills/committed/internal/report"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// isReadableStdin reports whether stdin carries a piped or redirected
// message. Tests replace it.
var isReadableStdin = readableStdin

func readableStdin(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	st, err := f.Stat()
	if err != nil {
		return false
	}
	m := st.Mode()
	return m.IsRegular() || m&os.ModeNamedPipe != 0 || m&os.ModeSocket != 0
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	modes := 0
	for _, set := range []bool{len(args) > 0, a.opts.commitFile != "", a.opts.dumpConfig != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return usageError(errors.New("only one of <revspec>, --commit-file or --dump-config may be given"))
	}

	overrides, err := a.overrides(cmd)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(a.opts.format)
	if err != nil {
		return usageError(err)
	}
	colorChoice, err := output.ParseColorChoice(a.opts.color)
	if err != nil {
		return usageError(err)
	}

	// Commit-file, stdin and dump-config modes work outside a repository.
	repo, repoErr := gitctx.Open(a.opts.workTree)
	cfg, err := a.loadConfig(repo, overrides)
	if err != nil {
		return err
	}

	if a.opts.dumpConfig != "" {
		return a.dumpConfig(cmd, cfg)
	}

	if a.opts.quiet {
		format = output.FormatSilent
	}
	out := cmd.OutOrStdout()
	useColor := output.UseColor(colorChoice, out)
	if useColor {
		out = output.ColorableWriter(out)
	}
	w, err := output.GetWriter(format, out, output.Options{Color: useColor, Version: version})
	if err != nil {
		return usageError(err)
	}

	var failed bool
	switch {
	case a.opts.commitFile != "":
		failed, err = a.checkCommitFile(cmd, cfg, w)
	case len(args) > 0:
		if repoErr != nil {
			return usageError(repoErr)
		}
		failed, err = a.checkRevSpec(repo, args[0], cfg, w)
	case isReadableStdin(cmd.InOrStdin()):
		failed, err = a.checkStdin(cmd, cfg, w)
	default:
		if repoErr != nil {
			return usageError(repoErr)
		}
		failed, err = a.checkHead(repo, cfg, w)
	}
	if flushErr := w.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("writing report: %w", flushErr)
	}
	if err != nil {
		return err
	}
	if failed {
		a.exitCode = ExitViolations
	}
	return nil
}

// loadConfig resolves the config file and merges every layer. repo may be
// nil when the work tree is not a repository.
func (a *app) loadConfig(repo *gitctx.Repo, overrides config.Layer) (config.Config, error) {
	path, err := a.configFile(repo)
	if err != nil {
		return config.Config{}, configError(err)
	}
	if path == "" {
		a.logger.Debug("no config file found, using defaults")
	} else {
		a.logger.Debug("loading config", "path", path)
	}
	cfg, err := config.Load(path, overrides)
	if err != nil {
		return config.Config{}, configError(err)
	}
	return cfg, nil
}

// configFile picks --config, then the committed.config git setting, then
// whatever config.Discover finds from the work tree root.
func (a *app) configFile(repo *gitctx.Repo) (string, error) {
	root := a.workTreeRoot(repo)
	explicit := a.opts.configPath
	if explicit == "" && repo != nil {
		if p := repo.ConfigValue("committed", "config"); p != "" {
			if !filepath.IsAbs(p) && root != "" {
				p = filepath.Join(root, p)
			}
			explicit = p
		}
	}
	return config.Discover(root, explicit)
}

func (a *app) workTreeRoot(repo *gitctx.Repo) string {
	if repo != nil && repo.Root() != "" {
		return repo.Root()
	}
	abs, err := filepath.Abs(a.opts.workTree)
	if err != nil {
		return a.opts.workTree
	}
	return abs
}

// dumpConfig writes the fully defaulted config, encoded by the target's
// extension; "-" is TOML on stdout.
func (a *app) dumpConfig(cmd *cobra.Command, cfg config.Config) error {
	path := a.opts.dumpConfig
	if path == "-" {
		return config.Encode(cmd.OutOrStdout(), cfg.Layer(), config.FormatTOML)
	}
	if err := config.Save(path, cfg.Layer()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	a.logger.Info("wrote config", "path", path)
	return nil
}

func (a *app) checkCommitFile(cmd *cobra.Command, cfg config.Config, r report.Reporter) (bool, error) {
	path := a.opts.commitFile
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return false, fmt.Errorf("reading commit message: %w", err)
	}
	return a.checkText(report.Path(path), data, cfg, r), nil
}

func (a *app) checkStdin(cmd *cobra.Command, cfg config.Config, r report.Reporter) (bool, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return false, fmt.Errorf("reading stdin: %w", err)
	}
	return a.checkText(report.Path("-"), data, cfg, r), nil
}

func (a *app) checkText(src report.Source, data []byte, cfg config.Config, r report.Reporter) bool {
	message := gitctx.TrimCommitFile(string(data))
	a.logger.Log(context.Background(), LevelTrace, "Processing", "source", src.String())
	return checks.CheckMessage(src, message, cfg, r)
}

func (a *app) checkRevSpec(repo *gitctx.Repo, spec string, cfg config.Config, r report.Reporter) (bool, error) {
	rs, err := gitctx.ParseRevSpec(spec)
	if err != nil {
		return false, usageError(err)
	}
	rg, err := repo.Resolve(rs)
	if err != nil {
		return false, usageError(err)
	}
	if base, ok := rg.Diverged(); ok {
		a.logger.Info("range start is not an ancestor of its end, walking from merge base",
			"from", rs.From, "to", rs.To, "merge_base", base)
	}

	failed := false
	err = rg.ForEach(func(c gitctx.Commit) error {
		failed = a.checkCommit(c, cfg, r) || failed
		return nil
	})
	if err != nil {
		return failed, fmt.Errorf("walking %s: %w", spec, err)
	}
	return failed, nil
}

func (a *app) checkHead(repo *gitctx.Repo, cfg config.Config, r report.Reporter) (bool, error) {
	c, err := repo.Head()
	if err != nil {
		return false, usageError(err)
	}
	return a.checkCommit(c, cfg, r), nil
}

func (a *app) checkCommit(c gitctx.Commit, cfg config.Config, r report.Reporter) bool {
	src := report.ShortID(c.ShortID)
	if cfg.IgnoresAuthor(c.Author) {
		a.logger.Log(context.Background(), LevelTrace, "Ignoring", "source", src.String(), "author", c.Author)
		return false
	}
	a.logger.Log(context.Background(), LevelTrace, "Processing", "source", src.String())

	failed := checks.CheckMessage(src, c.Message, cfg, r)
	if !cfg.MergeCommit {
		failed = checks.CheckMergeCommit(src, c, r) || failed
	}
	return failed
}
