package cli

import (
	"fmt"

	"github.com/dshills/committed/internal/config"
	"github.com/dshills/committed/internal/output"
	"github.com/dshills/committed/internal/style"
	"github.com/spf13/cobra"
)

type options struct {
	// shared with subcommands
	workTree   string
	configPath string
	verbose    int
	quiet      bool

	commitFile string
	dumpConfig string
	format     string
	color      string

	mergeCommit   bool
	noMergeCommit bool
	wip           bool
	noWip         bool
	fixup         bool
	noFixup       bool

	style          string
	subjectLength  int
	lineLength     int
	hardLineLength int
}

func (a *app) bindFlags(cmd *cobra.Command) {
	o := &a.opts

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.workTree, "work-tree", ".", "Repository to check")
	pf.StringVar(&o.configPath, "config", "", "Config file (default: committed.toml in the work tree)")
	pf.CountVarP(&o.verbose, "verbose", "v", "More log output (repeatable)")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "No log output and no report")

	f := cmd.Flags()
	f.StringVar(&o.commitFile, "commit-file", "", "Check the message in a file, - for stdin")
	f.StringVar(&o.dumpConfig, "dump-config", "", "Write the effective config to a file, - for stdout")
	f.StringVar(&o.format, "format", string(output.FormatBrief), "Output format (silent, brief, json, sarif, markdown)")
	f.StringVar(&o.color, "color", string(output.ColorAuto), "Colorize output (auto, always, never)")

	f.BoolVar(&o.mergeCommit, "merge-commit", false, "Allow merge commits")
	f.BoolVar(&o.noMergeCommit, "no-merge-commit", false, "Disallow merge commits")
	f.BoolVar(&o.wip, "wip", false, "Allow work-in-progress commits")
	f.BoolVar(&o.noWip, "no-wip", false, "Disallow work-in-progress commits")
	f.BoolVar(&o.fixup, "fixup", false, "Allow fixup commits")
	f.BoolVar(&o.noFixup, "no-fixup", false, "Disallow fixup commits")

	f.StringVar(&o.style, "style", "", "Commit grammar (none, conventional)")
	f.IntVar(&o.subjectLength, "subject-length", 0, "Maximum subject length, 0 disables")
	f.IntVar(&o.lineLength, "line-length", 0, "Maximum soft line length, 0 disables")
	f.IntVar(&o.hardLineLength, "hard-line-length", 0, "Maximum line length, 0 disables")
}

// overrides turns the flags that were set into the top config layer.
func (a *app) overrides(cmd *cobra.Command) (config.Layer, error) {
	var l config.Layer
	var err error

	if l.MergeCommit, err = boolPair(cmd, "merge-commit", "no-merge-commit"); err != nil {
		return l, err
	}
	allowWip, err := boolPair(cmd, "wip", "no-wip")
	if err != nil {
		return l, err
	}
	l.NoWip = negate(allowWip)
	allowFixup, err := boolPair(cmd, "fixup", "no-fixup")
	if err != nil {
		return l, err
	}
	l.NoFixup = negate(allowFixup)

	if cmd.Flags().Changed("style") {
		s, err := style.ParseName(a.opts.style)
		if err != nil {
			return l, usageError(err)
		}
		name := string(s)
		l.Style = &name
	}

	for _, f := range []struct {
		name string
		val  int
		dst  **int
	}{
		{"subject-length", a.opts.subjectLength, &l.SubjectLength},
		{"line-length", a.opts.lineLength, &l.LineLength},
		{"hard-line-length", a.opts.hardLineLength, &l.HardLineLength},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if f.val < 0 {
			return l, usageError(fmt.Errorf("--%s must not be negative, got %d", f.name, f.val))
		}
		n := f.val
		*f.dst = &n
	}
	return l, nil
}

// boolPair resolves a --x/--no-x flag pair to nil when neither was given.
func boolPair(cmd *cobra.Command, yes, no string) (*bool, error) {
	y, n := cmd.Flags().Changed(yes), cmd.Flags().Changed(no)
	var v bool
	switch {
	case y && n:
		return nil, usageError(fmt.Errorf("--%s and --%s cannot be used together", yes, no))
	case y:
		v = true
	case n:
		v = false
	default:
		return nil, nil
	}
	return &v, nil
}

func negate(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := !*b
	return &v
}
