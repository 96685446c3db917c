package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/committed/internal/gitctx"
	"github.com/dshills/committed/internal/output"
	"github.com/spf13/cobra"
)

const (
	hookName        = "commit-msg"
	hookMarkerStart = "# >>> committed commit-msg hook >>>"
	hookMarkerEnd   = "# <<< committed commit-msg hook <<<"
)

func (a *app) newHookCmd() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the git commit-msg hook",
	}

	var format string
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install committed as a git commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return usageError(err)
			}
			hookPath, err := a.hookPath()
			if err != nil {
				return err
			}

			section := generateHookScript(string(f))

			existing, err := os.ReadFile(hookPath)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading hook file: %w", err)
			}

			var content string
			if len(existing) == 0 {
				content = "#!/bin/sh\n" + section
			} else {
				content = replaceHookSection(string(existing), section)
			}
			if exitsBeforeSection(content) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s exits before the committed section; the check may never run\n", hookPath)
			}

			if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
				return fmt.Errorf("creating hooks directory: %w", err)
			}
			if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
				return fmt.Errorf("writing hook file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed committed %s hook at %s\n", hookName, hookPath)
			return nil
		},
	}
	installCmd.Flags().StringVar(&format, "format", "brief", "Output format used by the hook")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the committed commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hookPath, err := a.hookPath()
			if err != nil {
				return err
			}

			existing, err := os.ReadFile(hookPath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s hook found.\n", hookName)
					return nil
				}
				return fmt.Errorf("reading hook file: %w", err)
			}

			content := removeHookSection(string(existing))

			// Only a shebang left: the hook was ours alone.
			trimmed := strings.TrimSpace(content)
			if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
				if err := os.Remove(hookPath); err != nil {
					return fmt.Errorf("removing hook file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed committed %s hook at %s\n", hookName, hookPath)
				return nil
			}

			if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
				return fmt.Errorf("writing hook file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed committed section from %s\n", hookPath)
			return nil
		},
	}

	hookCmd.AddCommand(installCmd)
	hookCmd.AddCommand(uninstallCmd)
	return hookCmd
}

func (a *app) hookPath() (string, error) {
	repo, err := gitctx.Open(a.opts.workTree)
	if err != nil {
		return "", usageError(err)
	}
	dir, err := repo.HooksDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, hookName), nil
}

func generateHookScript(format string) string {
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	fmt.Fprintf(&b, "committed --format %s --commit-file \"$1\"\n", format)
	b.WriteString("COMMITTED_EXIT=$?\n")
	b.WriteString("if [ $COMMITTED_EXIT -eq 1 ]; then\n")
	b.WriteString("  echo \"committed: commit message rejected\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("elif [ $COMMITTED_EXIT -ne 0 ]; then\n")
	b.WriteString("  echo \"committed: warning, check did not run (exit $COMMITTED_EXIT), allowing commit\"\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

// exitsBeforeSection reports whether a line ahead of the committed section
// starts with exit or exec.
func exitsBeforeSection(content string) bool {
	before, _, _ := strings.Cut(content, hookMarkerStart)
	for _, line := range strings.Split(before, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && (fields[0] == "exit" || fields[0] == "exec") {
			return true
		}
	}
	return false
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + after
}
