package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// confirm shows what the run is about to do and waits for an explicit
// "yes". --yes skips the prompt. Without --yes a non-interactive stdin is
// refused rather than read, so piped input cannot approve a write.
func (a *app) confirm(cmd *cobra.Command, summary []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Please confirm:")
	for _, line := range summary {
		fmt.Fprintln(out, "  "+line)
	}

	if a.flags.yes {
		return nil
	}
	if !a.isTerminal() {
		return fmt.Errorf("%w: stdin is not a terminal; rerun with --yes", types.ErrNotConfirmed)
	}

	fmt.Fprint(out, "Are these IDs correct? (yes/no): ")
	answer, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		fmt.Fprintln(out, "Update user_id and section_id in config.yaml or the environment, then rerun.")
		return types.ErrNotConfirmed
	}
	return nil
}

// ownerSummary lists the owner identifiers shown by every confirmation.
func ownerSummary(cfg types.Config) []string {
	return []string{
		"user_id:    " + cfg.UserID,
		"section_id: " + cfg.SectionID,
	}
}
