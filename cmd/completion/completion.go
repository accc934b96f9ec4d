// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installHints = map[string]string{
	"bash":       "deckdoc completion bash > /etc/bash_completion.d/deckdoc",
	"zsh":        "deckdoc completion zsh > ~/.zsh/completions/_deckdoc",
	"fish":       "deckdoc completion fish > ~/.config/fish/completions/deckdoc.fish",
	"powershell": "deckdoc completion powershell >> $PROFILE",
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for deckdoc.

Install instructions:
  Bash:       deckdoc completion bash > /etc/bash_completion.d/deckdoc
  Zsh:        deckdoc completion zsh > ~/.zsh/completions/_deckdoc
  Fish:       deckdoc completion fish > ~/.config/fish/completions/deckdoc.fish
  PowerShell: deckdoc completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, ok := installHints[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# deckdoc %s completion\n# Install: %s\n\n", args[0], hint)

			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}
