package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/pkg/store"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shotgrid.

Edit arguments complete to edit files and to the ids of stored edits.

To load completions:

Bash:
  $ source <(shotgrid completion bash)

Zsh:
  $ shotgrid completion zsh > "${fpath[1]}/_shotgrid"

Fish:
  $ shotgrid completion fish > ~/.config/fish/completions/shotgrid.fish

PowerShell:
  PS> shotgrid completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeEdits offers stored edit ids alongside the shell's file
// completion. Completion runs before PersistentPreRunE, so the config is
// loaded here.
func (c *CLI) completeEdits(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	st, err := store.Open(cmd.Context(), c.Config.Store, c.Logger)
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	defer st.Close()
	edits, err := st.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	ids := make([]string, 0, len(edits))
	for _, e := range edits {
		ids = append(ids, e.ID+"\t"+e.Name)
	}
	return ids, cobra.ShellCompDirectiveDefault
}
