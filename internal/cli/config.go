package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after applying defaults. Redirect the output to
create a config file:

  coarsen config > ~/.config/coarsen/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return err
				}
				path = p
			}
			printKeyValue("config", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printWarning("file does not exist, defaults apply")
			}
			return nil
		},
	})

	return cmd
}
