package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/circulene/goreutils/core/config"
)

var cfgPath string

func loadConfig() (*config.Config, error) {
	return config.Load(afero.NewOsFs(), cfgPath)
}

// defaultConfigPath puts the config under the platform config directory,
// falling back to the working directory.
func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return config.ConfigurationName
	}
	return filepath.Join(base, "goreutils", config.ConfigurationName)
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "goreutils",
	Short: "Everyday text and filesystem utilities in one binary",
	Long: `A multicall suite of everyday text and filesystem utilities.

Each utility is available as a subcommand, or directly by installing a
symlink named after the utility next to the binary.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config file path")
}
