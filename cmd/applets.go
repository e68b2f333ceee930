package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/circulene/goreutils/commands"
	"github.com/circulene/goreutils/core/runenv"
)

// RunApplet executes a registered applet by name, reporting whether the name
// was known. Used for multicall dispatch when the binary is invoked through a
// link named after an applet.
func RunApplet(name string, args []string) (int, bool) {
	applet, ok := commands.Lookup(name)
	if !ok {
		return 0, false
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1, true
	}

	env := runenv.NewOSEnv(append([]string{name}, args...), cfg)
	return applet.Proc(env), true
}

func init() {
	for _, applet := range commands.ListApplets() {
		applet := applet
		rootCmd.AddCommand(&cobra.Command{
			Use:   applet.Name,
			Short: applet.Short,
			// The applets parse their own flags.
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				env := runenv.NewOSEnv(append([]string{applet.Name}, args...), cfg)
				os.Exit(applet.Proc(env))
				return nil
			},
		})
	}
}
