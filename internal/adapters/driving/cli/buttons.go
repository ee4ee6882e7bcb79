package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var buttonsCmd = &cobra.Command{
	Use:   "buttons",
	Short: "List the buttons of the configured controller",
	Long: `List the button names accepted by the configured controller kind.

These are the names that can be typed in the shell, chained with "&&"
or passed to "repeat".`,
	Args: cobra.NoArgs,
	RunE: runButtons,
}

func init() {
	rootCmd.AddCommand(buttonsCmd)
}

func runButtons(cmd *cobra.Command, _ []string) error {
	session, err := openSession(SessionOptions{})
	if err != nil {
		return err
	}
	defer closeSession(session)

	cmd.Printf("%s: %s\n", session.Controller.Kind(), strings.Join(session.Controller.Buttons(), ", "))
	return nil
}
