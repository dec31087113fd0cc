package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThemeCmd(a *app) *cobra.Command {
	var toggle bool
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the dark mode preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				dark bool
				err  error
			)
			if toggle {
				dark, err = a.prefs.ToggleDarkMode(cmd.Context())
			} else {
				dark, err = a.prefs.DarkMode(cmd.Context())
			}
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(map[string]bool{"darkMode": dark})
			}
			mode := "light"
			if dark {
				mode = "dark"
			}
			fmt.Fprintf(a.out, "Theme: %s\n", mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toggle, "toggle", false, "switch between light and dark")
	return cmd
}
