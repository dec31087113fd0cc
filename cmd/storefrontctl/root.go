package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. The caller closes the returned app
// once Execute returns, whether or not the command failed.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	var flags globalFlags

	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Manage a storefront catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			return a.init(cmd.Context(), flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "storefront API base URL (overrides STOREFRONT_API_URL)")
	pf.StringVar(&flags.backend, "store", "", "session store backend: sqlite, memory, redis, mongo")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	pf.BoolVar(&flags.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newValidateCmd(a),
		newForgotPasswordCmd(a),
		newProductsCmd(a),
		newCategoriesCmd(a),
		newUsersCmd(a),
		newUploadCmd(a),
		newReportCmd(a),
		newThemeCmd(a),
	)
	return root, a
}
