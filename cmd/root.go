package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leonardomso/gbconv/internal/logging"
)

// version is set by main.go via SetVersion.
var version = "dev"

// Persistent flag variables shared by every subcommand.
var (
	verbose    bool
	quiet      bool
	noConfig   bool
	configPath string
)

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "gbconv",
	Short:   "Convert GitBook-flavored Markdown into standard Markdown",
	Version: version,
	Long: `gbconv converts a directory of GitBook documents into standard Markdown.

GitBook blocks (code, embed, file, hint, image and tabs) are rewritten into
plain Markdown and locally referenced files are copied next to each converted
document. Use 'convert' for scripts or 'interactive' for a terminal UI.

Examples:
  gbconv convert -s docs -o docs-out
  gbconv convert -s docs -o docs-out --layout=flat
  gbconv convert -s docs -o docs-out --dry-run --format=json
  gbconv interactive -s docs -o docs-out`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log every document and asset")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Only log errors")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .gbconvrc config file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file to use instead of searching for .gbconvrc.yaml/.gbconvrc.toml")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Default().Error(err)
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}
