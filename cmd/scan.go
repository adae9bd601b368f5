package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tally/pkg/analyze"
)

var (
	scanLang             string
	scanPath             string
	scanExcludeDirs      []string
	scanExtensions       []string
	scanExcludeFilenames []string
	scanKeepDotDirs      bool
	scanSkipErrors       bool
	scanGitignore        bool
	scanWorkers          int
	scanVerbose          bool
)

// scanCmd runs the full pipeline: collect matching files under a root and
// report aggregate line and keyword statistics for one language.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze a directory tree and report code statistics",
	Long: `Scan walks the given path for source files of the selected language,
skipping excluded directories, marker-file subtrees, and excluded
filenames, then counts total lines, code lines, and keyword frequencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := scanPath
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determining current directory: %w", err)
			}
			path = cwd
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("path %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path must be a directory, not a file: %s", path)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return analyze.Execute(ctx, analyze.Arguments{
			Path:             path,
			Language:         scanLang,
			ExcludeDirs:      scanExcludeDirs,
			Extensions:       scanExtensions,
			ExcludeFilenames: scanExcludeFilenames,
			KeepDotDirs:      scanKeepDotDirs,
			SkipErrors:       viper.GetBool("skip_errors"),
			UseGitignore:     viper.GetBool("gitignore"),
			MaxWorkers:       viper.GetInt("workers"),
			Verbose:          viper.GetBool("verbose"),
		}, cmd.OutOrStdout(), logger)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanLang, "lang", "l", "", "language to analyze (python|py, rust|rs)")
	scanCmd.Flags().StringVarP(&scanPath, "path", "p", "", "directory to analyze (default: current directory)")
	scanCmd.Flags().StringArrayVarP(&scanExcludeDirs, "exclude-dir", "d", nil, "extra directory name to exclude (repeatable)")
	scanCmd.Flags().StringArrayVarP(&scanExtensions, "extension", "e", nil, "extra file extension to include (repeatable)")
	scanCmd.Flags().StringArrayVarP(&scanExcludeFilenames, "exclude-file", "f", nil, "extra filename to exclude (repeatable)")
	scanCmd.Flags().BoolVar(&scanKeepDotDirs, "include-dot-dirs", false, "walk into dot-directories like .git")
	scanCmd.Flags().BoolVar(&scanSkipErrors, "skip-errors", true, "record unreadable directories instead of aborting")
	scanCmd.Flags().BoolVar(&scanGitignore, "gitignore", false, "also honor the root .gitignore")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "classification workers (0 = number of CPUs)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "list collected files and errors")

	_ = scanCmd.MarkFlagRequired("lang")

	// Config file values fill in for flags the user did not set.
	_ = viper.BindPFlag("skip_errors", scanCmd.Flags().Lookup("skip-errors"))
	_ = viper.BindPFlag("gitignore", scanCmd.Flags().Lookup("gitignore"))
	_ = viper.BindPFlag("workers", scanCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("verbose", scanCmd.Flags().Lookup("verbose"))

	cobra.OnInitialize(initConfig)
	RootCmd.AddCommand(scanCmd)
}

// initConfig reads defaults from .tally.yaml in the working directory or
// the home directory, if one exists.
func initConfig() {
	viper.SetConfigName(".tally")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("TALLY")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
