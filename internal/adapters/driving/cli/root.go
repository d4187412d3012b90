// Package cli implements the memo command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// HomeEnv overrides the default data directory.
const HomeEnv = "MEMO_HOME"

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "memo/no-services"

var version = "dev"

var (
	verbose  bool
	homeFlag string
)

// Services bundles what the commands run against.
type Services struct {
	Memo      driving.MemoService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler
	Watcher   driven.MemoWatcher

	// AppSettings are the settings the services were built from.
	AppSettings domain.AppSettings

	// MemoDir is the directory memos are stored under.
	MemoDir string

	// Close releases everything the bootstrapper opened.
	Close func() error
}

// Bootstrapper builds the services for a data directory.
type Bootstrapper func(home string) (*Services, error)

var (
	bootstrapper Bootstrapper
	bootstrapped *Services

	memoService     driving.MemoService
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	memoWatcher     driven.MemoWatcher
	appSettings     = domain.DefaultAppSettings()
	memoDir         string
)

var rootCmd = &cobra.Command{
	Use:   "memo",
	Short: "Personal memos with semantic search",
	Long: `memo stores short notes as plain text files and keeps an exact vector
index over them, so memos can be found by meaning as well as by words.

Memos live under <home>/memos/<category>/ and can be edited by other tools;
run 'memo index catchup' or 'memo watch' to pick up files written elsewhere.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: closeServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "data directory (default $MEMO_HOME or ~/.memo)")
}

// Execute runs the root command. Output goes to stdout so that results can
// be piped; cobra would otherwise default to stderr.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

// SetVersion sets the version reported by 'memo version'.
func SetVersion(v string) {
	version = v
}

// SetBootstrapper sets the function that builds services before a command runs.
func SetBootstrapper(b Bootstrapper) {
	bootstrapper = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		memoService = nil
		settingsService = nil
		scheduler = nil
		memoWatcher = nil
		appSettings = domain.DefaultAppSettings()
		memoDir = ""
		return
	}
	memoService = s.Memo
	settingsService = s.Settings
	scheduler = s.Scheduler
	memoWatcher = s.Watcher
	appSettings = s.AppSettings
	memoDir = s.MemoDir
}

// ResolveHome returns the data directory: the flag value, then $MEMO_HOME,
// then ~/.memo.
func ResolveHome(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(HomeEnv); env != "" {
		return filepath.Abs(env)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(userHome, ".memo"), nil
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" || bootstrapper == nil {
		return nil
	}
	if settingsService != nil {
		// Already installed, e.g. by tests.
		return nil
	}

	home, err := ResolveHome(homeFlag)
	if err != nil {
		return err
	}
	logger.Debug("using data directory %s", home)

	s, err := bootstrapper(home)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	bootstrapped = s
	SetServices(s)
	return nil
}

func closeServices(_ *cobra.Command, _ []string) error {
	if bootstrapped == nil {
		return nil
	}
	s := bootstrapped
	bootstrapped = nil
	SetServices(nil)
	if s.Close != nil {
		return s.Close()
	}
	return nil
}

// requireMemoService returns the memo service or a hint at why it is missing.
func requireMemoService() (driving.MemoService, error) {
	if memoService == nil {
		return nil, errors.New("memo service not configured. Run 'memo settings' to check the embedding provider")
	}
	return memoService, nil
}
