package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kinetta/takeoffctl/internal/build"
	"github.com/kinetta/takeoffctl/internal/cmd"
	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/kinetta/takeoffctl/internal/cmd/root/verbs/browse"
	"github.com/kinetta/takeoffctl/internal/cmd/root/verbs/get"
	"github.com/kinetta/takeoffctl/internal/cmd/root/version"
	"github.com/kinetta/takeoffctl/internal/config"
	kerr "github.com/kinetta/takeoffctl/internal/err"
	"github.com/kinetta/takeoffctl/internal/iostreams"
	"github.com/kinetta/takeoffctl/internal/log"
	"github.com/kinetta/takeoffctl/internal/meta"
	"github.com/kinetta/takeoffctl/internal/notify"
	"github.com/kinetta/takeoffctl/internal/profile"
	"github.com/kinetta/takeoffctl/internal/theme"
	"github.com/kinetta/takeoffctl/internal/util"
	"github.com/kinetta/takeoffctl/internal/util/i18n"
	"github.com/kinetta/takeoffctl/internal/util/normalizers"
	"github.com/muesli/termenv"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  takeoffctl is the terminal admin console for the Kinetta construction
  take-off platform.

  Browse, filter, and edit clients, projects, take-offs, and products
  without leaving the shell.`))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s controls the %s backend", meta.CLIName, meta.ProductName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	logger       *slog.Logger
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, "text")
	colorMode    = cmd.NewEnum([]string{
		common.ColorModeAuto.String(),
		common.ColorModeAlways.String(),
		common.ColorModeNever.String(),
	}, common.DefaultColorMode)
	colorTheme = theme.NewFlag(common.DefaultColorTheme)
	logLevel   = common.DefaultLogLevel

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			ctx = context.WithValue(ctx, notify.NotifierKey, notify.NewWriterNotifier(streams.ErrOut, logger))
			cmd.SetContext(ctx)
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	// -------------------------------------------------------------------------
	// Add the output flag, which defines the text output format.
	// This requires some extra gymnastics to ensure that the output flag is
	// from a valid set of values. There may be a way to do this more elegantly
	// in the pFlag library
	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))
	// -------------------------------------------------------------------------

	rootCmd.PersistentFlags().StringVar(&logLevel, common.LogLevelFlagName, common.DefaultLogLevel,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ trace|debug|info|warn|error ]`, common.LogLevelConfigPath))

	rootCmd.PersistentFlags().Var(colorMode, common.ColorFlagName,
		fmt.Sprintf(`Configures when output is colorized.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorConfigPath, strings.Join(colorMode.Allowed, "|")))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Configures the interactive color theme.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(theme.Available(), "|")))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	c, e := browse.NewBrowseCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	c, e = get.NewGetCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	defaultConfigFilePath, e := config.GetDefaultConfigFilePath()
	util.CheckError(e)

	cfg, e := config.GetConfig(configFilePath, currProfile, defaultConfigFilePath)
	util.CheckError(e)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	f := rootCmd.Flags().Lookup(common.OutputFlagName)
	util.CheckError(cfg.BindFlag(common.OutputConfigPath, f))

	f = rootCmd.Flags().Lookup(common.LogLevelFlagName)
	util.CheckError(cfg.BindFlag(common.LogLevelConfigPath, f))

	f = rootCmd.Flags().Lookup(common.ColorFlagName)
	util.CheckError(cfg.BindFlag(common.ColorConfigPath, f))

	f = rootCmd.Flags().Lookup(common.ColorThemeFlagName)
	util.CheckError(cfg.BindFlag(common.ColorThemeConfigPath, f))

	applyColorMode(cfg)
	initTheme(cfg)
	logger = buildLogger(cfg)
}

// applyColorMode forces the lipgloss color profile when the configured mode
// leaves no room for detection. In auto mode the profile stays on lipgloss's
// own terminal detection unless NO_COLOR is set.
func applyColorMode(cfg config.Hook) {
	mode, err := common.ColorModeStringToIota(cfg.GetString(common.ColorConfigPath))
	if err != nil {
		mode = common.ColorModeAuto
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	if p, ok := colorProfileOverride(mode, noColor); ok {
		lipgloss.SetColorProfile(p)
	}
}

func colorProfileOverride(mode common.ColorMode, noColorEnv bool) (termenv.Profile, bool) {
	switch mode {
	case common.ColorModeAlways:
		return termenv.TrueColor, true
	case common.ColorModeNever:
		return termenv.Ascii, true
	default:
		if noColorEnv {
			return termenv.Ascii, true
		}
		return termenv.Ascii, false
	}
}

// initTheme applies the configured palette. An unknown name falls back to the
// default palette instead of failing the command.
func initTheme(cfg config.Hook) {
	name := cfg.GetString(common.ColorThemeConfigPath)
	if name == "" {
		name = common.DefaultColorTheme
	}
	if err := theme.SetCurrent(name); err != nil {
		_ = theme.SetCurrent(common.DefaultColorTheme)
		return
	}
	explicit := name != common.DefaultColorTheme ||
		rootCmd.Flags().Changed(common.ColorThemeFlagName)
	theme.SetConfiguredExplicitly(explicit)
}

// buildLogger writes structured records to the profile's log file and
// mirrors error-level records onto stderr through the console handler.
func buildLogger(cfg config.Hook) *slog.Logger {
	level := log.ConfigLevelStringToSlogLevel(cfg.GetString(common.LogLevelConfigPath))
	console := log.NewConsoleHandler(streams.ErrOut, level)

	logFilePath := cfg.GetString("log-file")
	if logFilePath == "" {
		return slog.New(console)
	}

	if err := util.InitDir(logFilePath, 0o755); err != nil {
		return slog.New(console)
	}
	logFile, err := os.OpenFile(os.ExpandEnv(logFilePath), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return slog.New(console)
	}

	primary := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})
	return slog.New(log.NewDualHandler(primary, console))
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *kerr.ExecutionError
		if errors.As(err, &executionError) {
			if logger != nil {
				logger.Error(executionError.Msg, executionError.Attrs...)
			}
			printer, _ := cli.Format(outputFormat.String(), s.ErrOut)
			// what if the printer build fails here?
			printer.Print(err)
			os.Exit(1)
		}
	}
}
