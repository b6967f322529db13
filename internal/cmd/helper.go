package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/build"
	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/kinetta/takeoffctl/internal/cmd/root/verbs"
	"github.com/kinetta/takeoffctl/internal/config"
	kerr "github.com/kinetta/takeoffctl/internal/err"
	"github.com/kinetta/takeoffctl/internal/iostreams"
	"github.com/kinetta/takeoffctl/internal/log"
	"github.com/spf13/cobra"
)

// InteractiveFlagName toggles the full-screen list view on commands that
// support both interactive and static rendering.
const InteractiveFlagName = "interactive"

type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetVerb() (verbs.VerbValue, error)
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	IsInteractive() (bool, error)
	GetLogger() (*slog.Logger, error)
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
	GetAPIClient(cfg config.Hook, logger *slog.Logger) (*api.Client, error)
}

type CommandHelper struct {
	// Cmd is a pointer to the command that is being executed
	Cmd *cobra.Command
	// Args are the arguments (not flags) passed to the command
	Args []string
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	val := r.Cmd.Context().Value(build.InfoKey)
	if val == nil {
		return nil, &kerr.ConfigurationError{
			Err: fmt.Errorf("no build info configured"),
		}
	}

	info, ok := val.(*build.Info)
	if !ok || info == nil {
		return nil, &kerr.ConfigurationError{
			Err: fmt.Errorf("invalid build info configured"),
		}
	}

	return info, nil
}

func (r *CommandHelper) GetLogger() (*slog.Logger, error) {
	rv, ok := r.Cmd.Context().Value(log.LoggerKey).(*slog.Logger)
	if !ok || rv == nil {
		return nil, &kerr.ConfigurationError{
			Err: fmt.Errorf("no logger configured"),
		}
	}
	return rv, nil
}

func (r *CommandHelper) GetVerb() (verbs.VerbValue, error) {
	verbVal := r.Cmd.Context().Value(verbs.Verb)
	if verbVal == nil {
		return "", PrepareExecutionErrorMsg(r, "no verb found in context")
	}
	return verbVal.(verbs.VerbValue), nil
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	return r.Cmd.Context().Value(iostreams.StreamsKey).(*iostreams.IOStreams)
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	cfgVal := r.Cmd.Context().Value(config.ConfigKey)
	if cfgVal == nil {
		return nil, PrepareExecutionErrorMsg(r, "no config found in context")
	}
	return cfgVal.(config.Hook), nil
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	s := c.GetString(common.OutputConfigPath)
	rv, e := common.OutputFormatStringToIota(s)
	if e != nil {
		return common.TEXT, e
	}
	return rv, nil
}

func (r *CommandHelper) IsInteractive() (bool, error) {
	flag := r.Cmd.Flags().Lookup(InteractiveFlagName)
	if flag == nil {
		flag = r.Cmd.InheritedFlags().Lookup(InteractiveFlagName)
	}
	if flag == nil {
		return false, nil
	}

	val := flag.Value.String()
	if val == "" {
		return false, nil
	}

	interactive, err := strconv.ParseBool(val)
	if err != nil {
		return false, &kerr.ConfigurationError{
			Err: fmt.Errorf("invalid value %q for --%s flag", val, InteractiveFlagName),
		}
	}
	return interactive, nil
}

func (r *CommandHelper) GetContext() context.Context {
	return r.Cmd.Context()
}

func (r *CommandHelper) GetAPIClient(cfg config.Hook, logger *slog.Logger) (*api.Client, error) {
	factory, ok := r.Cmd.Context().Value(api.ClientFactoryKey).(api.ClientFactory)
	if !ok || factory == nil {
		factory = api.DefaultClientFactory
	}
	client, err := factory(cfg, logger)
	if err != nil {
		return nil, PrepareExecutionErrorFromErr(r, err)
	}
	return client, nil
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}

// PrepareExecutionErrorWithHelper mirrors PrepareExecutionError but accepts a Helper.
// It ensures command usage/error output is silenced for runtime failures.
func PrepareExecutionErrorWithHelper(helper Helper, msg string, err error, attrs ...any) *kerr.ExecutionError {
	if helper == nil {
		return &kerr.ExecutionError{Msg: msg, Err: err, Attrs: attrs}
	}
	return PrepareExecutionError(msg, err, helper.GetCmd(), attrs...)
}

// PrepareExecutionErrorFromErr converts an arbitrary error into an ExecutionError while
// silencing usage/error output on the associated command. The friendly message defaults
// to the underlying error string when msg is empty.
func PrepareExecutionErrorFromErr(helper Helper, err error, attrs ...any) *kerr.ExecutionError {
	if err == nil {
		return nil
	}
	return PrepareExecutionErrorWithHelper(helper, err.Error(), err, attrs...)
}

// PrepareExecutionErrorMsg builds an ExecutionError from a message when a backing error
// is not already available.
func PrepareExecutionErrorMsg(helper Helper, msg string, attrs ...any) *kerr.ExecutionError {
	if msg == "" {
		msg = "an unknown error occurred"
	}
	return PrepareExecutionErrorWithHelper(helper, msg, fmt.Errorf("%s", msg), attrs...)
}

// This will construct an execution error AND turn off error and usage output for the command
func PrepareExecutionError(msg string, err error, cmd *cobra.Command, attrs ...any) *kerr.ExecutionError {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return &kerr.ExecutionError{
		Msg:   msg,
		Err:   err,
		Attrs: attrs,
	}
}
