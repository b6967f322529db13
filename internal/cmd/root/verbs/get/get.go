package get

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kinetta/takeoffctl/internal/admin"
	cmdpkg "github.com/kinetta/takeoffctl/internal/cmd"
	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/kinetta/takeoffctl/internal/cmd/output/jq"
	"github.com/kinetta/takeoffctl/internal/cmd/output/listview"
	"github.com/kinetta/takeoffctl/internal/cmd/root/verbs"
	"github.com/kinetta/takeoffctl/internal/config"
	"github.com/kinetta/takeoffctl/internal/meta"
	"github.com/kinetta/takeoffctl/internal/notify"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/util/i18n"
	"github.com/kinetta/takeoffctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String() + " <entidad> [término]"

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve entity lists")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to print an entity list without entering the interactive console.

An optional trailing argument narrows the list with a server side search.
Output can be formatted as text, json, or yaml, and json output can be
filtered with a jq expression.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Print the client list
		%[1]s get clientes
		# Search projects by name
		%[1]s get proyectos "edificio"
		# Print raw records as JSON
		%[1]s get productos -o json
		# Extract a field with jq
		%[1]s get clientes -o json --jq '.[].rut' -r
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	jq.AddFlags(cmd.PersistentFlags())

	for _, name := range admin.EntityNames {
		cmd.AddCommand(newEntityCmd(name))
	}

	return cmd, nil
}

func newEntityCmd(entity string) *cobra.Command {
	return &cobra.Command{
		Use:   entity + " [término]",
		Short: i18n.T("root.verbs.get."+entity, "Retrieve "+entity),
		Args:  cobra.MaximumNArgs(1),
		PreRun: func(c *cobra.Command, args []string) {
			helper := cmdpkg.BuildHelper(c, args)
			if cfg, err := helper.GetConfig(); err == nil {
				_ = jq.BindFlags(cfg, c.InheritedFlags())
			}
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			return run(helper, entity)
		},
	}
}

func run(helper cmdpkg.Helper, entity string) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}

	client, err := helper.GetAPIClient(cfg, logger)
	if err != nil {
		return err
	}

	adapter, err := admin.ForName(entity, client)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	format, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	// The static view fetches on its own, so the text path does not fetch
	// here first.
	if format == common.TEXT {
		return renderText(helper, adapter)
	}

	records, err := fetch(helper, adapter)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("no se pudo obtener %s", entity), err)
	}
	return renderStructured(helper, cfg, records, format)
}

func fetch(helper cmdpkg.Helper, adapter admin.Adapter) ([]tabular.Record, error) {
	if args := helper.GetArgs(); len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return adapter.Search(helper.GetContext(), strings.TrimSpace(args[0]))
	}
	return adapter.Fetch(helper.GetContext(), false)
}

// renderText reuses the list view's static table so get and browse agree on
// column layout and localized formatting.
func renderText(helper cmdpkg.Helper, adapter admin.Adapter) error {
	opts := []listview.Option{listview.WithStatic()}
	if n, ok := helper.GetContext().Value(notify.NotifierKey).(notify.Notifier); ok {
		opts = append(opts, listview.WithNotifier(n))
	}
	if args := helper.GetArgs(); len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		opts = append(opts,
			listview.WithInitialSearch(args[0]),
			listview.WithTitle(fmt.Sprintf("%s · %q", adapter.Title(), strings.TrimSpace(args[0]))),
		)
	}
	return listview.Render(helper.GetContext(), helper.GetStreams(), adapter, opts...)
}

// renderStructured prints the raw backend entities, optionally through a jq
// filter, as JSON or YAML.
func renderStructured(
	helper cmdpkg.Helper,
	cfg config.Hook,
	records []tabular.Record,
	format common.OutputFormat,
) error {
	raws := make([]any, 0, len(records))
	for _, rec := range records {
		if rec.Raw != nil {
			raws = append(raws, rec.Raw)
		}
	}

	out := helper.GetStreams().Out

	settings, err := jq.ResolveSettings(cfg, helper.GetCmd().Flags())
	if err != nil {
		return err
	}
	if settings.Filter != "" {
		results, err := jq.Apply(raws, settings.Filter)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
		}
		rendered, err := jq.Render(results, settings.RawOutput)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	}

	switch format {
	case common.YAML:
		data, err := json.Marshal(raws)
		if err != nil {
			return err
		}
		rendered, err := yaml.JSONToYAML(data)
		if err != nil {
			return err
		}
		_, err = out.Write(rendered)
		return err
	default:
		p, err := cli.Format(format.String(), out)
		if err != nil {
			return err
		}
		defer p.Flush()
		p.Print(raws)
		return nil
	}
}
