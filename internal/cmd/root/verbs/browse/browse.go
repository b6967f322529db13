package browse

import (
	"context"
	"fmt"

	"github.com/kinetta/takeoffctl/internal/admin"
	cmdpkg "github.com/kinetta/takeoffctl/internal/cmd"
	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/kinetta/takeoffctl/internal/cmd/output/listview"
	"github.com/kinetta/takeoffctl/internal/cmd/root/verbs"
	"github.com/kinetta/takeoffctl/internal/meta"
	"github.com/kinetta/takeoffctl/internal/util/i18n"
	"github.com/kinetta/takeoffctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Browse
)

var (
	browseUse = Verb.String() + " <entidad>"

	browseShort = i18n.T("root.verbs.browse.browseShort", "Browse entity lists interactively")

	browseLong = normalizers.LongDesc(i18n.T("root.verbs.browse.browseLong",
		`Use browse to open an entity list in the interactive console.

The list supports searching, per column filters, sorting, column management,
pinned rows, pagination, and record editing. Press ? inside the view for the
full key reference.`))

	browseExamples = normalizers.Examples(i18n.T("root.verbs.browse.browseExamples",
		fmt.Sprintf(`
		# Browse the client list
		%[1]s browse clientes
		# Browse take-offs with a larger page size
		%[1]s browse cubicaciones --page-size 20
		`, meta.CLIName)))
)

func NewBrowseCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     browseUse,
		Short:   browseShort,
		Long:    browseLong,
		Example: browseExamples,
		Aliases: []string{"b"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmd.PersistentFlags().Int(common.PageSizeFlagName, common.DefaultPageSize,
		i18n.T("root.verbs.browse."+common.PageSizeFlagName,
			fmt.Sprintf("Records shown per page.\n (config path = '%s')", common.PageSizeConfigPath)))

	for _, name := range admin.EntityNames {
		cmd.AddCommand(newEntityCmd(name))
	}

	return cmd, nil
}

func newEntityCmd(entity string) *cobra.Command {
	return &cobra.Command{
		Use:   entity,
		Short: i18n.T("root.verbs.browse."+entity, "Browse "+entity),
		PreRun: func(c *cobra.Command, args []string) {
			bindFlags(c, args)
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmdpkg.BuildHelper(c, args)
			return run(helper, entity)
		},
	}
}

func bindFlags(c *cobra.Command, args []string) {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return
	}
	if f := c.InheritedFlags().Lookup(common.PageSizeFlagName); f != nil {
		_ = cfg.BindFlag(common.PageSizeConfigPath, f)
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

	pageSize := cfg.GetIntOrElse(common.PageSizeConfigPath, common.DefaultPageSize)

	err = listview.Render(helper.GetContext(), helper.GetStreams(), adapter,
		listview.WithPageSize(pageSize),
		listview.WithProfileName(cfg.GetProfile()),
	)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("no se pudo abrir la vista de %s", entity), err)
	}
	return nil
}
