package layoutdb

import (
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/model"
	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Inspect components in the graph",
}

var (
	listOrderBy      string
	listDirection    string
	listLo           int
	listHi           int
	listNameFilter   string
	listTypeFilter   string
	listVersionName  string
	listShowCount    bool
)

var componentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active components, paginated and filtered",
	RunE:  runComponentsList,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
	componentsCmd.AddCommand(componentsListCmd)

	componentsListCmd.Flags().StringVar(&listOrderBy, "order-by", "name", "sort key: name, type, or version")
	componentsListCmd.Flags().StringVar(&listDirection, "direction", "asc", "sort direction: asc or desc")
	componentsListCmd.Flags().IntVar(&listLo, "lo", 0, "lower bound of the pagination window (inclusive)")
	componentsListCmd.Flags().IntVar(&listHi, "hi", 0, "upper bound of the pagination window (exclusive, 0 means unbounded)")
	componentsListCmd.Flags().StringVar(&listNameFilter, "name-contains", "", "only components whose name contains this substring")
	componentsListCmd.Flags().StringVar(&listTypeFilter, "type", "", "only components of this exact component type name")
	componentsListCmd.Flags().StringVar(&listVersionName, "version", "", "only components of this exact component version name")
	componentsListCmd.Flags().BoolVar(&listShowCount, "count", false, "print only the matching count, not the list")
}

func runComponentsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	gw, log, closeFn, err := openGateway(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var filters []model.ComponentFilter
	if listNameFilter != "" || listTypeFilter != "" || listVersionName != "" {
		filters = []model.ComponentFilter{{
			NameSubstring: listNameFilter,
			TypeName:      listTypeFilter,
			VersionName:   listVersionName,
		}}
	}

	if listShowCount {
		count, err := model.GetCount(ctx, gw, sharedCache, filters)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
		return nil
	}

	components, err := model.GetList(ctx, gw, sharedCache, model.Range{Lo: listLo, Hi: listHi}, listOrderBy, model.OrderDirection(listDirection), filters)
	if err != nil {
		return err
	}

	log.Info("listed components", "count", len(components), "order_by", listOrderBy, "direction", listDirection)

	for _, comp := range components {
		typeName, versionName := "", ""
		if comp.Type != nil {
			typeName = comp.Type.Name
		}
		if comp.Version != nil {
			versionName = comp.Version.Name
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\ttype=%s\tversion=%s\n", comp.ID(), comp.Name, typeName, versionName)
	}
	return nil
}
