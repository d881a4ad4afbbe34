package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"drylog/internal/export"
	"drylog/internal/query"
	"drylog/internal/record"
)

var (
	listType    string
	listModel   string
	listPage    int
	listSortKey string
	listSortAsc bool
	listStart   string
	listEnd     string
	listRTO     string
	listHeating string
	listRemark  string
	listField   string
	listMin     float64
	listMax     float64
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records in the current scope",
	Long: `List the records of one record type and dryer model, filtered,
sorted and paginated.

Examples:
  drylog list
  drylog list --model=vt5 --type=條件設定
  drylog list --start=2025-01-01 --end=2025-01-31 --rto=有
  drylog list --sort=dateTime --asc --page=2
  drylog list --field=airVolumes.supply_front.speed --min=3 --max=8`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Record type (評價 or 條件設定)")
	listCmd.Flags().StringVar(&listModel, "model", "", "Dryer model (vt1, vt5, vt6, vt7, vt8)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().StringVar(&listSortKey, "sort", "dateTime", "Sort field key")
	listCmd.Flags().BoolVar(&listSortAsc, "asc", false, "Sort ascending instead of descending")
	listCmd.Flags().StringVar(&listStart, "start", "", "Start date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listEnd, "end", "", "End date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listRTO, "rto", "", "RTO status filter (有 or 無)")
	listCmd.Flags().StringVar(&listHeating, "heating", "", "Heating status filter (有 or 無)")
	listCmd.Flags().StringVar(&listRemark, "remark", "", "Remark substring filter")
	listCmd.Flags().StringVar(&listField, "field", "", "Numeric field key for range filter")
	listCmd.Flags().Float64Var(&listMin, "min", 0, "Lower bound for --field")
	listCmd.Flags().Float64Var(&listMax, "max", 0, "Upper bound for --field")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	recType, model, err := env.resolveScope(listType, listModel)
	if err != nil {
		return err
	}

	filters := query.Filters{
		StartDate:     listStart,
		EndDate:       listEnd,
		RTOStatus:     record.ParseTriState(listRTO),
		HeatingStatus: record.ParseTriState(listHeating),
		Remark:        listRemark,
	}
	if listField != "" {
		filters.Field = listField
		if cmd.Flags().Changed("min") {
			filters.Min = record.Float(listMin)
		}
		if cmd.Flags().Changed("max") {
			filters.Max = record.Float(listMax)
		}
	}

	res := query.Run(env.store.All(),
		query.Scope{RecordType: recType, DryerModel: model},
		filters,
		query.Sort{Key: listSortKey, Descending: !listSortAsc},
		listPage, env.store.EditingID(), env.schemas)

	if len(res.PageRecords) == 0 {
		fmt.Println("沒有符合條件的紀錄")
		return nil
	}

	headers, rows := export.TableRows(res.PageRecords, recType, model, env.schemas)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t"+joinTabs(headers))
	for i, r := range res.PageRecords {
		line := r.ID
		for _, h := range headers {
			line += "\t" + rows[i][h]
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()

	fmt.Printf("\n第 %d / %d 頁\n", res.CurrentPage, res.TotalPages)
	return nil
}

func joinTabs(headers []string) string {
	out := ""
	for i, h := range headers {
		if i > 0 {
			out += "\t"
		}
		out += h
	}
	return out
}
