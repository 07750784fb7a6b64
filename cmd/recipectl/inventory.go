package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/internal/service"
)

func newInventoryCommand(ctx *commandContext) *cobra.Command {
	var lowStock float64

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show the freezer inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensure(); err != nil {
				return err
			}
			threshold := lowStock
			if !cmd.Flags().Changed("low-stock") {
				threshold = ctx.cfg.LowStockThreshold
			}
			inv, err := ctx.freezerService().Inventory(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			printInventory(cmd.OutOrStdout(), inv)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lowStock, "low-stock", service.DefaultLowStockThreshold, "Flag items with fewer units than this")
	return cmd
}

func printInventory(out io.Writer, inv *service.Inventory) {
	if inv.Total == 0 {
		fmt.Fprintln(out, "Freezer is empty")
		return
	}
	low := make(map[string]bool, len(inv.LowStock))
	for _, it := range inv.LowStock {
		low[it.ID.String()] = true
	}

	rows := make([][]string, 0, inv.Total)
	for _, g := range inv.Groups {
		for _, it := range g.Items {
			flag := ""
			if low[it.ID.String()] {
				flag = "LOW"
			}
			rows = append(rows, []string{
				string(g.Category),
				it.ItemName,
				strconv.FormatFloat(it.Quantity, 'f', -1, 64),
				string(it.Unit),
				flag,
			})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Category", "Item", "Qty", "Unit", ""}, rows, 3))
	fmt.Fprintf(out, "%d items, %d low on stock\n", inv.Total, len(inv.LowStock))
}
