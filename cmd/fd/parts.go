package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fixdesk/fixdesk/pkg/dashboard"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var partsCmd = &cobra.Command{
	Use:     "parts",
	Aliases: []string{"part", "inventory"},
	Short:   "Work with the spare-part inventory",
}

var partsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spare parts",
	Long: `List spare parts. Filters apply to the whole inventory before paging,
so --page walks the filtered result.`,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		search, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		machine, _ := cmd.Flags().GetString("machine-type")
		stockFlag, _ := cmd.Flags().GetString("stock")

		stock, err := parseStock(stockFlag)
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		filter := dashboard.InventoryFilter{Search: search, Category: category, MachineType: machine, Stock: stock}
		if err := runPartsList(context.Background(), dashboard.NewInventoryView(c), os.Stdout, page, perPage, filter); err != nil {
			handleError(err)
		}
	},
}

var partsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show inventory totals",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		s, err := dashboard.NewInventoryView(c).Summary(context.Background())
		if err != nil {
			handleError(err)
		}

		printSummary(os.Stdout, s, jsonOutput)
	},
}

var partsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a spare part",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		p, err := c.GetSparePart(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printPart(os.Stdout, p, jsonOutput)
	},
}

var partsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a spare part",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := partInputFromFlags(cmd)
		in.Name = &args[0]
		if errs := dashboard.ValidateSparePart(in, true); len(errs) > 0 {
			handleError(formError(errs))
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		p, err := c.CreateSparePart(context.Background(), in)
		if err != nil {
			handleError(err)
		}

		printPart(os.Stdout, p, jsonOutput)
	},
}

var partsSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update a spare part",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := partInputFromFlags(cmd)
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			in.Name = &name
		}
		if errs := dashboard.ValidateSparePart(in, false); len(errs) > 0 {
			handleError(formError(errs))
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		p, err := c.UpdateSparePart(context.Background(), args[0], in)
		if err != nil {
			handleError(err)
		}

		printPart(os.Stdout, p, jsonOutput)
	},
}

var partsImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import spare parts from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := runPartsImport(context.Background(), c, os.Stdout, args[0]); err != nil {
			handleError(err)
		}
	},
}

var partsExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the inventory to a spreadsheet",
	Long:  `Export the inventory to a spreadsheet. Use - to write to standard output.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if args[0] == "-" {
			if err := c.ExportSpareParts(context.Background(), os.Stdout); err != nil {
				handleError(err)
			}
			return
		}
		if err := runPartsExport(context.Background(), c, args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Exported inventory to %s", args[0]), jsonOutput)
	},
}

var partsOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Ask your inventory view to open a part",
	Long: `Leave a short-lived hand-off so the next 'fd parts pending' under the
same actor opens this part. The hand-off expires after 30 seconds.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if _, err := c.PutOpenPart(context.Background(), args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Part %s will open in your inventory view", args[0]), jsonOutput)
	},
}

var partsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Open the part handed off by 'fd parts open'",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		p, err := dashboard.NewInventoryView(c).PendingPart(context.Background())
		if err != nil {
			handleError(err)
		}
		if p == nil {
			printSuccess(os.Stdout, "No part pending", jsonOutput)
			return
		}

		printPart(os.Stdout, p, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsListCmd, partsSummaryCmd, partsShowCmd, partsAddCmd, partsSetCmd,
		partsImportCmd, partsExportCmd, partsOpenCmd, partsPendingCmd)

	partsListCmd.Flags().Int("page", 1, "Page number")
	partsListCmd.Flags().Int("per-page", 20, "Items per page")
	partsListCmd.Flags().String("search", "", "Match name or supplier")
	partsListCmd.Flags().String("category", "", "Filter by category")
	partsListCmd.Flags().String("machine-type", "", "Filter by machine type")
	partsListCmd.Flags().String("stock", "", "Filter by stock level (ok, low, out)")

	for _, c := range []*cobra.Command{partsAddCmd, partsSetCmd} {
		c.Flags().String("category", "", "Category")
		c.Flags().String("machine-type", "", "Machine type")
		c.Flags().Int("quantity", 0, "Quantity in stock")
		c.Flags().Int("min", 0, "Low-stock threshold")
		c.Flags().String("unit", "", "Unit of measure")
		c.Flags().String("supplier", "", "Supplier")
		c.Flags().Float64("price", 0, "Unit price")
	}
	partsSetCmd.Flags().String("name", "", "Part name")
}

// partInputFromFlags collects the changed part flags. Unchanged flags stay
// nil so an update leaves those fields alone.
func partInputFromFlags(cmd *cobra.Command) fixdesk.SparePartInput {
	var in fixdesk.SparePartInput
	flags := cmd.Flags()
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	in.Category = str("category")
	in.MachineType = str("machine-type")
	in.Unit = str("unit")
	in.Supplier = str("supplier")
	in.Quantity = num("quantity")
	in.MinThreshold = num("min")
	if flags.Changed("price") {
		v, _ := flags.GetFloat64("price")
		in.Price = &v
	}
	return in
}

func runPartsList(ctx context.Context, view *dashboard.InventoryView, w io.Writer, page, perPage int, filter dashboard.InventoryFilter) error {
	result, err := view.Page(ctx, page, perPage, filter)
	if err != nil {
		return err
	}
	printPartsPage(w, result, jsonOutput)
	return nil
}

func runPartsImport(ctx context.Context, c *fixdesk.Client, w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := c.ImportSpareParts(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(w, res)
		return nil
	}
	fmt.Fprintf(w, "Imported %s: %d created, %d updated\n", path, res.Created, res.Updated)
	return nil
}

// runPartsExport writes the export to a temp file first so a failed
// download never leaves a truncated spreadsheet behind.
func runPartsExport(ctx context.Context, c *fixdesk.Client, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fd-export-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := c.ExportSpareParts(ctx, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
