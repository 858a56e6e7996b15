// cmd/catalogctl/query.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/services"
)

var queryCmd = &cobra.Command{
	Use:   "query [filter query]",
	Short: "List the products of a catalog file that pass a filter query",
	Example: `  catalogctl query --file produtos.json "sem_gluten=true&categoria=Doces"
  catalogctl query --explain "sem_tracos_leite=true"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Catalog.File
		}
		explain, _ := cmd.Flags().GetBool("explain")

		src, err := services.NewFileCatalogProvider(path).Load(cmd.Context())
		if err != nil {
			return err
		}
		idx, err := catalog.NewIndex(src.Products, model.Evaluator())
		if err != nil {
			return err
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		}
		state := model.Decode(query)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "query: %q\n", model.Encode(state))
		if !explain {
			products := idx.Filtered(state)
			for _, p := range products {
				fmt.Fprintln(out, p.Slug)
			}
			fmt.Fprintf(out, "%d of %d products\n", len(products), idx.Len())
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		passed := 0
		for _, p := range idx.Products() {
			verdict, _ := idx.Check(p.Slug, state)
			result := "pass"
			if verdict.Passed {
				passed++
			} else {
				result = "reject " + verdict.Clause
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.Brand(), result)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d of %d products\n", passed, idx.Len())
		return nil
	},
}

func init() {
	queryCmd.Flags().StringP("file", "f", "", "catalog JSON file (default CATALOG_FILE)")
	queryCmd.Flags().Bool("explain", false, "show the verdict for every product")
	rootCmd.AddCommand(queryCmd)
}
