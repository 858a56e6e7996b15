// cmd/catalogctl/encode.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aplv/catalogo-api/internal/catalog"
)

var encodeCmd = &cobra.Command{
	Use:   "encode key=value...",
	Short: "Apply filter changes in order and print the resulting query string",
	Example: `  catalogctl encode sem_tracos_leite=true search="bolo de fubá"
  catalogctl encode --from "sem_leite=true&sem_tracos_leite=true" sem_leite=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")

		state := model.Decode(from)
		for _, arg := range args {
			key, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			value, err := parseFilterValue(key, raw)
			if err != nil {
				return err
			}
			state, err = model.Apply(state, key, value)
			if err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), model.Encode(state))
		return nil
	},
}

// parseFilterValue reads toggles as booleans and everything else as text.
func parseFilterValue(key, raw string) (any, error) {
	if !catalog.IsFilterKey(key) {
		return raw, nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", catalog.ErrInvalidValue, key, raw)
	}
	return on, nil
}

func init() {
	encodeCmd.Flags().String("from", "", "query string to start from instead of the default state")
	rootCmd.AddCommand(encodeCmd)
}
