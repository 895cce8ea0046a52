package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/model"
)

var (
	resolveLat      float64
	resolveLon      float64
	resolveHasCoord bool
	resolveCountry  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <company name>",
	Short: "Resolve a free-text company mention to a canonical identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newResolver(cmd.Context())

		var coord *model.Coordinate
		if resolveHasCoord {
			coord = &model.Coordinate{Lat: resolveLat, Lon: resolveLon}
		}

		company := r.Resolve(cmd.Context(), args[0], coord, resolveCountry)
		if company == nil {
			zap.L().Info("resolve: no confident match", zap.String("query", args[0]))
			cmd.Println("no match")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(company)
	},
}

func init() {
	resolveCmd.Flags().Float64Var(&resolveLat, "lat", 0, "facility latitude for the proximity boost")
	resolveCmd.Flags().Float64Var(&resolveLon, "lon", 0, "facility longitude for the proximity boost")
	resolveCmd.Flags().StringVar(&resolveCountry, "country", "", "ISO alpha-3 country hint")
	resolveCmd.PreRun = func(cmd *cobra.Command, args []string) {
		resolveHasCoord = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
	}
	rootCmd.AddCommand(resolveCmd)
}
