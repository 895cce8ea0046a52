package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/ownership"
)

var (
	ownershipLat      float64
	ownershipLon      float64
	ownershipHasCoord bool
	ownershipCountry  string
)

var ownershipCmd = &cobra.Command{
	Use:   "ownership <ownership string>",
	Short: "Parse a composite ownership string into resolved owners",
	Long:  `Parses strings like "BHP (60%), Rio Tinto (40%)" into resolved owner entries with role classification. Owners that cannot be resolved are dropped.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := ownership.New(newResolver(cmd.Context()))

		var coord *model.Coordinate
		if ownershipHasCoord {
			coord = &model.Coordinate{Lat: ownershipLat, Lon: ownershipLon}
		}

		entries := parser.Parse(cmd.Context(), args[0], coord, ownershipCountry)
		if len(entries) == 0 {
			cmd.Println("no resolved owners")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	ownershipCmd.Flags().Float64Var(&ownershipLat, "lat", 0, "facility latitude for the proximity boost")
	ownershipCmd.Flags().Float64Var(&ownershipLon, "lon", 0, "facility longitude for the proximity boost")
	ownershipCmd.Flags().StringVar(&ownershipCountry, "country", "", "ISO alpha-3 country hint")
	ownershipCmd.PreRun = func(cmd *cobra.Command, args []string) {
		ownershipHasCoord = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
	}
	rootCmd.AddCommand(ownershipCmd)
}
