package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/terralode/facility-cli/internal/dedupe"
	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/store"
)

var (
	dedupeID       string
	dedupeName     string
	dedupeLat      float64
	dedupeLon      float64
	dedupeHasCoord bool
	dedupeCountry  string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Check whether a candidate facility duplicates a stored record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		// An empty --country scans the whole store.
		existing, err := st.ListFacilities(ctx, store.FacilityFilter{CountryCode: dedupeCountry})
		if err != nil {
			return err
		}

		var coord *model.Coordinate
		if dedupeHasCoord {
			coord = &model.Coordinate{Lat: dedupeLat, Lon: dedupeLon}
		}

		match := dedupe.FindDuplicate(dedupeID, dedupeName, coord, existing)
		if match == nil {
			cmd.Println("no duplicate")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(match)
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeID, "id", "", "candidate facility id")
	dedupeCmd.Flags().StringVar(&dedupeName, "name", "", "candidate facility name")
	dedupeCmd.Flags().Float64Var(&dedupeLat, "lat", 0, "candidate latitude")
	dedupeCmd.Flags().Float64Var(&dedupeLon, "lon", 0, "candidate longitude")
	dedupeCmd.Flags().StringVar(&dedupeCountry, "country", "", "restrict comparison to one country")
	_ = dedupeCmd.MarkFlagRequired("name")
	dedupeCmd.PreRun = func(cmd *cobra.Command, args []string) {
		dedupeHasCoord = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
	}
	rootCmd.AddCommand(dedupeCmd)
}
