package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/geo"
)

var (
	geoLoadShapefile string
	geoLoadField     string
	geoLoadOut       string
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Manage the per-country bounding-box table",
}

var geoLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Derive country bounding boxes from a boundary shapefile",
	Long:  "Reads a country boundary shapefile (e.g. Natural Earth admin-0) and writes a YAML bounding-box table usable via geo.bounds_file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := geo.BuildBoundsFromShapefile(geoLoadShapefile, geoLoadField)
		if err != nil {
			return err
		}
		if err := geo.WriteBounds(table, geoLoadOut); err != nil {
			return err
		}
		zap.L().Info("geo: wrote bounds table",
			zap.String("out", geoLoadOut),
			zap.Int("countries", len(table)),
		)
		return nil
	},
}

func init() {
	geoLoadCmd.Flags().StringVar(&geoLoadShapefile, "shapefile", "", "path to the boundary shapefile")
	geoLoadCmd.Flags().StringVar(&geoLoadField, "field", "ADM0_A3", "attribute field holding the ISO alpha-3 code")
	geoLoadCmd.Flags().StringVar(&geoLoadOut, "out", "bounds.yaml", "output YAML path")
	_ = geoLoadCmd.MarkFlagRequired("shapefile")
	geoCmd.AddCommand(geoLoadCmd)
	rootCmd.AddCommand(geoCmd)
}
