package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ais-reporter/internal/config"
)

var (
	validateConfigPath string
	validateSchemaPath string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a reporter configuration",
	Long:  "validate checks the configuration against the CUE schema, normalizes it, and prints the canonical endpoint schedules.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfigPath, validateSchemaPath)
		if err != nil {
			return err
		}
		ownMMSI, endpoints, err := config.Normalize(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("own MMSI: %s\n", ownMMSI)
		for _, ep := range endpoints {
			fmt.Printf("endpoint %s (%s:%d)\n", ep.Name, ep.Address, ep.Port)
			printClass("  self", ep.Self)
			printClass("  others", ep.Others)
		}
		return nil
	},
}

func printClass(label string, cc config.ClassConfig) {
	fmt.Printf("%s: expiry=%s position=%v static=%v", label, cc.ExpiryInterval, cc.PositionUpdateIntervals, cc.StaticUpdateIntervals)
	if cc.UpdateIntervalIndexPath != "" {
		fmt.Printf(" index-path=%s", cc.UpdateIntervalIndexPath)
	}
	fmt.Println()
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "config/reporter.yaml", "Path to reporter configuration YAML")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "schemas/reporter.cue", "Path to CUE schema file")
}
