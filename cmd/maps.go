package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <map-id>",
	Short: "Get a generated map by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug().Str("map_id", args[0]).Bool("staging", cfg.API.Staging).Msg("Fetching map")

		m, err := client.GetMap(cmd.Context(), args[0], stagingOption())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "map", m)
	},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed <seed> <size>",
	Short: "Get a map by its seed and size",
	Long: `Get a map by its seed and size. If the map has not been generated yet
(or is still generating) nothing is returned; try again later.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[0], err)
		}
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", args[1], err)
		}

		logger.Debug().Int("seed", seed).Int("size", size).Bool("staging", cfg.API.Staging).Msg("Fetching map")

		m, err := client.GetMapBySeedSize(cmd.Context(), seed, size, stagingOption())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "map", m)
	},
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Request a map with a random seed and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.CreateMap(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "map", m)
	},
}

// limitsCmd represents the limits command
var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Show the current rate limits for your API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limits, err := client.Limits(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "rate limits", limits)
	},
}

// configsCmd represents the configs command
var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List the custom map configurations saved on your account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := client.SavedConfigs(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), "saved configs", configs)
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(limitsCmd)
	rootCmd.AddCommand(configsCmd)
}
