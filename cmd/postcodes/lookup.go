package main

import (
	"errors"

	"github.com/UnknownOlympus/postcodes"
	"github.com/spf13/cobra"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup POSTCODE",
		Short: "Look up a single postcode",
		Long: `Look up a single UK postcode.

Spacing and case do not matter; postcodes.io normalises them.

Examples:
  postcodes lookup SW1W0NY
  postcodes lookup "sw1w 0ny" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, client, err := setup(cmd)
			if err != nil {
				return err
			}

			pc, err := client.FromCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderOne(cmd.OutOrStdout(), format, pc)
		},
	}
}

// NewBulkCmd creates the bulk command.
func NewBulkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk POSTCODE...",
		Short: "Look up several postcodes in one request",
		Long: `Look up several UK postcodes in one request.

Records are printed in the order the postcodes were given. If any one of
them is unknown the whole command fails.

Example:
  postcodes bulk "PL8 1JN" "SW4 6QT" "OL4 2HJ"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, client, err := setup(cmd)
			if err != nil {
				return err
			}

			records, err := client.FromMultiLookup(cmd.Context(), args)
			if err != nil {
				return err
			}

			return renderList(cmd.OutOrStdout(), format, records)
		},
	}
}

// NewNearestCmd creates the nearest command.
func NewNearestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the postcode nearest to a point",
		Long: `Find the postcode nearest to a latitude/longitude pair.

Coordinates are given as flags so that negative longitudes are not read as
options.

Example:
  postcodes nearest --lat 51.495373 --lon -0.147421`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return errors.New("both --lat and --lon are required")
			}

			lat, err := cmd.Flags().GetFloat64("lat")
			if err != nil {
				return err
			}
			lon, err := cmd.Flags().GetFloat64("lon")
			if err != nil {
				return err
			}

			format, client, err := setup(cmd)
			if err != nil {
				return err
			}

			pc, err := client.FromCoordinates(cmd.Context(), lat, lon)
			if err != nil {
				return err
			}

			return renderOne(cmd.OutOrStdout(), format, pc)
		},
	}

	cmd.Flags().Float64("lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64("lon", 0, "Longitude in decimal degrees")

	return cmd
}

// NewRandomCmd creates the random command.
func NewRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print a random postcode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, client, err := setup(cmd)
			if err != nil {
				return err
			}

			pc, err := client.Random(cmd.Context())
			if err != nil {
				return err
			}

			return renderOne(cmd.OutOrStdout(), format, pc)
		},
	}
}

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate POSTCODE...",
		Short: "Check whether postcodes exist",
		Long: `Check whether each postcode is a known UK postcode.

Prints "<postcode>: true" or "<postcode>: false" per argument. The command
only fails when postcodes.io cannot be reached or answers unexpectedly.

Example:
  postcodes validate SW1W0NY XX11XX`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, client, err := setup(cmd)
			if err != nil {
				return err
			}

			results := make([]validity, 0, len(args))
			for _, code := range args {
				valid, err := client.Validate(cmd.Context(), code)
				if err != nil {
					return err
				}
				results = append(results, validity{Postcode: code, Valid: valid})
			}

			return renderList(cmd.OutOrStdout(), format, results)
		},
	}
}

// setup validates the output flag and builds the client.
func setup(cmd *cobra.Command) (string, *postcodes.Client, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", nil, err
	}
	if err = checkFormat(format); err != nil {
		return "", nil, err
	}

	client, err := newClient(cmd)
	if err != nil {
		return "", nil, err
	}

	return format, client, nil
}
