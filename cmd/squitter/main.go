package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"squitter/internal/app"
	"squitter/internal/transport"
)

func main() {
	var config app.Config

	rootCmd := &cobra.Command{
		Use:   "squitter",
		Short: "ADS-B aircraft-state engine",
		Long: `squitter ingests hex-encoded Mode-S extended-squitter frames from a
serial ADS-B receiver, decodes identification, position, altitude,
velocity and vertical rate, and maintains a live database of currently
visible aircraft, exported as BaseStation/SBS lines and Prometheus
metrics.

Example usage:
  squitter --device /dev/ttyUSB0 --baud 38400 --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}

			ep, err := transport.OpenSerial(transport.SerialConfig{
				Device: config.SerialDevice,
				Baud:   config.SerialBaud,
			})
			if err != nil {
				return fmt.Errorf("failed to open serial device %s: %w", config.SerialDevice, err)
			}

			application, err := app.NewApplication(config, ep)
			if err != nil {
				return err
			}
			return application.Start()
		},
	}

	rootCmd.Flags().StringVarP(&config.SerialDevice, "device", "d", "/dev/ttyUSB0", "Serial device path")
	rootCmd.Flags().IntVarP(&config.SerialBaud, "baud", "b", app.DefaultBaud, "Serial baud rate")
	rootCmd.Flags().IntVar(&config.FIFOCapacity, "fifo-capacity", app.DefaultFIFOCapacity, "Message FIFO capacity")
	rootCmd.Flags().StringVarP(&config.LogDir, "log-dir", "l", app.DefaultLogDir, "Log directory")
	rootCmd.Flags().BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	rootCmd.Flags().Float64Var(&config.StaticLat, "lat", 0, "Observer latitude, degrees (sets --lat/--lon as a fixed position)")
	rootCmd.Flags().Float64Var(&config.StaticLon, "lon", 0, "Observer longitude, degrees")
	rootCmd.Flags().StringVar(&config.NMEADevice, "nmea-device", "", "Serial device for a live NMEA GPS feed")
	rootCmd.Flags().StringVar(&config.LocationHint, "location-hint", app.DefaultLocationHint, "Path to the persisted observer location hint file")
	rootCmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr", "", "Address to serve Prometheus /metrics on (empty disables)")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		config.StaticLatSet = cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
	}

	var warmup time.Duration
	scopeCmd := &cobra.Command{
		Use:   "scope",
		Short: "Render one snapshot frame of the plane database and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := transport.OpenSerial(transport.SerialConfig{
				Device: config.SerialDevice,
				Baud:   config.SerialBaud,
			})
			if err != nil {
				return fmt.Errorf("failed to open serial device %s: %w", config.SerialDevice, err)
			}

			application, err := app.NewApplication(config, ep)
			if err != nil {
				return err
			}
			application.Warm(warmup)
			fmt.Print(application.RenderScope())
			return nil
		},
	}
	scopeCmd.Flags().DurationVar(&warmup, "warmup", app.DefaultScopeWarmup, "How long to ingest live traffic before rendering the snapshot")
	rootCmd.AddCommand(scopeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
