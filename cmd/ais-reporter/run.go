package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ais-reporter/internal/admin"
	"ais-reporter/internal/config"
	"ais-reporter/internal/encoder"
	"ais-reporter/internal/feed"
	"ais-reporter/internal/logging"
	"ais-reporter/internal/reporter"
	"ais-reporter/internal/transport"
	"ais-reporter/internal/vessel"
)

var (
	runConfigPath   string
	runSchemaPath   string
	runTick         time.Duration
	runListenAddr   string
	runLogFile      string
	runPrintReports bool
	runDebug        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reporter",
	Long:  "run starts the UDP feed, the reporting scheduler, and the admin API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(runDebug)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}
		ownMMSI, endpoints, err := config.Normalize(cfg)
		if err != nil {
			return err
		}

		registry := vessel.NewRegistry()
		seedOwnVessel(registry, ownMMSI, cfg.Vessel)

		writer, cleanup, err := newReportWriters(runPrintReports, runLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickPeriod := runTick
		if envTick := os.Getenv("TICK_PERIOD"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickPeriod = d
		}

		indexes := reporter.NewIndexStore()
		udp := transport.NewUDP()
		defer udp.Close()

		rep := reporter.New(uuid.New().String(), ownMMSI, endpoints, reporter.Deps{
			Source:      registry,
			Encoder:     encoder.NewNMEA(),
			Transmitter: udp,
			Indexes:     indexes,
			ReportLog:   writer,
		}, tickPeriod)

		if cfg.FeedPort > 0 {
			f := feed.New(registry, cfg.FeedPort)
			go func() {
				if err := f.Run(ctx); err != nil {
					log.Error("feed stopped", "err", err)
				}
			}()
		}

		srv := admin.NewServer(rep, indexes)
		go func() {
			log.Info("admin API listening", "addr", runListenAddr)
			if err := srv.Start(ctx, runListenAddr); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "err", err)
			}
		}()

		go rep.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("reporter stopped")
		return nil
	},
}

// seedOwnVessel stores the configured own static data so self static
// reports work before any inbound traffic for the own MMSI.
func seedOwnVessel(registry *vessel.Registry, ownMMSI string, own config.OwnVessel) {
	if ownMMSI == "" {
		return
	}
	class := vessel.TransceiverClassA
	if own.TransceiverClass == "B" {
		class = vessel.TransceiverClassB
	}
	statics := vessel.Statics{}
	if own.Name != "" {
		statics.Name = &own.Name
	}
	if own.CallSign != "" {
		statics.CallSign = &own.CallSign
	}
	if own.ShipType != 0 {
		statics.ShipType = &own.ShipType
	}
	if own.Destination != "" {
		statics.Destination = &own.Destination
	}
	if own.DraughtM != 0 {
		statics.DraughtM = &own.DraughtM
	}
	if own.ToBowM != 0 {
		statics.ToBowM = &own.ToBowM
	}
	if own.ToSternM != 0 {
		statics.ToSternM = &own.ToSternM
	}
	if own.ToPortM != 0 {
		statics.ToPortM = &own.ToPortM
	}
	if own.ToStarboardM != 0 {
		statics.ToStarboardM = &own.ToStarboardM
	}
	registry.UpdateStatics(ownMMSI, class, statics)
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/reporter.yaml", "Path to reporter configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/reporter.cue", "Path to CUE schema file")
	runCmd.Flags().DurationVar(&runTick, "tick", config.DefaultTickPeriod, "Scheduler tick period (e.g. 30s, 1m)")
	runCmd.Flags().StringVar(&runListenAddr, "listen", ":8080", "Admin API listen address")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export the report activity log (JSONL)")
	runCmd.Flags().BoolVar(&runPrintReports, "print-reports", false, "Print report activity to STDOUT instead of writing to DB")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
}
