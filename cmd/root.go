// SPDX-License-Identifier: AGPL-3.0-or-later
// AISHub - A VHF AIS receiver and decoder core in a single binary
// Copyright (C) 2026 The AISHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/AIS-Hub/AISHub>

// Package cmd is the CLI surface spec.md §6 treats as an external
// configurator: "-r<type>" selects the receiver, "-c AB|CD|X" the
// channel plan, "-m 0..7" the model, "-u/-N/-H/-o" the output sinks.
// It mirrors the teacher's cmd/root.go shape (a single cobra.Command
// built by NewCommand(version, commit), with runRoot starting every
// component in order and tearing them down in reverse order through
// deferred calls on signal) generalized from DMRHub/MMDVM servers to the
// AIS receive pipeline's device, model.Receiver, sinks and HTTP server.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/AIS-Hub/AISHub/internal/config"
	"github.com/AIS-Hub/AISHub/internal/device"
	"github.com/AIS-Hub/AISHub/internal/dsp"
	"github.com/AIS-Hub/AISHub/internal/httpserver"
	"github.com/AIS-Hub/AISHub/internal/logging"
	"github.com/AIS-Hub/AISHub/internal/metrics"
	"github.com/AIS-Hub/AISHub/internal/model"
	"github.com/AIS-Hub/AISHub/internal/pubsub"
	"github.com/AIS-Hub/AISHub/internal/sinks"
	"github.com/AIS-Hub/AISHub/internal/stats"
	"github.com/AIS-Hub/AISHub/internal/stream"
	"github.com/AIS-Hub/AISHub/internal/tracing"
	"github.com/AIS-Hub/AISHub/internal/vessel"
)

// NewCommand builds the root cobra command, mirroring the teacher's
// NewCommand(version, commit) *cobra.Command.
func NewCommand(version, commit string) *cobra.Command {
	var (
		receiverSpec string
		channel      string
		modelIdx     int
		udpSinks     []string
		tcpSinks     []string
		httpSinks    []string
		output       string
		stationID    uint32
		lat, lon     float64
		httpAddr     string
		httpPort     int
		corsHosts    []string
		metricsAddr  string
		metricsPort  int
		metricsOn    bool
		debug        bool
		logLevel     string
		dbDSN        string
		redisAddr    string
		redisPass    string
	)

	cmd := &cobra.Command{
		Use:     "aishub",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(buildConfigArgs{
				receiverSpec: receiverSpec,
				channel:      channel,
				modelIdx:     modelIdx,
				udpSinks:     udpSinks,
				tcpSinks:     tcpSinks,
				httpSinks:    httpSinks,
				output:       output,
				stationID:    stationID,
				lat:          lat,
				lon:          lon,
				hasOwnPos:    cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"),
				httpAddr:     httpAddr,
				httpPort:     httpPort,
				corsHosts:    corsHosts,
				metricsAddr:  metricsAddr,
				metricsPort:  metricsPort,
				metricsOn:    metricsOn,
				debug:        debug,
				logLevel:     logLevel,
				redisAddr:    redisAddr,
				redisPass:    redisPass,
			})
			if err != nil {
				return fmt.Errorf("building configuration: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			config.SetConfig(cfg)

			return runRoot(cmd.Context(), cfg, version, commit, dbDSN)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&receiverSpec, "receiver", "r", "null", "receiver type, optionally with a path: \"file:/path/to.wav\", \"file-raw:/path/to.raw\", \"rtlsdr\", \"null\"")
	flags.StringVarP(&channel, "channel", "c", "AB", "channel plan: AB, CD, or X")
	flags.IntVarP(&modelIdx, "model", "m", 0, "model index 0..7 (standard, base, default, discriminator, challenger, nmeaonly, n2k, basestation)")
	flags.StringArrayVarP(&udpSinks, "udp", "u", nil, "UDP output sink address host:port (repeatable)")
	flags.StringArrayVarP(&tcpSinks, "tcp-listen", "N", nil, "TCP listener sink bind address host:port (repeatable)")
	flags.StringArrayVarP(&httpSinks, "http-sink", "H", nil, "HTTP streamer sink URL (repeatable)")
	flags.StringVarP(&output, "output", "o", "nmea", "stdout rendering: nmea, json, jsonfull, none")
	flags.Uint32Var(&stationID, "station-id", 0, "station identifier attached to every decoded message")
	flags.Float64Var(&lat, "lat", 0, "station latitude, reported as station_lat in HTTP sink batches")
	flags.Float64Var(&lon, "lon", 0, "station longitude, reported as station_lon in HTTP sink batches")
	flags.StringVar(&httpAddr, "http-addr", "0.0.0.0", "UI/API HTTP server listen address")
	flags.IntVar(&httpPort, "http-port", 8100, "UI/API HTTP server port")
	flags.StringArrayVar(&corsHosts, "cors-host", nil, "allowed CORS origin (repeatable); empty means allow all")
	flags.StringVar(&metricsAddr, "metrics-addr", "127.0.0.1", "Prometheus metrics listen address")
	flags.IntVar(&metricsPort, "metrics-port", 9100, "Prometheus metrics port")
	flags.BoolVar(&metricsOn, "metrics", false, "enable the Prometheus metrics listener")
	flags.BoolVar(&debug, "debug", false, "enable debug mode (gin debug routes, pprof, verbose logging)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&dbDSN, "db-dsn", "", "PostgreSQL DSN for the optional message/vessel database sink; empty disables it")
	flags.StringVar(&redisAddr, "redis-addr", "", "Redis host:port for cross-process broadcast fan-out; empty disables it")
	flags.StringVar(&redisPass, "redis-password", "", "Redis password, if required")

	return cmd
}

type buildConfigArgs struct {
	receiverSpec                  string
	channel                       string
	modelIdx                      int
	udpSinks, tcpSinks, httpSinks []string
	output                        string
	stationID                     uint32
	lat, lon                      float64
	hasOwnPos                     bool
	httpAddr                      string
	httpPort                      int
	corsHosts                     []string
	metricsAddr                   string
	metricsPort                   int
	metricsOn                     bool
	debug                         bool
	logLevel                      string
	redisAddr                     string
	redisPass                     string
}

// buildConfig turns parsed flags into a config.Config, splitting a
// "-r type:path" receiver spec and defaulting the wire format from the
// receiver type, the same "configurator validates model-vs-format
// compatibility" role spec §4.10 assigns to this layer.
func buildConfig(a buildConfigArgs) (config.Config, error) {
	cfg := config.Default()

	recvType, recvPath, raw := splitReceiverSpec(a.receiverSpec)
	cfg.Receiver = config.Receiver{
		Type:       recvType,
		Path:       recvPath,
		Raw:        raw,
		SampleRate: 2048000,
	}
	cfg.Channel = a.channel
	cfg.Model = a.modelIdx
	cfg.StationID = a.stationID
	cfg.OwnLat = a.lat
	cfg.OwnLon = a.lon
	cfg.HasOwnPos = a.hasOwnPos
	cfg.Output = a.output

	for _, addr := range a.udpSinks {
		cfg.UDPSinks = append(cfg.UDPSinks, config.Sink{Kind: "udp", Addr: addr})
	}
	for _, addr := range a.tcpSinks {
		cfg.TCPSinks = append(cfg.TCPSinks, config.Sink{Kind: "tcp-listen", Addr: addr})
	}
	for _, addr := range a.httpSinks {
		cfg.HTTPSinks = append(cfg.HTTPSinks, config.Sink{Kind: "http", Addr: addr})
	}

	cfg.HTTP = config.HTTP{
		Enabled:    true,
		ListenAddr: a.httpAddr,
		Port:       a.httpPort,
		CORSHosts:  a.corsHosts,
	}
	cfg.Metrics = config.Metrics{
		Enabled: a.metricsOn,
		Bind:    a.metricsAddr,
		Port:    a.metricsPort,
	}
	cfg.Debug = a.debug
	cfg.LogLevel = config.LogLevel(a.logLevel)

	cfg.Redis = config.Redis{
		Enabled:  a.redisAddr != "",
		Addr:     a.redisAddr,
		Password: a.redisPass,
	}

	return cfg, nil
}

// splitReceiverSpec parses "-r" values like "file:/path.wav",
// "file-raw:/path.raw", or a bare type name such as "rtlsdr"/"null".
func splitReceiverSpec(spec string) (recvType, path string, raw bool) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			return spec[:i], spec[i+1:], spec[:i] == "file-raw"
		}
	}
	return spec, "", false
}

// runRoot wires the device, model.Receiver, sinks and HTTP server into
// a running pipeline and blocks until a shutdown signal arrives,
// mirroring the teacher's runRoot/initializeServers/
// setupShutdownHandlers split.
func runRoot(ctx context.Context, cfg config.Config, version, commit, dbDSN string) error {
	logging.Errorf("AISHub v%s-%s", version, commit)
	logging.Logf("AISHub v%s-%s", version, commit)
	defer logging.Close()
	setupKlog(cfg.Debug)

	shutdownTracing := tracing.Setup()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	if err := metrics.CreateMetricsServer(metrics.Config(cfg.Metrics)); err != nil {
		return fmt.Errorf("starting metrics server: %w", err)
	}

	vdb := vessel.NewDB(cfg.VesselCapacity, cfg.VesselCapacity*cfg.PathCapacity)
	tracker := stats.NewTracker()
	tracker.SetCutoff(cfg.RangeCutoffNMI)

	statCtx, cancelStats := context.WithCancel(ctx)
	defer cancelStats()
	if err := tracker.StartAging(statCtx); err != nil {
		klog.Warningf("cmd: stats aging scheduler: %v", err)
	}

	hub := httpserver.Hubs{
		AISCatcher: sinks.NewBroadcaster(),
		NMEA:       sinks.NewBroadcaster(),
		Log:        sinks.NewBroadcaster(),
	}

	if cfg.Redis.Enabled {
		closeRedis, err := bridgeRedisHubs(ctx, cfg.Redis, hub)
		if err != nil {
			return fmt.Errorf("connecting redis pubsub: %w", err)
		}
		defer closeRedis()
	}

	sinkset, closeSinks, err := buildSinks(cfg, hub, dbDSN)
	if err != nil {
		return fmt.Errorf("building sinks: %w", err)
	}
	defer closeSinks()

	variant := modelVariant(cfg.Model)
	modelCfg, err := buildModelConfig(cfg, variant)
	if err != nil {
		return fmt.Errorf("building model config: %w", err)
	}

	receiver, err := model.NewReceiver(modelCfg, vdb, tracker, sinkset, nil)
	if err != nil {
		return fmt.Errorf("building receiver: %w", err)
	}

	dev, err := buildDevice(cfg.Receiver)
	if err != nil {
		return fmt.Errorf("building device: %w", err)
	}

	pipeline := &stream.Pipeline{}
	pipeline.Add(receiver)
	if err := pipeline.Start(); err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}
	defer pipeline.Stop()

	// g coordinates the device's Play loop and the HTTP server as
	// parallel source workers: either one failing cancels gctx, which
	// wakes waitForShutdown the same way a signal would, mirroring the
	// teacher's pattern of fanning independent long-running servers out
	// under one errgroup and tearing all of them down on the first
	// failure.
	g, gctx := errgroup.WithContext(ctx)

	if err := dev.Open(); err != nil {
		return fmt.Errorf("opening device %s: %w", cfg.Receiver.Type, err)
	}
	deviceDone := make(chan error, 1)
	g.Go(func() error {
		err := dev.Play(receiver.PushSamples)
		deviceDone <- err
		return err
	})
	defer dev.Stop() //nolint:errcheck

	httpSrv := httpserver.New(httpserver.Config{
		ListenAddr: cfg.HTTP.ListenAddr,
		Port:       cfg.HTTP.Port,
		CORSHosts:  cfg.HTTP.CORSHosts,
		Debug:      cfg.Debug,
	}, vdb, tracker, hub)
	if cfg.HTTP.Enabled {
		g.Go(func() error {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	klog.Infof("aishub: running model=%s channel=%s receiver=%s", variant, cfg.Channel, cfg.Receiver.Type)

	shutdownErr := waitForShutdown(gctx, deviceDone)
	if err := g.Wait(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}
	return shutdownErr
}

// waitForShutdown blocks until SIGINT/SIGTERM/SIGQUIT/SIGHUP, gctx is
// cancelled (one of the errgroup workers failed), or the device's Play
// loop exits on its own (end of file, for file receivers) — the same
// signal set the teacher's setupShutdownHandlers listens for.
func waitForShutdown(gctx context.Context, deviceDone <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		klog.Infof("cmd: shutting down due to signal %v", sig)
		return nil
	case <-gctx.Done():
		return nil
	case err := <-deviceDone:
		if err != nil {
			return fmt.Errorf("device stopped: %w", err)
		}
		klog.Infof("cmd: device finished streaming, shutting down")
		return nil
	}
}

// setupKlog wires klog's own flag set so -debug can raise its
// verbosity, the same klog.InitFlags(fs)/fs.Set("v", ...) idiom the
// teacher's setupLogger/gocron logger adapters use ahead of klog calls
// elsewhere in internal/*.
func setupKlog(debug bool) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	if debug {
		_ = fs.Set("v", "4")
	} else {
		_ = fs.Set("v", "0")
	}
}

func modelVariant(idx int) model.Variant {
	return model.Variant(idx)
}

// buildModelConfig wires a model.Config for DSP-requiring variants
// (two decimation stages, ReceiverFilter taps, 5 samples/symbol at the
// post-decimation rate, matching internal/dsp's own test fixtures) or
// a text-input config for NMEA-only/N2K/basestation variants.
func buildModelConfig(cfg config.Config, variant model.Variant) (model.Config, error) {
	mc := model.Config{
		Variant:   variant,
		StationID: cfg.StationID,
	}

	if !variant.RequiresDSP() {
		mc.Format = dsp.FormatTXT
		return mc, nil
	}

	switch cfg.Receiver.Type {
	case "file-raw":
		mc.Format = dsp.FormatCU8
	default:
		mc.Format = dsp.FormatCU8
	}
	mc.SampleRateHz = cfg.Receiver.SampleRate
	mc.Channels = channelPlan(cfg.Channel)
	mc.DecimationStages = []int{2, 2}
	mc.Taps = [][]float64{dsp.ReceiverFilter, dsp.ReceiverFilter}

	return mc, nil
}

// channelPlan maps spec §6's "-c AB|CD|X" values to the two (or one,
// for X) demodulated channels AIS VHF receivers split a 2.048 MS/s
// capture into: channel A centred 25 kHz below the tuned frequency,
// channel B 25 kHz above (161.975/162.025 MHz in absolute terms); CD is
// the same split for the secondary AIS pair; X is a single
// non-offset wideband channel.
func channelPlan(plan string) []dsp.ChannelConfig {
	const samplesPerSymbol = 5
	switch plan {
	case "CD":
		return []dsp.ChannelConfig{
			{Name: 'C', OffsetHz: -25000, SamplesPerSymbol: samplesPerSymbol},
			{Name: 'D', OffsetHz: 25000, SamplesPerSymbol: samplesPerSymbol},
		}
	case "X":
		return []dsp.ChannelConfig{
			{Name: 'X', OffsetHz: 0, SamplesPerSymbol: samplesPerSymbol},
		}
	default: // "AB"
		return []dsp.ChannelConfig{
			{Name: 'A', OffsetHz: -25000, SamplesPerSymbol: samplesPerSymbol},
			{Name: 'B', OffsetHz: 25000, SamplesPerSymbol: samplesPerSymbol},
		}
	}
}

// buildDevice constructs the internal/device.Device named by -r. Only
// file and null receivers are implemented (spec.md §1 scopes hardware
// driver bindings out); hardware types were already rejected by
// config.Receiver.Validate before this runs, while udp, tcp and zmq
// pass validation and are served by the null device.
func buildDevice(r config.Receiver) (device.Device, error) {
	switch r.Type {
	case "file", "file-raw":
		return device.NewFileDevice(r.Path, r.Raw, dsp.FormatCU8), nil
	default:
		return device.NewNullDevice(), nil
	}
}

// outputFormat maps spec §6's "-o" values to a sinks.Format, reporting
// ok=false for "none" (no stdout sink built at all).
func outputFormat(output string) (sinks.Format, bool) {
	switch output {
	case "json":
		return sinks.FormatJSONSparse, true
	case "jsonfull":
		return sinks.FormatJSONFull, true
	case "none":
		return 0, false
	default: // "nmea"
		return sinks.FormatNMEA, true
	}
}

// bridgeRedisHubs connects to Redis and republishes every one of hub's
// three broadcast topics onto matching Redis pub/sub channels, so a
// separate AISHub deployment pointed at the same Redis instance (for
// example an HTTP-only process that runs no receiver of its own) can
// Relay those channels into its own local hub and serve them to its
// SSE/websocket clients. This process only publishes — it owns the
// canonical feed, so it does not also Relay its own topics back in,
// which would echo every message straight back out to Redis. The
// returned func disconnects and stops the bridge goroutines.
func bridgeRedisHubs(ctx context.Context, cfg config.Redis, hub httpserver.Hubs) (func(), error) {
	redisHub, err := pubsub.Connect(ctx, cfg.Addr, cfg.Password)
	if err != nil {
		return nil, err
	}

	bridgeCtx, cancel := context.WithCancel(ctx)
	topics := map[string]*sinks.Broadcaster{
		"aishub:ais_catcher": hub.AISCatcher,
		"aishub:nmea":        hub.NMEA,
		"aishub:log":         hub.Log,
	}
	for topic, b := range topics {
		go redisHub.Bridge(bridgeCtx, topic, b)
	}

	return func() {
		cancel()
		if err := redisHub.Close(); err != nil {
			klog.Warningf("cmd: closing redis pubsub: %v", err)
		}
	}, nil
}

// buildSinks constructs every sink named on the CLI plus the
// always-on websocket/SSE sink feeding internal/httpserver's live
// feeds, and an optional gorm/PostgreSQL sink when dbDSN is set. The
// returned close func tears every sink down in construction order.
func buildSinks(cfg config.Config, hub httpserver.Hubs, dbDSN string) ([]sinks.Sink, func(), error) {
	var built []sinks.Sink

	built = append(built, sinks.NewWSSink(hub.AISCatcher, sinks.FormatJSONFull, stream.AllGroups))

	if stdoutFormat, ok := outputFormat(cfg.Output); ok {
		built = append(built, sinks.NewStdoutSink(os.Stdout, stdoutFormat, stream.AllGroups))
	}

	for _, s := range cfg.UDPSinks {
		sink, err := sinks.NewUDPSink(s.Addr, sinks.FormatNMEA, stream.AllGroups, false, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("udp sink %s: %w", s.Addr, err)
		}
		built = append(built, sink)
	}

	for _, s := range cfg.TCPSinks {
		sink, err := sinks.NewTCPListenerSink(s.Addr, sinks.FormatNMEA, stream.AllGroups)
		if err != nil {
			return nil, nil, fmt.Errorf("tcp listener sink %s: %w", s.Addr, err)
		}
		built = append(built, sink)
	}

	for _, s := range cfg.HTTPSinks {
		sink := sinks.NewHTTPSink(s.Addr, fmt.Sprintf("%d", cfg.StationID), cfg.OwnLat, cfg.OwnLon, true, 10*time.Second, sinks.FormatJSONFull, stream.AllGroups)
		built = append(built, sink)
	}

	if dbDSN != "" {
		gdb, err := gorm.Open(postgres.Open(dbDSN), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		dbSink, err := sinks.NewDBSink(gdb, sinks.FormatJSONFull, stream.AllGroups)
		if err != nil {
			return nil, nil, fmt.Errorf("db sink: %w", err)
		}
		built = append(built, dbSink)
	}

	closeAll := func() {
		for _, s := range built {
			if err := s.Close(); err != nil {
				klog.Warningf("cmd: closing sink: %v", err)
			}
		}
	}
	return built, closeAll, nil
}
