// serialgate bridges a line-oriented serial device to an MQTT broker.
//
// The device speaks two-element JSON arrays, one per line; serialgate
// publishes them under a configurable base topic and mirrors matching bus
// messages back onto the serial line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/openbridge-io/serialgate/internal/bridge"
	"github.com/openbridge-io/serialgate/internal/infrastructure/config"
	"github.com/openbridge-io/serialgate/internal/infrastructure/logging"
	"github.com/openbridge-io/serialgate/internal/infrastructure/telemetry"
	"github.com/openbridge-io/serialgate/internal/serial"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	flags      *pflag.FlagSet
	configPath string
	device     string
	mqttHost   string
	mqttPort   int
	mqttTopic  string
	username   string
	password   string
	caCerts    string
	certFile   string
	keyFile    string
	wait       bool
	list       bool
	debug      bool
	version    bool
}

func parseFlags(args []string) (*cliOptions, error) {
	opts := &cliOptions{}
	flags := pflag.NewFlagSet("serialgate", pflag.ContinueOnError)

	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	flags.StringVarP(&opts.device, "device", "d", "", "serial device path")
	flags.StringVarP(&opts.mqttHost, "mqtt-host", "H", "", "MQTT broker host")
	flags.IntVarP(&opts.mqttPort, "mqtt-port", "P", 0, "MQTT broker port")
	flags.StringVarP(&opts.mqttTopic, "mqtt-topic", "t", "", "base MQTT topic")
	flags.StringVar(&opts.username, "mqtt-username", "", "MQTT username")
	flags.StringVar(&opts.password, "mqtt-password", "", "MQTT password")
	flags.StringVar(&opts.caCerts, "mqtt-ca-certs", "", "path to CA certificate bundle")
	flags.StringVar(&opts.certFile, "mqtt-certfile", "", "path to client certificate")
	flags.StringVar(&opts.keyFile, "mqtt-keyfile", "", "path to client private key")
	flags.BoolVarP(&opts.wait, "wait", "W", false, "restart the session on failure")
	flags.BoolVarP(&opts.list, "list", "l", false, "list available serial ports and exit")
	flags.BoolVarP(&opts.debug, "debug", "D", false, "enable debug logging")
	flags.BoolVarP(&opts.version, "version", "v", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	opts.flags = flags
	return opts, nil
}

// applyFlags overlays command line values on the loaded configuration.
// Only flags the user actually set override file and environment values.
func applyFlags(cfg *config.Config, opts *cliOptions) {
	set := map[string]func(){
		"device":        func() { cfg.Device = opts.device },
		"mqtt-host":     func() { cfg.MQTT.Host = opts.mqttHost },
		"mqtt-port":     func() { cfg.MQTT.Port = opts.mqttPort },
		"mqtt-topic":    func() { cfg.MQTT.Topic = opts.mqttTopic },
		"mqtt-username": func() { cfg.MQTT.Username = opts.username },
		"mqtt-password": func() { cfg.MQTT.Password = opts.password },
		"mqtt-ca-certs": func() { cfg.MQTT.CACerts = opts.caCerts },
		"mqtt-certfile": func() { cfg.MQTT.CertFile = opts.certFile },
		"mqtt-keyfile":  func() { cfg.MQTT.KeyFile = opts.keyFile },
		"wait":          func() { cfg.Retry.Wait = true },
		"debug":         func() { cfg.Logging.Level = "debug" },
	}

	opts.flags.Visit(func(f *pflag.Flag) {
		if apply, ok := set[f.Name]; ok {
			apply()
		}
	})
}

// listPorts prints detected serial ports, one per line.
func listPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	for _, port := range ports {
		fmt.Println(port)
	}
	return nil
}

func run(ctx context.Context, opts *cliOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting serialgate",
		"version", version,
		"commit", commit,
		"device", cfg.Device,
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
		"topic", cfg.MQTT.Topic,
	)

	var recorder bridge.FrameRecorder
	if cfg.Telemetry.Enabled {
		tc, err := telemetry.Connect(ctx, cfg.Telemetry)
		if err != nil {
			// Telemetry is an observer; the bridge runs without it.
			log.Warn("telemetry unavailable", "error", err)
		} else {
			defer tc.Close()
			tc.SetOnError(func(err error) {
				log.Warn("telemetry write failed", "error", err)
			})
			recorder = tc
			log.Info("telemetry enabled", "url", cfg.Telemetry.URL, "bucket", cfg.Telemetry.Bucket)
		}
	}

	supervisor := &bridge.Supervisor{
		Session: func(ctx context.Context) error {
			return bridge.RunSession(ctx, cfg, log, recorder)
		},
		RestartOnFailure: cfg.Retry.Wait,
		RestartDelay:     cfg.GetRetryDelay(),
		Debug:            opts.debug,
		Logger:           log,
	}

	err = supervisor.Run(ctx)
	log.Info("serialgate stopped")
	return err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.version {
		fmt.Printf("serialgate %s (%s)\n", version, commit)
		return
	}

	if opts.list {
		if err := listPorts(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
