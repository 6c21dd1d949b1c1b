package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dacrelay/internal/clientmqtt"
	"dacrelay/internal/config"
	"dacrelay/internal/logger"
	"dacrelay/internal/relay"
	"dacrelay/internal/source"
	"dacrelay/internal/spibus"
)

var (
	configFile string
	mode       string
)

func init() {
	flag.StringVar(&configFile, "config", "configs/conf.toml", "Path to configuration file")
	flag.StringVar(&mode, "mode", "", "Input mode: pipe, stdin, mqtt or shell (overrides the config file)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v\n", err)
		return 1
	}
	if mode != "" {
		cfg.Input.Mode = mode
	}
	if err = cfg.Validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return 1
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v\n", err)
		return 1
	}
	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	bus, err := spibus.Open(cfg.SPI, log)
	if err != nil {
		log.With(logger.Fields{"module": "spi"}).Errorf("failed to open the bus: %v", err)
		return 1
	}
	defer bus.Close()
	log.With(logger.Fields{"module": "spi"}).Debugf("bus %d.%d open at %d Hz", cfg.SPI.Bus, cfg.SPI.Device, cfg.SPI.SpeedHz)

	r := relay.New(log, bus, ConvertPolicy(cfg.Input.OnError))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	var src source.Source
	switch cfg.Input.Mode {
	case config.ModePipe:
		src = source.NewPipe(log, cfg.Input.Pipe)
	case config.ModeStdin:
		src = source.NewReader(os.Stdin)
	case config.ModeShell:
		src = source.NewShell(func() string {
			st := r.State()
			return fmt.Sprintf("channel %s, last value 0x%04X", st.Channel, st.Last)
		})
	case config.ModeMQTT:
		client := clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT))
		linesCh := make(chan string, 10)
		if err = client.Start(ctx, linesCh); err != nil {
			log.With(logger.Fields{"module": "mqtt"}).Error("failed to start MQTT service: ", err.Error())
			return 1
		}
		defer func() {
			if err := client.Stop(); err != nil {
				log.With(logger.Fields{"module": "mqtt"}).Error("failed to stop MQTT service: ", err.Error())
			}
		}()
		r.SetNotifier(client)
		src = source.NewLines(linesCh)
	}
	log.With(logger.Fields{"module": "relay"}).Infof("reading commands, mode %s", cfg.Input.Mode)

	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Run(ctx, r.Process)
	}()

	select {
	case <-ctx.Done():
		// the pipe source may still be blocked in open
	case err = <-errCh:
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.With(logger.Fields{"module": "relay"}).Errorf("stopped: %v", err)
		return 1
	}
	log.Info("shutdown complete")
	return 0
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID:   cfg.ClientID,
		Schema:     "tcp",
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Qos:        cfg.Qos,
		Topic:      cfg.Topic,
		StateTopic: cfg.StateTopic,
	}
}

// ConvertPolicy maps the on-error setting to a relay policy.
func ConvertPolicy(onError string) relay.Policy {
	if onError == config.OnErrorSkip {
		return relay.PolicySkip
	}
	return relay.PolicyFatal
}
