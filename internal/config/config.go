package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/denisbrodbeck/machineid"
)

// Input modes.
const (
	ModePipe  = "pipe"
	ModeStdin = "stdin"
	ModeMQTT  = "mqtt"
	ModeShell = "shell"
)

// SPI drivers.
const (
	DriverSpidev = "spidev"
	DriverRpio   = "rpio"
	DriverLog    = "log"
)

// Malformed command policies.
const (
	OnErrorFatal = "fatal"
	OnErrorSkip  = "skip"
)

// DefaultPipe is the named pipe read in persistent mode.
const DefaultPipe = "/home/pi/ffJoystick"

var ErrInvalid = errors.New("invalid configuration")

// Config структура конфигурации.
type Config struct {
	Logger LogConf   `toml:"logger"` // Logger - logger configuration.
	Input  InputConf `toml:"input"`  // Input - command source configuration.
	SPI    SPIConf   `toml:"spi"`    // SPI - bus configuration.
	MQTT   MQTTConf  `toml:"mqtt"`   // MQTT - MQTT client configuration.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level      string `toml:"log-level" env:"DACRELAY_LOG_LEVEL"`      // Level - logging level.
	File       string `toml:"file" env:"DACRELAY_LOG_FILE"`            // File - log file, stdout when empty.
	MaxSizeMB  int    `toml:"max-size-mb" env:"DACRELAY_LOG_MAX_SIZE"` // MaxSizeMB - size of a log file before rotation.
	MaxBackups int    `toml:"max-backups" env:"DACRELAY_LOG_BACKUPS"`  // MaxBackups - rotated files to keep.
}

// InputConf describes where commands come from.
type InputConf struct {
	Mode    string `toml:"mode" env:"DACRELAY_MODE"`         // Mode - pipe, stdin, mqtt or shell.
	Pipe    string `toml:"pipe" env:"DACRELAY_PIPE"`         // Pipe - named pipe path for pipe mode.
	OnError string `toml:"on-error" env:"DACRELAY_ON_ERROR"` // OnError - fatal or skip for malformed commands.
}

// SPIConf describes the output bus.
type SPIConf struct {
	Driver  string `toml:"driver" env:"DACRELAY_SPI_DRIVER"`  // Driver - spidev, rpio or log.
	Bus     int    `toml:"bus" env:"DACRELAY_SPI_BUS"`        // Bus - bus index.
	Device  int    `toml:"device" env:"DACRELAY_SPI_DEVICE"`  // Device - chip select index.
	SpeedHz int64  `toml:"speed-hz" env:"DACRELAY_SPI_SPEED"` // SpeedHz - max clock rate.
	Mode    int    `toml:"mode" env:"DACRELAY_SPI_MODE"`      // Mode - SPI mode 0..3.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID   string `toml:"clientID" env:"DACRELAY_MQTT_CLIENT_ID"`      // ClientID - имя клиента.
	Host       string `toml:"server" env:"DACRELAY_MQTT_SERVER"`           // Host - адрес MQTT сервера.
	Port       string `toml:"port" env:"DACRELAY_MQTT_PORT"`               // Port - порт MQTT сервера.
	User       string `toml:"user" env:"DACRELAY_MQTT_USER"`               // User - MQTT login.
	Password   string `toml:"password" env:"DACRELAY_MQTT_PASSWORD"`       // Password - MQTT password.
	Qos        byte   `toml:"qos" env:"DACRELAY_MQTT_QOS"`                 // Qos - качество обслуживания.
	Topic      string `toml:"topic" env:"DACRELAY_MQTT_TOPIC"`             // Topic - command topic.
	StateTopic string `toml:"state-topic" env:"DACRELAY_MQTT_STATE_TOPIC"` // StateTopic - retained state, disabled when empty.
}

// Default returns the configuration the relay runs with when no file is given.
func Default() Config {
	return Config{
		Logger: LogConf{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Input:  InputConf{Mode: ModePipe, Pipe: DefaultPipe, OnError: OnErrorFatal},
		SPI:    SPIConf{Driver: DriverSpidev, Bus: 0, Device: 0, SpeedHz: 7629, Mode: 0},
		MQTT: MQTTConf{
			ClientID:   defaultClientID(),
			Host:       "localhost",
			Port:       "1883",
			Topic:      "dacrelay/cmd",
			StateTopic: "dacrelay/state",
		},
	}
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return &cfg, fmt.Errorf("environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Input.Mode {
	case ModePipe, ModeStdin, ModeMQTT, ModeShell:
	default:
		return fmt.Errorf("%w: input mode %q", ErrInvalid, c.Input.Mode)
	}
	if c.Input.Mode == ModePipe && c.Input.Pipe == "" {
		return fmt.Errorf("%w: empty pipe path", ErrInvalid)
	}
	switch c.Input.OnError {
	case OnErrorFatal, OnErrorSkip:
	default:
		return fmt.Errorf("%w: on-error %q", ErrInvalid, c.Input.OnError)
	}
	switch c.SPI.Driver {
	case DriverSpidev, DriverRpio, DriverLog:
	default:
		return fmt.Errorf("%w: spi driver %q", ErrInvalid, c.SPI.Driver)
	}
	if c.SPI.SpeedHz <= 0 {
		return fmt.Errorf("%w: spi speed %d", ErrInvalid, c.SPI.SpeedHz)
	}
	if c.SPI.Mode < 0 || c.SPI.Mode > 3 {
		return fmt.Errorf("%w: spi mode %d", ErrInvalid, c.SPI.Mode)
	}
	if c.Input.Mode == ModeMQTT && c.MQTT.Topic == "" {
		return fmt.Errorf("%w: empty mqtt topic", ErrInvalid)
	}
	return nil
}

func defaultClientID() string {
	id, err := machineid.ProtectedID("dacrelay")
	if err != nil || len(id) < 8 {
		return "dacrelay"
	}
	return "dacrelay-" + id[:8]
}
