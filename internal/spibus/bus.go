package spibus

import (
	"fmt"

	"dacrelay/internal/config"
	"dacrelay/internal/logger"
)

// Bus is an opened SPI device. Tx clocks w out as a single transfer.
type Bus interface {
	Tx(w []byte) error
	Close() error
}

// Open returns the bus selected by cfg.Driver, configured with the device, mode and speed
// from cfg. The bus stays open until Close.
func Open(cfg config.SPIConf, log logger.Logger) (Bus, error) {
	l := log.With(logger.Fields{"module": "spi"})
	switch cfg.Driver {
	case config.DriverSpidev:
		return OpenSpidev(cfg)
	case config.DriverRpio:
		return OpenRpio(cfg)
	case config.DriverLog:
		l.Warn("dry run, nothing is written to the bus")
		return NewLogBus(l), nil
	}
	return nil, fmt.Errorf("unknown spi driver %q", cfg.Driver)
}
