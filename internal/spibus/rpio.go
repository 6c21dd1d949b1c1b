package spibus

import (
	"fmt"

	"dacrelay/internal/config"
	"github.com/stianeikeland/go-rpio/v4"
)

// Rpio drives the BCM283x SPI0 controller through /dev/gpiomem.
type Rpio struct{}

// OpenRpio maps the peripheral registers and starts SPI0. Only bus 0 is supported.
func OpenRpio(cfg config.SPIConf) (*Rpio, error) {
	if cfg.Bus != 0 {
		return nil, fmt.Errorf("rpio: spi bus %d not supported", cfg.Bus)
	}
	if cfg.Device < 0 || cfg.Device > 2 {
		return nil, fmt.Errorf("rpio: chip select %d out of range", cfg.Device)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("rpio: %w", err)
	}
	rpio.SpiSpeed(int(cfg.SpeedHz))
	rpio.SpiChipSelect(uint8(cfg.Device))
	rpio.SpiMode(uint8(cfg.Mode>>1), uint8(cfg.Mode&1))
	return &Rpio{}, nil
}

// Tx implements Bus.
func (r *Rpio) Tx(w []byte) error {
	rpio.SpiTransmit(w...)
	return nil
}

// Close implements Bus.
func (r *Rpio) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
