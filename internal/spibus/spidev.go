package spibus

import (
	"fmt"

	"dacrelay/internal/config"
	"golang.org/x/exp/io/spi"
)

// DevPath returns the spidev node for bus and chip select.
func DevPath(bus, device int) string {
	return fmt.Sprintf("/dev/spidev%d.%d", bus, device)
}

// Spidev writes through the Linux spidev driver.
type Spidev struct {
	dev *spi.Device
	rx  []byte
}

// OpenSpidev opens /dev/spidev<bus>.<device>, 8 bits per word, MSB first.
func OpenSpidev(cfg config.SPIConf) (*Spidev, error) {
	path := DevPath(cfg.Bus, cfg.Device)
	dev, err := spi.Open(&spi.Devfs{
		Dev:      path,
		Mode:     spi.Mode(cfg.Mode),
		MaxSpeed: cfg.SpeedHz,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := dev.SetBitsPerWord(8); err != nil {
		dev.Close()
		return nil, fmt.Errorf("set bits per word on %s: %w", path, err)
	}
	if err := dev.SetBitOrder(spi.MSBFirst); err != nil {
		dev.Close()
		return nil, fmt.Errorf("set bit order on %s: %w", path, err)
	}
	return &Spidev{dev: dev}, nil
}

// Tx implements Bus. Whatever the device clocks back is discarded.
func (s *Spidev) Tx(w []byte) error {
	if cap(s.rx) < len(w) {
		s.rx = make([]byte, len(w))
	}
	return s.dev.Tx(w, s.rx[:len(w)])
}

// Close implements Bus.
func (s *Spidev) Close() error {
	return s.dev.Close()
}
