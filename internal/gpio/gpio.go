// Package gpio provides proximity sensor reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the proximity sensor input.
type Reader interface {
	// Read returns true when an object is near.
	// The raw line value is inverted for active-low sensors.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Defaults for a Raspberry Pi with an IR obstacle module on BCM 17.
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)
