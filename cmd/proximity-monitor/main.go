// Command proximity-monitor shows how close an object is on a 16x2 character
// display: Far, Near, or Warning once the object has stayed near too long.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sweeney/proximity-monitor/internal/display"
	"github.com/sweeney/proximity-monitor/internal/gpio"
	"github.com/sweeney/proximity-monitor/internal/logic"
	"github.com/sweeney/proximity-monitor/internal/mqtt"
	"github.com/sweeney/proximity-monitor/internal/status"
	"github.com/sweeney/proximity-monitor/internal/tick"
	"github.com/sweeney/proximity-monitor/internal/web"
)

const (
	displayLCD     = "lcd"
	displayConsole = "console"
)

type options struct {
	chip       string
	pin        int
	activeLow  bool
	ledPin     int
	ledLow     bool
	display    string
	lcdPort    string
	lcdBaud    int
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
	configPath string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "proximity-monitor",
		Short: "Show object proximity (Far/Near/Warning) on a character display",
		Long: `proximity-monitor polls an IR proximity sensor every 100ms and shows the
result on line 2 of a 16x2 display: Far when nothing is detected, Near when
an object is detected, and Warning once the object has stayed near for 4000
ticks (about 400 seconds).

The display is either an HD44780 behind a serial backpack (--display=lcd) or
a panel drawn on this terminal (--display=console).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				fc, err := loadConfig(opts.configPath)
				if err != nil {
					return err
				}
				if err := applyConfig(&opts, fc, cmd.Flags().Changed); err != nil {
					return err
				}
			}
			if err := validateOptions(opts); err != nil {
				return err
			}
			return run(opts)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&opts.chip, "chip", gpio.DefaultChip, "GPIO chip the sensor is wired to")
	f.IntVar(&opts.pin, "pin", gpio.DefaultPin, "GPIO line offset (BCM number) of the sensor output")
	f.BoolVar(&opts.activeLow, "active-low", true, "Sensor output is low when an object is detected")
	f.IntVar(&opts.ledPin, "led-pin", -1, "GPIO line offset of the detection LED (negative to disable)")
	f.BoolVar(&opts.ledLow, "led-active-low", false, "LED is lit when its line is driven low")
	f.StringVar(&opts.display, "display", displayConsole, `Display to drive: "lcd" or "console"`)
	f.StringVar(&opts.lcdPort, "lcd-port", "/dev/ttyUSB0", "Serial port of the LCD backpack")
	f.IntVar(&opts.lcdBaud, "lcd-baud", 9600, "Baud rate of the LCD backpack")
	f.StringVar(&opts.broker, "broker", "", "MQTT broker address for telemetry (empty to disable)")
	f.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	f.StringVar(&opts.httpAddr, "http", "", "HTTP status address (empty to disable)")
	f.BoolVar(&opts.printState, "print-state", false, "Print the current sensor reading and exit")
	f.StringVar(&opts.configPath, "config", "", "YAML config file; flags given on the command line take precedence")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func validateOptions(opts options) error {
	if opts.display != displayLCD && opts.display != displayConsole {
		return fmt.Errorf("invalid --display %q: expected %q or %q", opts.display, displayLCD, displayConsole)
	}
	if opts.pin < 0 {
		return fmt.Errorf("invalid --pin %d: must not be negative", opts.pin)
	}
	if opts.ledPin >= 0 && opts.ledPin == opts.pin {
		return fmt.Errorf("invalid --led-pin %d: already used by the sensor", opts.ledPin)
	}
	if opts.heartbeat < 0 {
		return fmt.Errorf("invalid --heartbeat %v: must not be negative", opts.heartbeat)
	}
	return nil
}

func run(opts options) error {
	// Initialize GPIO
	reader, err := gpio.NewRealReader(opts.chip, opts.pin, opts.activeLow)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	// Print state mode
	if opts.printState {
		defer reader.Close()
		return printState(reader, os.Stdout)
	}

	sensor := gpio.NewSensor(reader)
	defer sensor.Close()

	var indicator gpio.Indicator
	if opts.ledPin >= 0 {
		ind, err := gpio.NewRealIndicator(opts.chip, opts.ledPin, opts.ledLow)
		if err != nil {
			return fmt.Errorf("init led: %w", err)
		}
		indicator = ind
	}
	led := gpio.NewLamp(indicator)
	defer led.Close()

	sink, closer, err := openDisplay(opts)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	bootID := uuid.NewString()

	// Initialize MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if opts.broker != "" {
		p, err := mqtt.NewRealPublisher(opts.broker, "proximity-monitor-"+bootID[:8])
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), bootID, status.Config{
		TickMs:         logic.TickDuration.Milliseconds(),
		ThresholdTicks: logic.EscalationThresholdTicks,
		HeartbeatMs:    opts.heartbeat.Milliseconds(),
		Chip:           opts.chip,
		Pin:            opts.pin,
		LEDPin:         opts.ledPin,
		Display:        opts.display,
		Broker:         opts.broker,
		HTTPAddr:       opts.httpAddr,
	})
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: chip=%s pin=%d led=%d display=%s tick=%v threshold=%d broker=%q heartbeat=%v boot=%s",
		opts.chip, opts.pin, opts.ledPin, opts.display, logic.TickDuration, logic.EscalationThresholdTicks, opts.broker, opts.heartbeat, bootID)

	ticks := tick.NewTicker(logic.TickDuration)
	defer ticks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loop{
		sensor:     sensor,
		display:    display.NewResilient(sink),
		led:        led,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		heartbeat:  opts.heartbeat,
		now:        time.Now,
		ticks:      ticks,
		sig:        sigCh,
	})
}

// openDisplay returns the configured sink and, if it holds a resource, its closer.
func openDisplay(opts options) (display.Sink, io.Closer, error) {
	switch opts.display {
	case displayLCD:
		lcd, err := display.OpenLCD(opts.lcdPort, display.PortOptions{BaudRate: opts.lcdBaud})
		if err != nil {
			return nil, nil, err
		}
		return lcd, lcd, nil
	case displayConsole:
		return display.NewConsole(os.Stdout), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown display %q", opts.display)
}

func printState(r gpio.Reader, w io.Writer) error {
	near, err := r.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	fmt.Fprintf(w, "Proximity: %s\n", proximityString(near))
	return nil
}

func proximityString(near bool) string {
	if near {
		return "NEAR"
	}
	return "FAR"
}
