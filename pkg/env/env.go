// Package env sets up a WCAN node from flags and environment variables.
package env

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/wcan/pkg/radio/packet"
	"github.com/robotalks/wcan/pkg/radio/packet/mqtt"
	"github.com/robotalks/wcan/pkg/radio/packet/websocket"
	"github.com/robotalks/wcan/pkg/radio/serial"
	"github.com/robotalks/wcan/pkg/radio/sim"
	"github.com/robotalks/wcan/pkg/wcan"
)

// Config provides common options to setup a node.
type Config struct {
	// RadioURL specifies the radio to attach.
	// e.g. mqtt://host:port/topic-prefix/, ws://host:port/path,
	// serial:///dev/ttyUSB0?baud=115200, sim://
	RadioURL string
	// Address is the local address in the form aa:bb:cc:dd:ee:ff.
	Address string
	// Allow is a comma separated list of hex IDs accepted when
	// filtering is enabled.
	Allow string

	Node wcan.Config
}

// DefaultAir is the medium shared by all sim:// radios in the process.
var DefaultAir = sim.NewAir()

var defaultConfig = Config{
	RadioURL: "mqtt://localhost:1883/wcan/",
	Allow:    "123,456,789",
	Node:     wcan.DefaultConfig(),
}

func init() {
	if addr, err := MachineAddress(); err == nil {
		defaultConfig.Address = addr.String()
	}
	if val := os.Getenv("WCAN_RADIO_URL"); val != "" {
		defaultConfig.RadioURL = val
	}
	if val := os.Getenv("WCAN_ADDR"); val != "" {
		defaultConfig.Address = val
	}
	if val := os.Getenv("WCAN_ALLOW"); val != "" {
		defaultConfig.Allow = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.RadioURL, "radio", defaultConfig.RadioURL, "Radio URL.")
	flag.StringVar(&defaultConfig.Address, "addr", defaultConfig.Address, "Local address.")
	flag.StringVar(&defaultConfig.Allow, "allow", defaultConfig.Allow, "Accepted IDs in hex, comma separated.")
	flag.BoolVar(&defaultConfig.Node.FilterEnabled, "filter", defaultConfig.Node.FilterEnabled, "Only accept IDs in -allow.")
	flag.DurationVar(&defaultConfig.Node.RetryPeriod, "retry-period", defaultConfig.Node.RetryPeriod, "Retransmission period.")
	flag.IntVar(&defaultConfig.Node.MaxRetry, "max-retry", defaultConfig.Node.MaxRetry, "Max retransmissions per message.")
	flag.IntVar(&defaultConfig.Node.QueueSize, "queue-size", defaultConfig.Node.QueueSize, "Send queue capacity.")
	flag.DurationVar(&defaultConfig.Node.SubmitTimeout, "submit-timeout", defaultConfig.Node.SubmitTimeout, "Max wait for a send queue slot.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ParseIDs parses comma separated hex IDs. 0x prefixes are optional.
func ParseIDs(s string) ([]uint16, error) {
	var ids []uint16
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.TrimPrefix(strings.TrimPrefix(item, "0x"), "0X")
		id, err := strconv.ParseUint(item, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", item)
		}
		ids = append(ids, uint16(id))
	}
	return ids, nil
}

// LocalAddress parses the configured address.
func (c *Config) LocalAddress() (wcan.Address, error) {
	if c.Address == "" {
		return wcan.Address{}, fmt.Errorf("local address must be specified")
	}
	addr, err := wcan.ParseAddress(c.Address)
	if err != nil {
		return addr, err
	}
	if addr == wcan.Broadcast || addr.IsZero() {
		return addr, fmt.Errorf("invalid local address %s", addr)
	}
	return addr, nil
}

// NodeConfig returns the node options with allowed IDs resolved.
func (c *Config) NodeConfig() (wcan.Config, error) {
	conf := c.Node
	ids, err := ParseIDs(c.Allow)
	if err != nil {
		return conf, err
	}
	conf.AllowedIDs = ids
	return conf, nil
}

// NewDriver creates the radio driver from RadioURL.
func (c *Config) NewDriver() (wcan.Driver, error) {
	addr, err := c.LocalAddress()
	if err != nil {
		return nil, err
	}
	parsedURL, err := url.Parse(c.RadioURL)
	if err != nil {
		return nil, fmt.Errorf("invalid radio URL: %v", err)
	}
	var rw packet.PacketReadWriter
	switch parsedURL.Scheme {
	case "sim":
		return DefaultAir.Join(addr), nil
	case "mqtt", "tcp", "ssl":
		rw, err = mqtt.Dial(c.RadioURL)
	case "ws", "wss":
		rw, err = websocket.Dial(c.RadioURL)
	case "serial":
		rw, err = serial.OpenURL(parsedURL)
	default:
		return nil, fmt.Errorf("unknown radio URL scheme: %q", parsedURL.Scheme)
	}
	if err != nil {
		return nil, err
	}
	glog.Infof("radio %s, local address %s", c.RadioURL, addr)
	return packet.NewLink(rw, addr), nil
}

// MustNewDriver creates the driver and fails on error.
func (c *Config) MustNewDriver() wcan.Driver {
	drv, err := c.NewDriver()
	if err != nil {
		log.Fatalln(err)
	}
	return drv
}

// NewNode creates a Node on a new driver.
func (c *Config) NewNode(handler wcan.MessageHandler) (*wcan.Node, error) {
	conf, err := c.NodeConfig()
	if err != nil {
		return nil, err
	}
	drv, err := c.NewDriver()
	if err != nil {
		return nil, err
	}
	node, err := wcan.NewNode(conf, drv, handler)
	if err != nil {
		if closer, ok := drv.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	return node, nil
}

// MustNewNode creates a Node and fails on error.
func (c *Config) MustNewNode(handler wcan.MessageHandler) *wcan.Node {
	node, err := c.NewNode(handler)
	if err != nil {
		log.Fatalln(err)
	}
	return node
}
