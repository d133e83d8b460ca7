// Package config binds vncd's configuration surface — listen address,
// advertised framebuffer dimensions, desktop name, update cadence, and
// the optional WebSocket bridge address — through viper, following the
// flag/env layering phenix's cmd/root.go uses. No config file is read.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved configuration for one vncd process.
type Config struct {
	ListenAddr    string
	Width         uint16
	Height        uint16
	Name          string
	RefreshPeriod time.Duration

	// WSBridgeAddr, if non-empty, is the address wsbridge listens on for
	// incoming WebSocket connections tunneling into ListenAddr.
	WSBridgeAddr string

	LogLevel string
}

// BindFlags registers vncd's flags on fs and binds them into v, so that
// flags and the VNCD_-prefixed environment (enabled by Load) resolve
// through the same viper instance.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String("listen", ":5900", "address to listen on for RFB clients")
	fs.Uint16("width", 500, "advertised framebuffer width")
	fs.Uint16("height", 500, "advertised framebuffer height")
	fs.String("name", "vncd", "desktop name advertised in ServerInit")
	fs.Duration("refresh-period", 20*time.Millisecond, "minimum interval between framebuffer updates")
	fs.String("ws-bridge-listen", "", "address to listen on for WebSocket-tunneled RFB clients (disabled if empty)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")

	v.BindPFlags(fs)
}

// Load resolves a Config from v, after flags, environment and any config
// file have been bound and read.
func Load(v *viper.Viper) Config {
	v.SetEnvPrefix("VNCD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return Config{
		ListenAddr:    v.GetString("listen"),
		Width:         uint16(v.GetUint32("width")),
		Height:        uint16(v.GetUint32("height")),
		Name:          v.GetString("name"),
		RefreshPeriod: v.GetDuration("refresh-period"),
		WSBridgeAddr:  v.GetString("ws-bridge-listen"),
		LogLevel:      v.GetString("log-level"),
	}
}
