package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadUsesFlagDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("vncd", pflag.ContinueOnError)
	v := viper.New()
	BindFlags(fs, v)

	cfg := Load(v)
	if cfg.ListenAddr != ":5900" {
		t.Errorf("ListenAddr = %q, want :5900", cfg.ListenAddr)
	}
	if cfg.Width != 500 || cfg.Height != 500 {
		t.Errorf("dimensions = %dx%d, want 500x500", cfg.Width, cfg.Height)
	}
	if cfg.RefreshPeriod != 20*time.Millisecond {
		t.Errorf("RefreshPeriod = %v, want 20ms", cfg.RefreshPeriod)
	}
	if cfg.WSBridgeAddr != "" {
		t.Errorf("WSBridgeAddr = %q, want empty (disabled by default)", cfg.WSBridgeAddr)
	}
}

func TestLoadHonorsParsedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("vncd", pflag.ContinueOnError)
	v := viper.New()
	BindFlags(fs, v)

	if err := fs.Parse([]string{"--width=1024", "--height=768", "--name=test-screen"}); err != nil {
		t.Fatal(err)
	}

	cfg := Load(v)
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("dimensions = %dx%d, want 1024x768", cfg.Width, cfg.Height)
	}
	if cfg.Name != "test-screen" {
		t.Errorf("Name = %q, want test-screen", cfg.Name)
	}
}
