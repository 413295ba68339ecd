package sim

import (
	"flag"
	"testing"
	"time"
)

func TestConfigBind(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)

	if err := fs.Parse([]string{"-round", "10s", "-warp-level", "2"}); err != nil {
		t.Fatal(err)
	}
	if cfg.RoundDuration != 10*time.Second || cfg.WarpMinLevel != 2 {
		t.Fatalf("bound config = %+v", cfg)
	}
	if cfg.InitialRadius != DefaultConfig().InitialRadius {
		t.Fatal("unset flag changed its field")
	}
}
