package device

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/distatus/battery"
	"github.com/pbnjay/memory"

	"github.com/pthm-cable/driftfield/config"
)

// drmVendors maps PCI vendor ids reported under /sys/class/drm to GPU names
// that the GPU scoring recognizes.
var drmVendors = map[string]string{
	"0x10de": "NVIDIA",
	"0x1002": "AMD Radeon",
	"0x8086": "Intel HD Graphics",
}

// HostSource reads capabilities from the running machine. Configured
// overrides win over detected values. Detection never fails; anything that
// cannot be read is left for Normalize to default.
type HostSource struct {
	Overrides config.DeviceConfig

	// Probes, replaceable in tests
	DRMRoot     string // Defaults to /sys/class/drm
	NumCPU      func() int
	TotalMemory func() uint64
	Batteries   func() ([]*battery.Battery, error)
	Getenv      func(string) string
}

// NewHostSource creates a source that probes the host with the given overrides.
func NewHostSource(overrides config.DeviceConfig) *HostSource {
	return &HostSource{
		Overrides:   overrides,
		DRMRoot:     "/sys/class/drm",
		NumCPU:      runtime.NumCPU,
		TotalMemory: memory.TotalMemory,
		Batteries:   battery.GetAll,
		Getenv:      os.Getenv,
	}
}

// Capabilities implements Source.
func (h *HostSource) Capabilities() Capabilities {
	o := h.Overrides
	c := Capabilities{
		Type:       h.deviceType(),
		Cores:      o.Cores,
		MemoryGB:   o.MemoryGB,
		GPU:        o.GPU,
		Touch:      o.Touch,
		PixelRatio: o.PixelRatio,
	}

	if c.Cores <= 0 && h.NumCPU != nil {
		c.Cores = h.NumCPU()
	}
	if c.MemoryGB <= 0 && h.TotalMemory != nil {
		// Zero means the platform could not tell
		if total := h.TotalMemory(); total > 0 {
			c.MemoryGB = float64(total) / (1 << 30)
		}
	}

	vendorGPU := h.drmGPU()
	if c.GPU == "" {
		c.GPU = vendorGPU
	}
	c.Graphics = h.graphics(vendorGPU != "")
	c.Battery = h.battery()
	return c
}

func (h *HostSource) deviceType() Type {
	if h.Overrides.Type != "" {
		t, err := ParseType(h.Overrides.Type)
		if err != nil {
			slog.Warn("ignoring device type override", "error", err)
		} else {
			return t
		}
	}
	switch runtime.GOOS {
	case "android", "ios":
		return Mobile
	}
	return Desktop
}

// drmGPU returns a GPU name for the first DRM card with a known vendor.
func (h *HostSource) drmGPU() string {
	if h.DRMRoot == "" {
		return ""
	}
	paths, err := filepath.Glob(filepath.Join(h.DRMRoot, "card*", "device", "vendor"))
	if err != nil {
		return ""
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if name, ok := drmVendors[strings.ToLower(strings.TrimSpace(string(data)))]; ok {
			return name
		}
	}
	return ""
}

func (h *HostSource) graphics(hasGPU bool) Graphics {
	if h.Overrides.Graphics != "" {
		g, err := ParseGraphics(h.Overrides.Graphics)
		if err == nil {
			return g
		}
		slog.Warn("ignoring graphics override", "error", err)
	}
	if hasGPU {
		return GraphicsModern
	}
	if h.Getenv != nil && (h.Getenv("DISPLAY") != "" || h.Getenv("WAYLAND_DISPLAY") != "") {
		return GraphicsBasic
	}
	switch runtime.GOOS {
	case "darwin", "windows":
		return GraphicsBasic
	}
	return GraphicsNone
}

// battery aggregates every readable battery. Machines without a battery
// report nil.
func (h *HostSource) battery() *Battery {
	if h.Batteries == nil {
		return nil
	}
	// GetAll may return partial results alongside an error
	batteries, err := h.Batteries()
	if err != nil {
		slog.Debug("battery probe incomplete", "error", err)
	}

	var current, full float64
	charging := false
	found := false
	for _, b := range batteries {
		if b == nil || b.Full <= 0 {
			continue
		}
		found = true
		current += b.Current
		full += b.Full
		switch b.State.Raw {
		case battery.Charging, battery.Full:
			charging = true
		}
	}
	if !found {
		return nil
	}
	return &Battery{Level: current / full, Charging: charging}
}
