package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Validate checks the HTTP server section.
func (h *ServerConfig) Validate() error {
	if err := valid.Struct(h); err != nil {
		return err
	}
	if h.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	if _, err := net.ResolveTCPAddr("tcp", h.Addr); err != nil {
		return fmt.Errorf("server.addr format invalid (expected :port or ip:port), got %s: %w", h.Addr, err)
	}
	return nil
}

// Validate checks the monitor section.
func (m *MonitorConfig) Validate() error {
	if err := valid.Struct(m); err != nil {
		return err
	}
	if m.Interval < time.Second || m.Interval > 3600*time.Second {
		return fmt.Errorf("monitor.interval must be between 1 and 3600 seconds, got %s", m.Interval)
	}
	return m.Collectors.validate()
}

func (col *CollectorConfig) validate() error {
	if err := valid.Struct(col); err != nil {
		return err
	}
	if !col.Disk.Enable {
		return errors.New("at least one collector must be enabled (disk)")
	}
	return col.Disk.Validate()
}

// Validate checks the disk source section. The ignore list must not contain
// empty names, whitespace or duplicates.
func (d *DiskSourceConfig) Validate() error {
	if err := valid.Struct(d); err != nil {
		return err
	}

	if !strings.HasPrefix(d.Path, "/") {
		return fmt.Errorf("disk.path must be absolute, got %s", d.Path)
	}

	if strings.HasPrefix(d.Prefix, ".") || strings.HasSuffix(d.Prefix, ".") {
		return fmt.Errorf("disk.prefix must not start or end with '.', got %q", d.Prefix)
	}

	seen := map[string]bool{}
	for _, dev := range d.IgnoreDevices {
		if strings.TrimSpace(dev) == "" {
			return errors.New("disk.ignore_devices cannot contain empty string")
		}
		if strings.ContainsAny(dev, " \t\r\n") {
			return fmt.Errorf("disk.ignore_devices: device %q contains whitespace", dev)
		}
		if strings.ContainsAny(dev, "/\\") {
			return fmt.Errorf("disk.ignore_devices: device %q must be a bare name, not a path", dev)
		}
		if seen[dev] {
			return fmt.Errorf("disk.ignore_devices contains duplicate device name: %s", dev)
		}
		seen[dev] = true
	}
	return nil
}
