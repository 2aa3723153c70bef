package agent

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initMonitorFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.Duration("monitor.interval", defaultCfg.Monitor.Interval, "collection interval")

	f.Bool("monitor.collectors.disk.enable", defaultCfg.Monitor.Collectors.Disk.Enable, "enable the diskstats collector")
	f.String("monitor.collectors.disk.path", defaultCfg.Monitor.Collectors.Disk.Path, "diskstats source file")
	f.String("monitor.collectors.disk.prefix", defaultCfg.Monitor.Collectors.Disk.Prefix, "metric key prefix")
	f.StringSlice("monitor.collectors.disk.ignore-devices", defaultCfg.Monitor.Collectors.Disk.IgnoreDevices, "device names to skip")

	if err := viper.BindPFlags(f); err != nil {
		return
	}
}
