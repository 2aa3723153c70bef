package agent

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/diskstats-collector/pkg/config"
)

var defaultCfg = config.NewDefaultConfig()

func initServerFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("server.addr", defaultCfg.Server.Addr, "HTTP listening address")
	f.Duration("server.read-timeout", defaultCfg.Server.ReadTimeout, "read timeout duration")
	f.Duration("server.write-timeout", defaultCfg.Server.WriteTimeout, "write timeout duration")
	f.Duration("server.idle-timeout", defaultCfg.Server.IdleTimeout, "idle connection timeout duration")

	if err := viper.BindPFlags(f); err != nil {
		return
	}
}
