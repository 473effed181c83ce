package tool

import (
	"flag"

	"github.com/helpdeskhq/chatflash-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseHubURL, "useHubUrl", "", "override broadcast hub websocket URL")
	flag.StringVar(&cfg.UseServerURL, "useServerUrl", "", "override chat RPC server base URL")
	flag.StringVar(&cfg.UseChannel, "useChannel", "", "override broadcast channel name")
	flag.StringVar(&cfg.UseUserID, "useUserId", "", "override local user id")
	flag.StringVar(&cfg.UseAlias, "useAlias", "", "override display alias")
	flag.StringVar(&cfg.UseStatePath, "useStatePath", "", "override shared visibility state file path")
	flag.StringVar(&cfg.UsePanelLabel, "usePanelLabel", "", "override target panel label for flash")
	flag.BoolVar(&cfg.RunDevHub, "devHub", false, "run the local dev hub server instead of the notifier")
	flag.IntVar(&cfg.UseHubPort, "useHubPort", 0, "override dev hub port")
	flag.BoolVar(&cfg.SkipReachability, "skipReachability", false, "skip ICMP reachability probe before resubscribe")
	flag.Parse()
	return cfg
}
