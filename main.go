package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/helpdeskhq/chatflash-go/api"
	"github.com/helpdeskhq/chatflash-go/flash"
	"github.com/helpdeskhq/chatflash-go/notify"
	"github.com/helpdeskhq/chatflash-go/router"
	"github.com/helpdeskhq/chatflash-go/share"
	"github.com/helpdeskhq/chatflash-go/subscribe"
	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, cfg)

	tool.InitLogger()
	if cfg.Log == "" {
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.Log) {
		case "dev":
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		case "prod":
			tool.DefaultLogger.SetLevel(log.InfoLevel)
		case "none":
			tool.DefaultLogger.SetLevel(log.FatalLevel)
		default:
			tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		}
	}

	if cfg.RunDevHub {
		hubServer := api.NewServer(appCfg.HubPort, appCfg.Channel)
		if err := hubServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("Hub server startup failed: %v", err)
		}
		return
	}

	runNotifier(appCfg, cfg)
}

func runNotifier(appCfg types.AppConfig, cfg types.Config) {
	ctx := context.Background()

	store, err := share.OpenVisibilityStore(appCfg.StatePath)
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to open visibility state: %v", err)
	}

	client := api.NewClient(appCfg.ServerURL)
	bar := api.NewPanelBar(client)

	controller := flash.NewController(bar, store, flash.Options{
		TargetLabel: appCfg.TargetPanelLabel,
	})
	go controller.RunWatchdog(ctx)

	rt := router.NewRouter(client, store, appCfg.UserID)
	defer rt.Close()

	manager := subscribe.NewManager(subscribe.Options{
		HubURL:     appCfg.HubURL,
		Channel:    appCfg.Channel,
		ReplayID:   subscribe.ReplayNewOnly,
		SkipProbe:  cfg.SkipReachability,
		Dispatcher: subscribe.NewSerialDispatcher(64),
	}, func(raw []byte) {
		handleEvent(ctx, raw, appCfg.UserID, store, controller, rt)
	})
	manager.OnError(func(err error) {
		tool.DefaultLogger.Warnf("Channel subscription error: %v", err)
	})

	tool.DefaultLogger.Infof("Subscribing to %s on %s as %s", appCfg.Channel, appCfg.HubURL, appCfg.Alias)
	manager.Subscribe(ctx)

	select {}
}

// handleEvent runs one broadcast event through decode, classification and the
// resulting screen action. Decode failures are logged and dropped; the event
// stream stays alive no matter what a single payload contains.
func handleEvent(ctx context.Context, raw []byte, myID string, store *share.VisibilityStore, controller *flash.Controller, rt *router.Router) {
	payload, err := notify.Decode(raw)
	if err != nil {
		tool.DefaultLogger.Debugf("Dropping channel event: %v", err)
		return
	}

	vis := types.VisibilityContext{
		PanelVisible: controller.PanelVisible(ctx),
		State:        store.Snapshot(),
	}
	action := notify.Classify(payload, myID, vis)
	tool.DefaultLogger.Debugf("Event %s for %s -> %s", payload.Type, action.Session15, action.Kind)

	if action.Kind == types.ActionFlash {
		controller.Start(ctx, action.Session15)
	}
	rt.Apply(ctx, action)
}
