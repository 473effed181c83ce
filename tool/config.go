package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/helpdeskhq/chatflash-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		HubURL:           "ws://127.0.0.1:53340/ws",
		ServerURL:        "http://127.0.0.1:53341",
		Channel:          "/event/chat-notification",
		UserID:           "",
		Alias:            "",
		InstanceID:       "", // generated on first load
		TargetPanelLabel: "Team Chat",
		StatePath:        "chatflash-state.json",
		HubPort:          53340,
	}
}

func LoadConfig(path string) (types.AppConfig, error) {
	var configChanged bool
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, create with default values
			cfg.InstanceID = GenerateRandomUUID()
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file with instance id %s", cfg.InstanceID)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = GenerateRandomUUID()
		DefaultLogger.Infof("Generated instance id %s", cfg.InstanceID)
		configChanged = true
	}

	if configChanged {
		if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("Failed to update config file: %v", writeErr)
		}
	}

	CurrentConfig = cfg
	return cfg, nil
}

// ApplyFlagOverrides merges CLI flag overrides into cfg.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UseHubURL != "" {
		cfg.HubURL = flags.UseHubURL
	}
	if flags.UseServerURL != "" {
		cfg.ServerURL = flags.UseServerURL
	}
	if flags.UseChannel != "" {
		cfg.Channel = flags.UseChannel
	}
	if flags.UseUserID != "" {
		cfg.UserID = flags.UseUserID
	}
	if flags.UseAlias != "" {
		cfg.Alias = flags.UseAlias
	}
	if flags.UseStatePath != "" {
		cfg.StatePath = flags.UseStatePath
	}
	if flags.UsePanelLabel != "" {
		cfg.TargetPanelLabel = flags.UsePanelLabel
	}
	if flags.UseHubPort > 0 {
		cfg.HubPort = flags.UseHubPort
	}
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
