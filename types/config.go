package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	HubURL           string `yaml:"hubUrl"`           // websocket endpoint of the broadcast hub
	ServerURL        string `yaml:"serverUrl"`        // base URL of the chat RPC server
	Channel          string `yaml:"channel"`          // broadcast channel name
	UserID           string `yaml:"userId"`           // identity of the local user
	Alias            string `yaml:"alias"`            // display name, informational only
	InstanceID       string `yaml:"instanceId"`       // generated per install, used in subscribe handshake
	TargetPanelLabel string `yaml:"targetPanelLabel"` // label of the panel the flash controller highlights
	StatePath        string `yaml:"statePath"`        // path of the shared visibility state file
	HubPort          int    `yaml:"hubPort"`          // port of the local dev hub server
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log              string
	UseConfigPath    string
	UseHubURL        string
	UseServerURL     string
	UseChannel       string
	UseUserID        string
	UseAlias         string
	UseStatePath     string
	UsePanelLabel    string
	RunDevHub        bool // if true, run the local dev hub server instead of the notifier.
	UseHubPort       int
	SkipReachability bool // if true, skip the ICMP reachability probe before resubscribe attempts.
}
