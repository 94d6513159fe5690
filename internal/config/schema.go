package config

// Config is the root configuration structure.
type Config struct {
	Player   PlayerConfig   `toml:"player" json:"player"`
	Dispatch DispatchConfig `toml:"dispatch" json:"dispatch"`
	Weather  WeatherConfig  `toml:"weather" json:"weather"`
	Clock    ClockConfig    `toml:"clock" json:"clock"`
	TUI      TUIConfig      `toml:"tui" json:"tui"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// PlayerConfig describes the scripted music application.
type PlayerConfig struct {
	App             string   `toml:"app" json:"app" default:"Spotify" validate:"required"`
	Interpreter     string   `toml:"interpreter" json:"interpreter" default:"osascript" validate:"required"`
	InterpreterArgs []string `toml:"interpreter_args" json:"interpreter_args" default:"[\"-e\"]"`
	PollInterval    int      `toml:"poll_interval" json:"poll_interval" default:"5" validate:"gte=1,lte=3600"` // seconds
	PausedSentinel  string   `toml:"paused_sentinel" json:"paused_sentinel" default:"Paused" validate:"required"`
}

// DispatchConfig sizes the command worker pool.
type DispatchConfig struct {
	Workers   int `toml:"workers" json:"workers" default:"4" validate:"gte=1,lte=64"`
	QueueSize int `toml:"queue_size" json:"queue_size" default:"32" validate:"gte=1,lte=1024"`
	Timeout   int `toml:"timeout" json:"timeout" default:"10" validate:"gte=0,lte=600"` // seconds, 0 disables
}

// WeatherConfig holds OpenWeatherMap and geolocation settings.
type WeatherConfig struct {
	Disabled        bool    `toml:"disabled" json:"disabled"`
	APIKey          string  `toml:"api_key" json:"-"`
	Units           string  `toml:"units" json:"units" default:"imperial" validate:"oneof=imperial metric"`
	RefreshInterval int     `toml:"refresh_interval" json:"refresh_interval" default:"30" validate:"gte=1,lte=1440"` // minutes
	Timeout         int     `toml:"timeout" json:"timeout" default:"5" validate:"gte=1,lte=60"`                     // seconds
	FallbackCity    string  `toml:"fallback_city" json:"fallback_city" default:"San Francisco"`
	FallbackLat     float64 `toml:"fallback_lat" json:"fallback_lat" default:"37.7749" validate:"gte=-90,lte=90"`
	FallbackLon     float64 `toml:"fallback_lon" json:"fallback_lon" default:"-122.4194" validate:"gte=-180,lte=180"`
}

// ClockConfig controls the clock face.
type ClockConfig struct {
	Timezone string `toml:"timezone" json:"timezone" default:"America/Los_Angeles"`
	Format   string `toml:"format" json:"format" default:"3:04pm" validate:"required"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme      string `toml:"theme" json:"theme" default:"auto" validate:"oneof=auto dark light"`
	HideLeaves bool   `toml:"hide_leaves" json:"hide_leaves"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level" default:"info" validate:"oneof=debug info warn error"`
	File  string `toml:"file" json:"file"`
}
