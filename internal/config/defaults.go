package config

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Core: Core{
			Storage: StorageConfig{
				Backend: "json",
			},
			Actor: ActorConfig{
				Role: "staff",
			},
			Restore: RestoreConfig{
				Confirm: true,
				Verbose: true,
			},
			Purge: PurgeConfig{
				Confirm: true,
			},
			Logging: LoggingConfig{
				Enabled: false,
				Level:   "info",
				Rotation: RotationConfig{
					MaxSize:  "10MB",
					MaxFiles: 3,
				},
			},
		},
		Trash: Trash{
			Include: IncludeConfig{
				WithinDays: 0, // everything
			},
			Exclude: ExcludeConfig{
				Names:    []string{},
				Patterns: []string{},
				Globs:    []string{},
			},
		},
		UI: UI{
			Density:     "spacious", // or compact
			DateFormat:  "relative", // or absolute
			ExitMessage: "bye!",
			Paginator:   "dots", // or arabic
			Style: StyleConfig{
				ListView: ListViewConfig{
					IndentOnSelect: true,
					Cursor:         "#AD58B4", // Purple
					Selected:       "#5FB458", // Green
				},
				DeletionDialog: "#FF007F",
			},
		},
	}
}
