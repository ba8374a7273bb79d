package config

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	CSV      CSVConfig      `yaml:"csv"`
	Notion   NotionConfig   `yaml:"notion"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the relational engine.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"JOBTRACK_DB_DRIVER" env-default:"sqlite"`
	Path   string `yaml:"path"   env:"JOBTRACK_DB"        env-default:"jobs.db"`
	DSN    string `yaml:"dsn"    env:"JOBTRACK_DB_DSN"`
}

// CSVConfig holds flat-file store settings.
type CSVConfig struct {
	Path     string `yaml:"path"     env:"JOBTRACK_CSV"          env-default:"applications.csv"`
	Renumber string `yaml:"renumber" env:"JOBTRACK_CSV_RENUMBER" env-default:"greater"`
}

// NotionConfig enables the Notion mirror when both fields are set.
type NotionConfig struct {
	Token      string `yaml:"token"       env:"NOTION_TOKEN"`
	DatabaseID string `yaml:"database_id" env:"NOTION_DB_ID"`
}

func (n NotionConfig) Enabled() bool { return n.Token != "" && n.DatabaseID != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
