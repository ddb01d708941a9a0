package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/wardbin/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core  Core  `yaml:"core"`
	Trash Trash `yaml:"trash"`
	UI    UI    `yaml:"ui"`
}

type Core struct {
	Storage StorageConfig `yaml:"storage"`
	Actor   ActorConfig   `yaml:"actor"`
	Restore RestoreConfig `yaml:"restore"`
	Purge   PurgeConfig   `yaml:"purge"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"required,oneof=json sqlite memory"`
	Dir        string `yaml:"dir" validate:"omitempty,validDirPath"`
	SQLitePath string `yaml:"sqlite_path"`
}

// ActorConfig is the user recorded as deletedBy/restoredBy. An empty name
// and username means nobody is signed in.
type ActorConfig struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Role     string `yaml:"role" validate:"omitempty,oneof=admin doctor nurse staff"`
}

type RestoreConfig struct {
	Confirm bool `yaml:"confirm"`
	Verbose bool `yaml:"verbose"`
}

type PurgeConfig struct {
	Confirm bool `yaml:"confirm"`
}

type LoggingConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"omitempty,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"min=0"`
}

type Trash struct {
	Include IncludeConfig `yaml:"include"`
	Exclude ExcludeConfig `yaml:"exclude"`
}

type IncludeConfig struct {
	WithinDays int `yaml:"within_days" validate:"min=0"`
}

type ExcludeConfig struct {
	Names    []string `yaml:"names"`
	Patterns []string `yaml:"patterns"`
	Globs    []string `yaml:"globs"`
}

type UI struct {
	Density     string      `yaml:"density" validate:"required,oneof=compact spacious"`
	DateFormat  string      `yaml:"date_format" validate:"required,oneof=relative absolute"`
	Style       StyleConfig `yaml:"style"`
	ExitMessage string      `yaml:"exit_message"`
	Paginator   string      `yaml:"paginator_type" validate:"required,oneof=dots arabic"`
}

type StyleConfig struct {
	ListView       ListViewConfig `yaml:"list_view"`
	DeletionDialog string         `yaml:"deletion_dialog" validate:"omitempty,validColorCode"`
}

type ListViewConfig struct {
	IndentOnSelect bool   `yaml:"indent_on_select"`
	Cursor         string `yaml:"cursor" validate:"omitempty,validColorCode"`
	Selected       string `yaml:"selected" validate:"omitempty,validColorCode"`
}

type configError struct {
	configPath string
	configDir  string
	parser     parser
	err        error
}

type parser struct{}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(NewDefaultConfig())
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't find the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.WARDBIN_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (e configError) Unwrap() error {
	return e.err
}

func (p parser) createConfigFile(path string) error {
	// Ensure directory exists
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return err
	}

	// Create the config file if missing
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		newConfigFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			return err
		}
		defer newConfigFile.Close()

		if _, err := newConfigFile.WriteString(p.getDefaultConfigContents()); err != nil {
			return err
		}
	}

	return nil
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) ensureConfigFile(path string) (string, error) {
	if err := p.createConfigFile(path); err != nil {
		return "", configError{
			configPath: path,
			configDir:  filepath.Dir(path),
			parser:     p,
			err:        err,
		}
	}
	return path, nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) readConfigFile(path string) (Config, error) {
	// Start from the defaults so that omitted sections keep sane values
	cfg := *NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			configDir:  filepath.Dir(path),
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return cfg, fmt.Errorf("validation error: field %s, %q is invalid", verrs[0].Namespace(), verrs[0].Value())
		}
		return cfg, err
	}

	if err := cfg.resolvePaths(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolvePaths fills in the storage locations and expands "~" and
// environment variables in them
func (c *Config) resolvePaths() error {
	s := &c.Core.Storage
	if s.Dir == "" {
		s.Dir = env.WARDBIN_DATA_DIR
	}
	dir, err := expandPath(s.Dir)
	if err != nil {
		return fmt.Errorf("storage dir: %w", err)
	}
	s.Dir = dir

	switch s.SQLitePath {
	case "":
		s.SQLitePath = filepath.Join(s.Dir, "wardbin.db")
	case ":memory:":
	default:
		path, err := expandPath(s.SQLitePath)
		if err != nil {
			return fmt.Errorf("sqlite path: %w", err)
		}
		s.SQLitePath = path
	}
	return nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validColorCode", validateColorCode)
	_ = validate.RegisterValidation("validDirPath", validateDirPath)

	return parser{}
}

// Parse reads the config at path. An empty path means the default location,
// where a config with default values is created when missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	var cfg Config
	var err error
	var configPath string

	if path == "" {
		configPath, err = parser.ensureConfigFile(env.WARDBIN_CONFIG_PATH)
		if err != nil {
			return cfg, parsingError{err: err}
		}
	} else {
		configPath = path
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err = parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}
