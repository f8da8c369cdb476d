package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is used for the env prefix and default file names.
	AppName = "flow-vikunja"

	// OptionsFile is the optional runtime options file name (without extension).
	OptionsFile = "plugin"

	// EnvPrefix prefixes every environment override, e.g. FLOW_VIKUNJA_LOG_LEVEL.
	EnvPrefix = "FLOW_VIKUNJA"

	// DefaultIconPath is the icon shown on every result item.
	DefaultIconPath = "assets/icon.png"

	// CacheFile is the list cache filename inside the plugin directory.
	CacheFile = "vikunja_lists.json"
)

// Options holds runtime settings of the plugin process. Unlike Settings they
// are never written by the plugin.
type Options struct {
	// PluginDir holds config.json, the list cache and the log file.
	PluginDir string

	// IconPath is the IcoPath sent to the launcher.
	IconPath string

	// HTTPTimeout bounds each Vikunja request. Zero keeps the transport default.
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadOptions reads plugin.yaml from the plugin directory (if present) and
// applies FLOW_VIKUNJA_* environment overrides. pluginDir may be empty, in
// which case FLOW_VIKUNJA_PLUGIN_DIR or the executable's directory is used.
func LoadOptions(pluginDir string) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	dir := pluginDir
	if dir == "" {
		dir = v.GetString("plugin_dir")
	}
	if dir == "" {
		dir = DefaultPluginDir()
	}

	v.SetConfigName(OptionsFile)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading %s.yaml: %w", OptionsFile, err)
		}
	}

	opts := &Options{
		PluginDir:   dir,
		IconPath:    v.GetString("icon_path"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
		LogFile:     v.GetString("log.file"),
	}

	if opts.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http_timeout must not be negative, got %s", opts.HTTPTimeout)
	}
	if opts.LogFile != "" && !filepath.IsAbs(opts.LogFile) {
		opts.LogFile = filepath.Join(dir, opts.LogFile)
	}

	return opts, nil
}

// DefaultOptions returns the options used when plugin.yaml cannot be read.
// Environment overrides are not applied.
func DefaultOptions(pluginDir string) *Options {
	dir := pluginDir
	if dir == "" {
		dir = os.Getenv(EnvPrefix + "_PLUGIN_DIR")
	}
	if dir == "" {
		dir = DefaultPluginDir()
	}
	return &Options{
		PluginDir: dir,
		IconPath:  DefaultIconPath,
		LogLevel:  "info",
		LogFormat: "json",
		LogFile:   filepath.Join(dir, AppName+".log"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("icon_path", DefaultIconPath)
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", AppName+".log")
}

// SettingsPath returns the path of config.json.
func (o *Options) SettingsPath() string {
	return filepath.Join(o.PluginDir, SettingsFile)
}

// CachePath returns the path of the list cache file.
func (o *Options) CachePath() string {
	return filepath.Join(o.PluginDir, CacheFile)
}

// DefaultPluginDir returns the directory of the running executable, falling
// back to the working directory.
func DefaultPluginDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
