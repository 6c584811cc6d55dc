package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/rendercore/shaders"
)

// Config is the rcprobe configuration, merged from defaults, the config
// file, RCPROBE_* environment variables and flags.
type Config struct {
	Verbose bool          `mapstructure:"verbose"`
	Shaders ShadersConfig `mapstructure:"shaders"`
	Buffers BuffersConfig `mapstructure:"buffers"`
}

// ShadersConfig selects the extensions probed by the caps command.
type ShadersConfig struct {
	PrimaryPackage string `mapstructure:"primary_package"`
	CompatModule   string `mapstructure:"compat_module"`
	// Modules maps module ids to Go plugin paths opened before selection.
	Modules map[string]string `mapstructure:"modules"`
	Symbols SymbolsConfig     `mapstructure:"symbols"`
}

// SymbolsConfig renames the compat module symbols.
type SymbolsConfig struct {
	ShaderPackLoaded string `mapstructure:"shader_pack_loaded"`
	ShadowPass       string `mapstructure:"shadow_pass"`
	ShadowFrustum    string `mapstructure:"shadow_frustum"`
}

// BuffersConfig drives the buffers command.
type BuffersConfig struct {
	Backend string `mapstructure:"backend"`
	Type    string `mapstructure:"type"`
	Usage   string `mapstructure:"usage"`
	Size    int    `mapstructure:"size"`
}

// options converts the shader settings into handler options.
func (c ShadersConfig) options() []shaders.Option {
	return []shaders.Option{
		shaders.WithPrimaryPackage(c.PrimaryPackage),
		shaders.WithCompatModule(c.CompatModule),
		shaders.WithSymbols(shaders.Symbols{
			ShaderPackLoaded: c.Symbols.ShaderPackLoaded,
			ShadowPass:       c.Symbols.ShadowPass,
			ShadowFrustum:    c.Symbols.ShadowFrustum,
		}),
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"verbose":         "verbose",
	"primary-package": "shaders.primary_package",
	"compat-module":   "shaders.compat_module",
	"module":          "shaders.modules",
	"backend":         "buffers.backend",
	"type":            "buffers.type",
	"usage":           "buffers.usage",
	"size":            "buffers.size",
}

func setDefaults(v *viper.Viper) {
	symbols := shaders.DefaultSymbols()
	v.SetDefault("verbose", false)
	v.SetDefault("shaders.primary_package", shaders.DefaultPrimaryPackage)
	v.SetDefault("shaders.compat_module", shaders.DefaultCompatModule)
	v.SetDefault("shaders.modules", map[string]string{})
	v.SetDefault("shaders.symbols.shader_pack_loaded", symbols.ShaderPackLoaded)
	v.SetDefault("shaders.symbols.shadow_pass", symbols.ShadowPass)
	v.SetDefault("shaders.symbols.shadow_frustum", symbols.ShadowFrustum)
	v.SetDefault("buffers.backend", "memory")
	v.SetDefault("buffers.type", "Array")
	v.SetDefault("buffers.usage", "StaticDraw")
	v.SetDefault("buffers.size", 64)
}

// LoadConfig reads configuration from cfgFile (or rcprobe.yaml in the
// working directory when empty), the environment and the given flags.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("rcprobe")
	}

	v.SetEnvPrefix("RCPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
