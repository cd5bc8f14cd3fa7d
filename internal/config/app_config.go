// Package config loads layered application configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/TristanInSec/CodeDigest/internal/utils"
)

const (
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".codedigest.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
	GlobalConfigDirectoryName = ".codedigest"
	// GlobalConfigFileName is the configuration file inside the global directory.
	GlobalConfigFileName = "config.yaml"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds file-provided defaults for a digest run.
// Boolean and integer fields are pointers so a file only overrides what it
// actually sets.
type ApplicationConfiguration struct {
	Digest DigestConfiguration `mapstructure:"digest"`
}

// DigestConfiguration mirrors the CLI flags of the digest command.
type DigestConfiguration struct {
	Summary            *bool              `mapstructure:"summary"`
	Structure          *bool              `mapstructure:"structure"`
	SkipOther          *bool              `mapstructure:"skip_other"`
	OnlyText           *bool              `mapstructure:"only_text"`
	Timestamp          *bool              `mapstructure:"timestamp"`
	Clipboard          *bool              `mapstructure:"clipboard"`
	IncludeExtensions  []string           `mapstructure:"include_ext"`
	ExcludeDirectories []string           `mapstructure:"exclude_dir"`
	MaxTextFileSize    *int64             `mapstructure:"max_text_file_size"`
	Tokens             TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file and
// the local (or explicitly named) file, local values overriding global ones.
// Missing files are not errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Digest.IncludeExtensions = utils.DeduplicateStrings(merged.Digest.IncludeExtensions)
	merged.Digest.ExcludeDirectories = utils.DeduplicateStrings(merged.Digest.ExcludeDirectories)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInformation.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Digest = result.Digest.merge(override.Digest)
	return result
}

func (configuration DigestConfiguration) merge(override DigestConfiguration) DigestConfiguration {
	result := configuration
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Structure != nil {
		result.Structure = cloneBool(override.Structure)
	}
	if override.SkipOther != nil {
		result.SkipOther = cloneBool(override.SkipOther)
	}
	if override.OnlyText != nil {
		result.OnlyText = cloneBool(override.OnlyText)
	}
	if override.Timestamp != nil {
		result.Timestamp = cloneBool(override.Timestamp)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if len(override.IncludeExtensions) > 0 {
		result.IncludeExtensions = append([]string{}, utils.DeduplicateStrings(override.IncludeExtensions)...)
	}
	if len(override.ExcludeDirectories) > 0 {
		result.ExcludeDirectories = append([]string{}, utils.DeduplicateStrings(override.ExcludeDirectories)...)
	}
	if override.MaxTextFileSize != nil {
		result.MaxTextFileSize = cloneInt64(override.MaxTextFileSize)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
