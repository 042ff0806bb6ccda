package xconfig

import (
	"fmt"
	"reflect"
)

// EnvSkipPrefix reads environment variables without any prefix.
const EnvSkipPrefix = "-"

type Options struct {
	files     []string
	dirs      []string
	envPrefix string
	strict    bool
}

type Option func(*Options)

func WithFiles(filenames ...string) Option {
	return func(o *Options) {
		o.files = append(o.files, filenames...)
	}
}

func WithDirs(dirnames ...string) Option {
	return func(o *Options) {
		o.dirs = append(o.dirs, dirnames...)
	}
}

func WithEnv(prefix string) Option {
	return func(o *Options) {
		o.envPrefix = prefix
	}
}

// WithStrict rejects keys in config files that match no struct field.
func WithStrict() Option {
	return func(o *Options) {
		o.strict = true
	}
}

// Load fills config in order: `default` tags, Default() methods,
// directories, files, then environment variables. Later sources win.
func Load(config interface{}, options ...Option) error {
	opts := &Options{}
	for _, option := range options {
		option(opts)
	}

	configElem, err := validateConfigPointer(config)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if err := applyDefaultTagsRecursive(configElem); err != nil {
		return fmt.Errorf("failed to apply default tags: %w", err)
	}

	callDefaultMethodsRecursive(configElem)

	if len(opts.dirs) > 0 {
		if err := loadFromDirs(config, opts.dirs, opts.strict); err != nil {
			return fmt.Errorf("failed to load from directories: %w", err)
		}
	}

	if len(opts.files) > 0 {
		if err := loadFromFiles(config, opts.files, opts.strict); err != nil {
			return fmt.Errorf("failed to load from files: %w", err)
		}
	}

	if opts.envPrefix != "" {
		if err := loadFromEnv(configElem, opts.envPrefix); err != nil {
			return fmt.Errorf("failed to load from environment: %w", err)
		}
	}

	return nil
}

func validateConfigPointer(config interface{}) (reflect.Value, error) {
	configValue := reflect.ValueOf(config)
	if configValue.Kind() != reflect.Ptr || configValue.IsNil() {
		return reflect.Value{}, fmt.Errorf("config must be a non-nil pointer")
	}
	configElem := configValue.Elem()
	if configElem.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("config must point to a struct, got %s", configElem.Kind())
	}
	return configElem, nil
}
