// Package config implements the parser's configuration surface: the nine
// options spec §6 documents plus a per-chunk size cap (MaxChunkSize),
// their defaults, YAML loading, and a
// fsnotify-backed hot-reload watcher for long-lived servers.
//
// The streaming parser itself only ever reads an immutable Config
// snapshot handed to it at construction time — reconfiguring a live
// parser mid-message is out of scope; Watch is plumbing for callers that
// construct a fresh parser per connection and want new connections to
// pick up new limits without a process restart.
package config

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config is the parser's configuration surface, per spec §6.
type Config struct {
	MaxHeaders               int           `yaml:"maxHeaders"`
	MaxHeaderLineLength      int           `yaml:"maxHeaderLineLength"`
	MaxBodySize              int64         `yaml:"maxBodySize"`
	MaxChunks                int64         `yaml:"maxChunks"`
	MaxChunkSize             int64         `yaml:"maxChunkSize"`
	ValidateHeaderNames      bool          `yaml:"validateHeaderNames"`
	ValidateHeaderValues     bool          `yaml:"validateHeaderValues"`
	AllowUnderscoreInHeaders bool          `yaml:"allowUnderscoreInHeaders"`
	EnablePipelining         bool          `yaml:"enablePipelining"`
	InactivityTimeout        time.Duration `yaml:"inactivityTimeout"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		MaxHeaders:               256,
		MaxHeaderLineLength:      8192,
		MaxBodySize:              10 * 1024 * 1024,
		MaxChunks:                10000,
		MaxChunkSize:             10 * 1024 * 1024,
		ValidateHeaderNames:      true,
		ValidateHeaderValues:     true,
		AllowUnderscoreInHeaders: true,
		EnablePipelining:         true,
		InactivityTimeout:        30 * time.Second,
	}
}

// LoadFile reads a YAML config file at path and overlays it onto the
// default configuration. A missing field in the file keeps its default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every violation found, aggregated with multierror,
// rather than stopping at the first one.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.MaxHeaders <= 0 {
		result = multierror.Append(result, errInvalid("maxHeaders must be positive"))
	}
	if c.MaxHeaderLineLength <= 0 {
		result = multierror.Append(result, errInvalid("maxHeaderLineLength must be positive"))
	}
	if c.MaxBodySize < 0 {
		result = multierror.Append(result, errInvalid("maxBodySize must not be negative"))
	}
	if c.MaxChunks <= 0 {
		result = multierror.Append(result, errInvalid("maxChunks must be positive"))
	}
	if c.MaxChunkSize <= 0 {
		result = multierror.Append(result, errInvalid("maxChunkSize must be positive"))
	}
	if c.InactivityTimeout < 0 {
		result = multierror.Append(result, errInvalid("inactivityTimeout must not be negative"))
	}
	return result.ErrorOrNil()
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func errInvalid(msg string) error { return &validationError{msg: msg} }

// Watch watches the config file at path for writes and invokes onChange
// with a freshly loaded Config after each one. The returned io.Closer
// stops the watcher. Malformed reloads are skipped (onChange is not
// called) rather than tearing down the watch.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	watcher := &Watcher{fs: w, done: make(chan struct{})}
	go watcher.run(path, onChange)
	return watcher, nil
}

// Watcher is a running config file watch started by Watch.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

func (w *Watcher) run(path string, onChange func(*Config)) {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadFile(path)
			if err != nil {
				continue
			}
			onChange(cfg)
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
