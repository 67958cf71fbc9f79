package engine

import (
	"fmt"
	"sync"

	"github.com/germanamz/pairloop/pkg/modeladapter"
	"github.com/germanamz/pairloop/pkg/providers/ollama"
	"github.com/germanamz/pairloop/pkg/providers/openai"
)

// ProviderFactory creates a Completer from a BackendConfig.
type ProviderFactory func(cfg BackendConfig) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["openai"] = newOpenAI
		factories["ollama"] = newOllama
	})
}

// RegisterProvider registers a custom provider factory under the given kind.
// It can be called before New to extend the engine with additional backends.
func RegisterProvider(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// getFactory returns the factory for the given kind.
func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

func newOpenAI(cfg BackendConfig) (modeladapter.Completer, error) {
	a := openai.New(cfg.BaseURL, cfg.APIKey, cfg.Model)
	a.Temperature = cfg.Temperature
	a.MaxTokens = cfg.MaxTokens
	a.Headers = cfg.Headers

	return a, nil
}

func newOllama(cfg BackendConfig) (modeladapter.Completer, error) {
	a, err := ollama.New(cfg.BaseURL, cfg.Model)
	if err != nil {
		return nil, err
	}
	a.Temperature = cfg.Temperature
	a.MaxTokens = cfg.MaxTokens

	return a, nil
}

// buildCompleter creates a Completer using the registered factory for the
// backend's Kind.
func buildCompleter(cfg BackendConfig) (modeladapter.Completer, error) {
	factory, ok := getFactory(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown provider kind %q", cfg.Kind)
	}

	c, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: provider %q: %w", cfg.Kind, err)
	}

	return c, nil
}
