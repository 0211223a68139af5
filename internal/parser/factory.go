package parser

import (
	"fmt"
	"sort"

	"sdsposter/internal/config"
	"sdsposter/internal/port"
)

// ProviderFactory creates an Extractor from the parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.Extractor, error)

// registry of extraction backends, populated by init() in each provider
// package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction backend by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// Providers lists the registered backend names.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExtractor creates the Extractor selected by cfg.Provider.
func NewExtractor(cfg *config.ParserConfig) (port.Extractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s (registered: %v)", cfg.Provider, Providers())
	}
	return factory(cfg)
}
