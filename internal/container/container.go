// Package container provides dependency injection for the stmt-extract
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/stmt-extract/internal/categories"
	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/extractor"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/normalize"
	"fjacquet/stmt-extract/internal/prompt"
	"fjacquet/stmt-extract/internal/provider"
)

// Container holds all application dependencies and provides methods to
// access them.
//
// Container is immutable after creation - all fields are private and can
// only be accessed through getter methods. This prevents accidental
// modification of dependencies after initialization.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	registry   *prompt.Registry
	taxonomy   categories.Taxonomy
	normalizer *normalize.Normalizer
	provider   provider.Provider
	extractor  *extractor.StatementExtractor
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	taxonomy, err := categories.LoadTaxonomy(cfg.Extraction.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	registry := prompt.NewDefaultRegistry()
	normalizer := normalize.New(cfg.Extraction.DefaultCurrency, taxonomy, logger)

	prov, err := provider.New(cfg, provider.Deps{
		Registry:    registry,
		Normalizer:  normalizer,
		SanitizeCfg: cfg.SanitizeConfig(),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	ext := extractor.New(prov, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldProvider, Value: cfg.Provider.Type},
		logging.Field{Key: logging.FieldModel, Value: cfg.ActiveProvider().Model})

	return &Container{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		taxonomy:   taxonomy,
		normalizer: normalizer,
		provider:   prov,
		extractor:  ext,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTaxonomy returns the loaded category taxonomy.
func (c *Container) GetTaxonomy() categories.Taxonomy {
	return c.taxonomy
}

// GetProvider returns the configured extraction backend.
func (c *Container) GetProvider() provider.Provider {
	return c.provider
}

// GetExtractor returns the statement extractor.
func (c *Container) GetExtractor() *extractor.StatementExtractor {
	return c.extractor
}
