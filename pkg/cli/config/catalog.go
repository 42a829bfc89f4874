package config

import (
	"os"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// CaseCatalog is the TOML case-type catalog. Entries shadow the built-in
// table on ID collision, letting operators rename or re-emoji legacy types
// without a redeploy.
type CaseCatalog struct {
	Types []CaseType `toml:"case_type"`
}

// CaseType is a single catalog entry
type CaseType struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Emoji string `toml:"emoji"`
}

// Validate checks if the CaseType is valid
func (c *CaseType) Validate() error {
	if c.ID == "" {
		return goerr.Wrap(ErrInvalidConfig, "case type ID is required")
	}
	if c.Name == "" {
		return goerr.Wrap(ErrMissingName, "case type name is required", goerr.V("id", c.ID))
	}
	return nil
}

// Validate checks if the CaseCatalog is valid
func (c *CaseCatalog) Validate() error {
	ids := make(map[string]bool)
	for _, ct := range c.Types {
		if err := ct.Validate(); err != nil {
			return goerr.Wrap(err, "invalid case type")
		}
		if ids[ct.ID] {
			return goerr.Wrap(ErrDuplicateTypeID, "catalog IDs must be unique", goerr.V("id", ct.ID))
		}
		ids[ct.ID] = true
	}
	return nil
}

// Descriptors converts the catalog to domain type descriptors
func (c *CaseCatalog) Descriptors() []model.TypeDescriptor {
	descriptors := make([]model.TypeDescriptor, len(c.Types))
	for i, ct := range c.Types {
		descriptors[i] = model.TypeDescriptor{
			ID:    types.TypeID(ct.ID),
			Name:  ct.Name,
			Emoji: ct.Emoji,
		}
	}
	return descriptors
}

// LoadCaseCatalog loads the case-type catalog from a TOML file
func LoadCaseCatalog(path string) (*CaseCatalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var catalog CaseCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", path))
	}

	return &catalog, nil
}
