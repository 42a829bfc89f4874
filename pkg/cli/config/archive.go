package config

import (
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Archive holds CLI flags for the close-time archival pipeline
type Archive struct {
	tempDir     string
	catalogPath string
}

// Flags returns CLI flags for archive configuration
func (x *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "temp-dir",
			Usage:       "Directory for close-time artifacts (transcripts, attachment bundles)",
			Category:    "Archive",
			Value:       "tmp",
			Sources:     cli.EnvVars("TALOS_TEMP_DIR"),
			Destination: &x.tempDir,
		},
		&cli.StringFlag{
			Name:        "case-catalog",
			Usage:       "Path to the TOML case-type catalog (built-in types used when empty)",
			Category:    "Archive",
			Sources:     cli.EnvVars("TALOS_CASE_CATALOG"),
			Destination: &x.catalogPath,
		},
	}
}

// TempDir returns the artifact directory
func (x *Archive) TempDir() string {
	return x.tempDir
}

// Configure loads the case-type catalog when one is configured.
func (x *Archive) Configure() ([]model.TypeDescriptor, error) {
	if x.catalogPath == "" {
		logging.Default().Info("No case catalog configured, using built-in case types")
		return nil, nil
	}

	catalog, err := LoadCaseCatalog(x.catalogPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load case catalog", goerr.V("path", x.catalogPath))
	}

	logging.Default().Info("Loaded case catalog",
		"path", x.catalogPath, "types", len(catalog.Types))
	return catalog.Descriptors(), nil
}
