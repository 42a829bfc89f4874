package usecase

import (
	"github.com/guildops-lab/talos/pkg/domain/interfaces"
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/service/bundle"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/service/transcript"
)

// UseCases implements the case lifecycle: opening case channels, the
// admin_only escalation, and the close-time archival pipeline.
type UseCases struct {
	repo    interfaces.Repository
	discord discord.Service

	transcript *transcript.Capturer
	bundler    *bundle.Bundler
	tempDir    string
	catalog    []model.TypeDescriptor
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithTempDir sets the directory for close-time artifacts
func WithTempDir(dir string) Option {
	return func(uc *UseCases) {
		uc.tempDir = dir
	}
}

// WithTypeCatalog installs case types loaded from the catalog file. Catalog
// entries shadow the built-in table on ID collision.
func WithTypeCatalog(catalog []model.TypeDescriptor) Option {
	return func(uc *UseCases) {
		uc.catalog = catalog
	}
}

// New creates the use case layer.
func New(repo interfaces.Repository, svc discord.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		discord: svc,
		tempDir: "tmp",
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.transcript = transcript.New(svc, uc.tempDir)
	uc.bundler = bundle.New(svc, uc.tempDir)

	return uc
}
