package memory

import "github.com/guildops-lab/talos/pkg/domain/interfaces"

// Sentinel errors shared by the in-memory repositories
var (
	ErrNotFound       = interfaces.ErrNotFound
	ErrStatusConflict = interfaces.ErrStatusConflict
)
