package firestore

import "github.com/guildops-lab/talos/pkg/domain/interfaces"

// Sentinel errors shared by the Firestore repositories
var (
	ErrNotFound       = interfaces.ErrNotFound
	ErrStatusConflict = interfaces.ErrStatusConflict
)
