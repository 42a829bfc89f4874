package usecase

import (
	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
)

// resolveType maps a type ID to its descriptor. Resolution order: guild
// custom types, catalog file, built-in table. Unknown IDs fall back to a bare
// descriptor so an orphaned case can still be archived and tagged.
func (uc *UseCases) resolveType(cfg *model.GuildConfig, typeID types.TypeID) model.TypeDescriptor {
	if td, ok := cfg.LookupCustomType(typeID); ok {
		return td
	}

	for _, td := range uc.catalog {
		if td.ID == typeID {
			return td
		}
	}

	if td, ok := model.LookupBuiltinType(typeID); ok {
		return td
	}

	return model.TypeDescriptor{ID: typeID, Name: string(typeID)}
}
