package memory

import (
	"github.com/guildops-lab/talos/pkg/domain/interfaces"
)

// Memory is the in-memory repository used for development and tests. It
// mirrors the Firestore backend's behavior, including the guild isolation
// and the archive composite-key uniqueness.
type Memory struct {
	caseRepo    *caseRepository
	archive     *archiveRepository
	tag         *tagRepository
	guildConfig *guildConfigRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		caseRepo:    newCaseRepository(),
		archive:     newArchiveRepository(),
		tag:         newTagRepository(),
		guildConfig: newGuildConfigRepository(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Archive() interfaces.ArchiveRepository {
	return m.archive
}

func (m *Memory) Tag() interfaces.TagRepository {
	return m.tag
}

func (m *Memory) GuildConfig() interfaces.GuildConfigRepository {
	return m.guildConfig
}

func (m *Memory) Close() error {
	return nil
}
