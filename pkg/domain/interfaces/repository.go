package interfaces

// Repository defines the interface for data persistence. Every sub-repository
// method is scoped by guild ID; implementations must never let one guild's
// data satisfy another guild's query.
type Repository interface {
	Case() CaseRepository
	Archive() ArchiveRepository
	Tag() TagRepository
	GuildConfig() GuildConfigRepository

	Close() error
}
