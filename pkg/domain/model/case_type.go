package model

import "github.com/guildops-lab/talos/pkg/domain/types"

// TypeDescriptor is the display data for a case type. Both the built-in
// catalog and per-guild custom types resolve to this shape; the archival
// pipeline never cares which source a descriptor came from.
type TypeDescriptor struct {
	ID    types.TypeID `firestore:"id"`
	Name  string       `firestore:"name"`
	Emoji string       `firestore:"emoji"`
}

// BuiltinTypes is the legacy fixed type table. Guilds may define additional
// types of their own; those are stored in the guild configuration and take
// precedence over this table on ID collision.
var BuiltinTypes = []TypeDescriptor{
	{ID: "bug_report", Name: "Bug Report", Emoji: "🐞"},
	{ID: "player_report", Name: "Player Report", Emoji: "🚨"},
	{ID: "question", Name: "Question", Emoji: "❓"},
	{ID: "appeal", Name: "Ban Appeal", Emoji: "⚖️"},
	{ID: "staff_application", Name: "Staff Application", Emoji: "📋"},
	{ID: "builder_application", Name: "Builder Application", Emoji: "🏗️"},
}

// LookupBuiltinType returns the descriptor for a built-in type ID.
func LookupBuiltinType(id types.TypeID) (TypeDescriptor, bool) {
	for _, td := range BuiltinTypes {
		if td.ID == id {
			return td, true
		}
	}
	return TypeDescriptor{}, false
}
