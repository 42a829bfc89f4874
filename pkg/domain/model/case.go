package model

import (
	"time"

	"github.com/guildops-lab/talos/pkg/domain/types"
)

// Case represents a support ticket or a role application backed by a live
// Discord channel. The channel and the welcome message exist once the case
// reaches the opened status.
type Case struct {
	ID        types.CaseID     `firestore:"id"`
	GuildID   types.GuildID    `firestore:"guild_id"`
	ChannelID types.ChannelID  `firestore:"channel_id"`
	MessageID types.MessageID  `firestore:"message_id"` // welcome message carrying the lifecycle controls
	CreatedBy types.UserID     `firestore:"created_by"`
	TypeID    types.TypeID     `firestore:"type_id"`
	Kind      types.CaseKind   `firestore:"kind"`
	Status    types.CaseStatus `firestore:"status"`
	CreatedAt time.Time        `firestore:"created_at"`
	UpdatedAt time.Time        `firestore:"updated_at"`
}
