package model

import (
	"context"

	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/utils/safe"
)

// Artifact is a file produced at close time and uploaded to the archive
// thread. Artifacts live under the temp directory and must be removed once
// the close attempt finishes, whether or not the upload succeeded.
type Artifact struct {
	Name string // upload filename
	Path string // location on the local filesystem
}

// Remove deletes the artifact from disk. Missing files are tolerated so that
// cleanup can run unconditionally.
func (a Artifact) Remove(ctx context.Context) {
	safe.Remove(ctx, a.Path)
}

// TranscriptArtifact is the chronological message log of a case channel.
type TranscriptArtifact struct {
	Artifact
	ChannelID    types.ChannelID
	MessageCount int
}

// ZipArtifact bundles the image attachments of a case channel. Absent
// entirely when the channel had no image attachments.
type ZipArtifact struct {
	Artifact
	ChannelID  types.ChannelID
	EntryCount int
}
