package transcript

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// pageSize is the Discord message fetch page limit.
const pageSize = 100

// Capturer fetches the full message history of a case channel and writes a
// plain-text transcript to the temp directory.
type Capturer struct {
	svc     discord.Service
	tempDir string
}

// New creates a transcript capturer writing under tempDir.
func New(svc discord.Service, tempDir string) *Capturer {
	return &Capturer{
		svc:     svc,
		tempDir: tempDir,
	}
}

// Capture pages backward through the channel history until exhausted, then
// writes messages in chronological order. It returns the transcript artifact
// plus the fetched messages so the caller can reuse them for attachment
// bundling without a second fetch.
func (c *Capturer) Capture(ctx context.Context, channelID types.ChannelID) (*model.TranscriptArtifact, []*discord.Message, error) {
	var history []*discord.Message
	var before types.MessageID

	for {
		page, err := c.svc.ChannelMessages(ctx, channelID, pageSize, before)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to fetch transcript page",
				goerr.V("channel_id", channelID), goerr.V("fetched", len(history)))
		}
		if len(page) == 0 {
			break
		}

		history = append(history, page...)
		before = page[len(page)-1].ID

		if len(page) < pageSize {
			break
		}
	}

	// Pages arrive newest-first; flip into chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	artifact, err := c.write(ctx, channelID, history)
	if err != nil {
		return nil, nil, err
	}

	return artifact, history, nil
}

func (c *Capturer) write(ctx context.Context, channelID types.ChannelID, msgs []*discord.Message) (*model.TranscriptArtifact, error) {
	if err := os.MkdirAll(c.tempDir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create temp directory", goerr.V("dir", c.tempDir))
	}

	name := fmt.Sprintf("%s.txt", channelID)
	path := filepath.Join(c.tempDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create transcript file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "Transcript of channel %s\n", channelID)
	fmt.Fprintf(w, "Captured at %s\n\n", time.Now().UTC().Format(time.RFC3339))

	for _, m := range msgs {
		author := m.AuthorName
		if author == "" {
			author = string(m.AuthorID)
		}
		fmt.Fprintf(w, "[%s]: %s\n", author, m.Content)
		for _, a := range m.Attachments {
			fmt.Fprintf(w, "[%s]: (attachment: %s)\n", author, a.Filename)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, goerr.Wrap(err, "failed to write transcript", goerr.V("path", path))
	}

	return &model.TranscriptArtifact{
		Artifact: model.Artifact{
			Name: name,
			Path: path,
		},
		ChannelID:    channelID,
		MessageCount: len(msgs),
	}, nil
}
