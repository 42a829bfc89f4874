package transcript_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/service/transcript"
	"github.com/m-mizutani/gt"
)

type fakeHistoryService struct {
	discord.Service
	messages []*discord.Message // newest-first, as the API returns them
	calls    int
}

func (f *fakeHistoryService) ChannelMessages(ctx context.Context, channelID types.ChannelID, limit int, beforeID types.MessageID) ([]*discord.Message, error) {
	f.calls++

	start := 0
	if beforeID != "" {
		for i, m := range f.messages {
			if m.ID == beforeID {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(f.messages) {
		end = len(f.messages)
	}
	if start >= len(f.messages) {
		return nil, nil
	}
	return f.messages[start:end], nil
}

func newFakeMessages(n int) []*discord.Message {
	msgs := make([]*discord.Message, 0, n)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Newest first: message n comes before message n-1 in the slice
	for i := n; i >= 1; i-- {
		msgs = append(msgs, &discord.Message{
			ID:         types.MessageID(fmt.Sprintf("m%04d", i)),
			AuthorID:   "U1",
			AuthorName: "steve",
			Content:    fmt.Sprintf("message %d", i),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return msgs
}

func TestCapture(t *testing.T) {
	t.Run("writes chronological transcript", func(t *testing.T) {
		svc := &fakeHistoryService{messages: newFakeMessages(5)}
		svcCap := transcript.New(svc, t.TempDir())

		artifact, history, err := svcCap.Capture(context.Background(), "C1")
		gt.NoError(t, err).Required()
		gt.Value(t, artifact.MessageCount).Equal(5)
		gt.Value(t, artifact.ChannelID).Equal(types.ChannelID("C1"))
		gt.Array(t, history).Length(5)

		// Oldest message first after the flip
		gt.Value(t, history[0].Content).Equal("message 1")
		gt.Value(t, history[4].Content).Equal("message 5")

		data, err := os.ReadFile(artifact.Path)
		gt.NoError(t, err).Required()
		body := string(data)
		gt.Bool(t, strings.Contains(body, "Transcript of channel C1")).True()
		gt.Bool(t, strings.Index(body, "message 1") < strings.Index(body, "message 5")).True()
		gt.Bool(t, strings.Contains(body, "[steve]: message 3")).True()
	})

	t.Run("pages through long histories", func(t *testing.T) {
		svc := &fakeHistoryService{messages: newFakeMessages(250)}
		svcCap := transcript.New(svc, t.TempDir())

		artifact, history, err := svcCap.Capture(context.Background(), "C2")
		gt.NoError(t, err).Required()
		gt.Value(t, artifact.MessageCount).Equal(250)
		gt.Array(t, history).Length(250)
		gt.Number(t, svc.calls).GreaterOrEqual(3)

		gt.Value(t, history[0].Content).Equal("message 1")
		gt.Value(t, history[249].Content).Equal("message 250")
	})

	t.Run("empty channel yields empty transcript", func(t *testing.T) {
		svc := &fakeHistoryService{}
		svcCap := transcript.New(svc, t.TempDir())

		artifact, history, err := svcCap.Capture(context.Background(), "C3")
		gt.NoError(t, err).Required()
		gt.Value(t, artifact.MessageCount).Equal(0)
		gt.Array(t, history).Length(0)

		_, err = os.Stat(artifact.Path)
		gt.NoError(t, err)
	})

	t.Run("attachments noted in transcript body", func(t *testing.T) {
		msgs := newFakeMessages(1)
		msgs[0].Attachments = []discord.Attachment{{Filename: "crash.png", ContentType: "image/png"}}
		svc := &fakeHistoryService{messages: msgs}
		svcCap := transcript.New(svc, t.TempDir())

		artifact, _, err := svcCap.Capture(context.Background(), "C4")
		gt.NoError(t, err).Required()

		data, err := os.ReadFile(artifact.Path)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(string(data), "(attachment: crash.png)")).True()
	})
}
