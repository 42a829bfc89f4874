package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guildops-lab/talos/pkg/domain/model"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/guildops-lab/talos/pkg/service/discord"
	"github.com/guildops-lab/talos/pkg/utils/logging"
	"github.com/guildops-lab/talos/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds parallel attachment downloads.
const defaultConcurrency = 4

// Bundler collects the image attachments of a case channel into a single zip
// archive for upload to the archive thread.
type Bundler struct {
	svc         discord.Service
	tempDir     string
	concurrency int
}

// Option is a functional option for Bundler configuration
type Option func(*Bundler)

// WithConcurrency overrides the download parallelism.
func WithConcurrency(n int) Option {
	return func(b *Bundler) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// New creates an attachment bundler writing under tempDir.
func New(svc discord.Service, tempDir string, opts ...Option) *Bundler {
	b := &Bundler{
		svc:         svc,
		tempDir:     tempDir,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bundle downloads every image attachment found in msgs and zips them. It
// returns nil (and no error) when the channel holds no image attachments.
// Individual download failures are logged and skipped; a close must not fail
// because one image became unreachable.
func (b *Bundler) Bundle(ctx context.Context, channelID types.ChannelID, msgs []*discord.Message) (*model.ZipArtifact, error) {
	var images []discord.Attachment
	for _, m := range msgs {
		for _, a := range m.Attachments {
			if a.IsImage() {
				images = append(images, a)
			}
		}
	}
	if len(images) == 0 {
		return nil, nil
	}

	bodies := make([][]byte, len(images))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(b.concurrency)
	for i, img := range images {
		grp.Go(func() error {
			data, err := b.download(grpCtx, img)
			if err != nil {
				logging.From(ctx).Warn("skipping unreachable attachment",
					"channel_id", channelID,
					"filename", img.Filename,
					"error", err)
				return nil
			}
			bodies[i] = data
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to download attachments", goerr.V("channel_id", channelID))
	}

	return b.writeZip(ctx, channelID, images, bodies)
}

func (b *Bundler) download(ctx context.Context, a discord.Attachment) ([]byte, error) {
	body, err := b.svc.DownloadAttachment(ctx, a.URL)
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, body)

	return io.ReadAll(body)
}

func (b *Bundler) writeZip(ctx context.Context, channelID types.ChannelID, images []discord.Attachment, bodies [][]byte) (*model.ZipArtifact, error) {
	if err := os.MkdirAll(b.tempDir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create temp directory", goerr.V("dir", b.tempDir))
	}

	name := fmt.Sprintf("attachments_%s.zip", channelID)
	path := filepath.Join(b.tempDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create zip file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	zw := zip.NewWriter(f)
	entries := 0
	for i, img := range images {
		if bodies[i] == nil {
			continue
		}

		// Index prefix keeps same-named uploads from colliding
		w, err := zw.Create(fmt.Sprintf("%03d_%s", i+1, filepath.Base(img.Filename)))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to add zip entry", goerr.V("filename", img.Filename))
		}
		if _, err := w.Write(bodies[i]); err != nil {
			return nil, goerr.Wrap(err, "failed to write zip entry", goerr.V("filename", img.Filename))
		}
		entries++
	}

	if err := zw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize zip", goerr.V("path", path))
	}

	if entries == 0 {
		// Every download failed; an empty bundle is worse than none
		safe.Remove(ctx, path)
		return nil, nil
	}

	return &model.ZipArtifact{
		Artifact: model.Artifact{
			Name: name,
			Path: path,
		},
		ChannelID:  channelID,
		EntryCount: entries,
	}, nil
}
