package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
	"github.com/tair/fabstock/internal/remote"
	"github.com/tair/fabstock/pkg/logger"
)

// UploadLocalToRemote upserts every non-empty in-memory collection to the remote
// backend described by target. It stops at the first failing table; tables already
// uploaded stay uploaded.
func (p *Provider) UploadLocalToRemote(ctx context.Context, target domain.AppSettings) error {
	client, err := p.dial(ctx, target)
	if err != nil {
		return err
	}
	defer client.Close()

	snap := p.Snapshot()
	for _, c := range domain.Collections {
		if snap.Len(c) == 0 {
			logger.Info(ctx).Str("collection", string(c)).Msg("Skipping empty collection")
			continue
		}
		rows, err := snap.Records(c)
		if err != nil {
			return err
		}
		if err := client.Upsert(ctx, c.Table(), rows); err != nil {
			return asRemoteError("upsert", c.Table(), err)
		}
		logger.Info(ctx).Str("collection", string(c)).Int("records", len(rows)).Msg("Collection uploaded")
	}
	return nil
}

// DownloadRemoteToLocal fetches each remote table in turn, replaces the in-memory
// collection and persists it to local storage. It stops at the first failure;
// collections fetched before it stay replaced.
func (p *Provider) DownloadRemoteToLocal(ctx context.Context, target domain.AppSettings) error {
	client, err := p.dial(ctx, target)
	if err != nil {
		return err
	}
	defer client.Close()

	for _, c := range domain.Collections {
		rows, err := client.SelectAll(ctx, c.Table())
		if err != nil {
			return asRemoteError("select", c.Table(), err)
		}

		var fresh domain.Snapshot
		data := domain.RecordData(rows)
		if err := fresh.Decode(c, data); err != nil {
			return &domain.RemoteError{Op: "decode", Table: c.Table(), Err: err}
		}

		p.mu.Lock()
		p.snap.CopyFrom(c, fresh)
		p.mu.Unlock()
		p.metrics.setSize(c, fresh.Len(c))

		if err := localstore.Save(ctx, p.local, c.StorageKey(), data); err != nil {
			return fmt.Errorf("failed to persist %s locally: %w", c, err)
		}
		logger.Info(ctx).Str("collection", string(c)).Int("records", len(rows)).Msg("Collection downloaded")
	}
	return nil
}

func (p *Provider) dial(ctx context.Context, target domain.AppSettings) (remote.Client, error) {
	if !target.RemoteConfigured() {
		return nil, &domain.ConfigurationError{Message: "remote endpoint URL and API key are required"}
	}
	if p.connect == nil {
		return nil, &domain.ConfigurationError{Message: "remote backend is not available in this build"}
	}
	return p.connect(ctx, target.RemoteURL, target.RemoteKey)
}

// asRemoteError keeps typed backend errors as they are and wraps anything else.
func asRemoteError(op, table string, err error) error {
	var remoteErr *domain.RemoteError
	var configErr *domain.ConfigurationError
	if errors.As(err, &remoteErr) || errors.As(err, &configErr) {
		return err
	}
	return &domain.RemoteError{Op: op, Table: table, Err: err}
}
