package reconcile

import (
	"context"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
)

// DisableResult describes the side effects of a successful Disable.
type DisableResult struct {
	OpID string
	// StopErr holds the remote failure of the stop request, if any. It
	// does not fail the operation.
	StopErr error
}

// Disable removes the boot-time scheduler selection, stops the running
// scheduler and installs the updated document at finalPath. Per-mode
// overrides are kept.
func (e *Engine) Disable(ctx context.Context, finalPath string) (*DisableResult, error) {
	ctx, opID := e.opContext(ctx, "disable")
	res := &DisableResult{OpID: opID}

	e.config.ClearDefault()
	if err := e.config.WriteFile(e.tempPath); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Stopping scheduler")
	if res.StopErr = e.client.StopScheduler(ctx); res.StopErr != nil {
		logger.Warn(ctx, "Failed to stop scheduler", tag.Error(res.StopErr))
	}

	if err := e.copier.Copy(ctx, e.tempPath, finalPath); err != nil {
		logger.Error(ctx, "Failed to install loader config", tag.Path(finalPath), tag.Error(err))
		return nil, err
	}
	logger.Info(ctx, "Installed loader config", tag.Path(finalPath))
	return res, nil
}
