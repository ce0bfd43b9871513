package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oshokin/engine-manifest/internal/config"
	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	"github.com/oshokin/engine-manifest/internal/logger"
)

// writePackages renders the manifest as the per-system package list
// consumed by the build expressions and writes it next to the manifest.
func (r *runner) writePackages(ctx context.Context) error {
	list := artifact.NewPackageList(r.store.Snapshot())

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode package list: %w", err)
	}

	if err = os.WriteFile(r.cfg.PackagesFile, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write package list: %w", err)
	}

	logger.InfoKV(ctx, "Wrote package list", "path", r.cfg.PackagesFile)

	return nil
}
