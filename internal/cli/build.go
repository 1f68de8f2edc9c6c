package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/logging"
)

// RunBuild loads the catalog, builds every collection and prints the result.
func RunBuild(ctx context.Context, flags *BuildFlags, w io.Writer) error {
	cfg := LoadConfig(flags.CommonFlags)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "build")

	store, err := NewStore(cfg, flags.DryRun)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	svc := NewService(cfg, store, logger)
	summary, err := svc.Rebuild(ctx)
	if err != nil {
		return err
	}
	snap, err := svc.Snapshot()
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	PrintHeader(w, "build", flags.DryRun)
	PrintBuildSummary(w, summary, snap)
	return nil
}
