package source

import (
	"context"
	"log/slog"

	"github.com/sietev/posverdad/internal/apperr"
	"github.com/sietev/posverdad/internal/store"
)

// Load fetches the collection through the provider into the store. The
// store's loading flag gates concurrent loads: a second call while one is
// outstanding returns ErrLoadInFlight without touching the source. The
// flag is always reset afterward, success or failure.
func Load(ctx context.Context, st *store.Store, p Provider, logger *slog.Logger) error {
	if !st.BeginLoad() {
		return apperr.ErrLoadInFlight
	}

	items, total, err := p.Fetch(ctx)
	if err != nil {
		st.FailLoad()
		logger.Warn("load failed", slog.String("error", err.Error()))
		return err
	}

	st.FinishLoad(items, total)
	logger.Info("articles loaded", slog.Int("count", len(items)), slog.Int("total", total))
	return nil
}
