package pipeline

import (
	"context"
	"fmt"

	"github.com/backmassage/skinforge/internal/catalog"
	"github.com/backmassage/skinforge/internal/engine"
	"github.com/backmassage/skinforge/internal/naming"
)

// Executor renders the configured scene and persists the resulting frame
// under the canonical artifact name.
type Executor struct {
	eng   engine.Engine
	store *naming.Store
}

func NewExecutor(eng engine.Engine, store *naming.Store) *Executor {
	return &Executor{eng: eng, store: store}
}

// Render produces one artifact for the job's already-configured scene.
// It returns the written path and byte count.
func (e *Executor) Render(ctx context.Context, j catalog.Job) (string, int64, error) {
	data, err := e.eng.RenderFrame(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("render %s: %w", j, err)
	}

	path, err := e.store.Write(j, data)
	if err != nil {
		return "", 0, fmt.Errorf("write %s: %w: %v", j, engine.ErrOutputWrite, err)
	}
	return path, int64(len(data)), nil
}
