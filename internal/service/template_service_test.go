package service_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/methodology"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplateService(t *testing.T) {
	st := newTestStore(t)
	svc := service.NewTemplateService(st, zap.NewNop())
	ctx := context.Background()

	t.Run("import document", func(t *testing.T) {
		f, err := os.Open("../methodology/testdata/templates.yaml")
		require.NoError(t, err)
		defer f.Close()

		saved, err := svc.Import(ctx, f)
		require.NoError(t, err)
		require.NotEmpty(t, saved)

		got, err := svc.GetByID(ctx, "audit-ifrs")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Version)
	})

	t.Run("save bumps the version", func(t *testing.T) {
		first, err := svc.Save(ctx, auditTemplate())
		require.NoError(t, err)

		second, err := svc.Save(ctx, auditTemplate())
		require.NoError(t, err)
		assert.Equal(t, first.Version+1, second.Version)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})

	t.Run("invalid document saves nothing", func(t *testing.T) {
		before := len(svc.List(ctx))
		_, err := svc.Import(ctx, strings.NewReader("templates:\n  - id: broken\n    unknown: true\n"))
		assert.True(t, errors.Is(err, methodology.ErrInvalidTemplate))
		assert.Len(t, svc.List(ctx), before)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		list := svc.List(ctx)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "missing")
		assert.True(t, errors.Is(err, service.ErrTemplateNotFound))
	})
}
