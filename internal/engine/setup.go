package engine

import (
	"github.com/roach88/dpl/internal/config"
	"github.com/roach88/dpl/internal/i18n"
	"github.com/roach88/dpl/internal/querysql"
	"github.com/roach88/dpl/internal/render"
)

// NewFromConfig wires a renderer over db using the settings in cfg.
// driver selects the parameter placeholder style. db may be nil when the
// renderer is only used for Compile and Explain.
func NewFromConfig(cfg config.Config, db Querier, driver string, opts ...Option) *Renderer {
	exec := NewExecutor(db, querysql.PlaceholderFor(driver))
	f := render.NewFormatter(cfg.ArticlePath, i18n.New(cfg.Language))
	opts = append([]Option{WithCacheExpiry(cfg.CacheExpiry())}, opts...)
	return NewRenderer(cfg.Limits(), exec, f, opts...)
}
