package addrcache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiformat/internal/config"
)

// ============================================================================
//                              fx 模块
// ============================================================================

// Params 缓存依赖
type Params struct {
	fx.In

	Config     *config.CacheConfig
	Registerer prometheus.Registerer `optional:"true"`
}

// Result 缓存输出
type Result struct {
	fx.Out

	Cache *Cache
}

// ProvideCache 按配置创建缓存
func ProvideCache(p Params) (Result, error) {
	opts := []Option{WithRegisterer(p.Registerer), WithPolicy(p.Config.Policy)}
	if !p.Config.Enabled {
		log.Debug("地址缓存已禁用")
		return Result{Cache: Disabled(opts...)}, nil
	}

	c, err := New(p.Config.Size, opts...)
	if err != nil {
		return Result{}, err
	}
	log.Debug("地址缓存已创建", "size", p.Config.Size, "policy", p.Config.Policy)
	return Result{Cache: c}, nil
}

type lifecycleInput struct {
	fx.In

	LC    fx.Lifecycle
	Cache *Cache
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			log.Debug("清空地址缓存", "entries", input.Cache.Len())
			input.Cache.Purge()
			return nil
		},
	})
}

// Module 返回 fx 模块
//
// 依赖 config.Module 提供的 *config.CacheConfig。
func Module() fx.Option {
	return fx.Module("addrcache",
		fx.Provide(ProvideCache),
		fx.Invoke(registerLifecycle),
	)
}
