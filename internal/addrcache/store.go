package addrcache

import (
	"fmt"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	ma "github.com/dep2p/go-multiformat/pkg/lib/multiaddr"
)

// 淘汰策略
const (
	// PolicyLRU 最近最少使用
	PolicyLRU = "lru"
	// PolicyARC 自适应替换，兼顾访问频率
	PolicyARC = "arc"
)

// store 缓存存储，Add 返回是否发生了淘汰
type store interface {
	Get(key string) (ma.Multiaddr, bool)
	Add(key string, m ma.Multiaddr) bool
	Len() int
	Purge()
}

func newStore(policy string, size int) (store, error) {
	switch policy {
	case "", PolicyLRU:
		c, err := lru.New[string, ma.Multiaddr](size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case PolicyARC:
		c, err := arc.NewARC[string, ma.Multiaddr](size)
		if err != nil {
			return nil, err
		}
		return &arcStore{c: c, size: size}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// arcStore 适配 ARCCache，其 Add 不报告淘汰
type arcStore struct {
	c    *arc.ARCCache[string, ma.Multiaddr]
	size int
}

func (s *arcStore) Get(key string) (ma.Multiaddr, bool) {
	return s.c.Get(key)
}

// Add 并发写入同一个新键时淘汰计数可能多算一次
func (s *arcStore) Add(key string, m ma.Multiaddr) bool {
	evicts := s.c.Len() >= s.size && !s.c.Contains(key)
	s.c.Add(key, m)
	return evicts
}

func (s *arcStore) Len() int {
	return s.c.Len()
}

func (s *arcStore) Purge() {
	s.c.Purge()
}
