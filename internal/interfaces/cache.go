package interfaces

import "context"

// RankingCache 活动排名快照缓存，内容由调用方序列化
type RankingCache interface {
	Get(ctx context.Context, eventID uint64) ([]byte, bool, error)
	Set(ctx context.Context, eventID uint64, payload []byte) error
	Invalidate(ctx context.Context, eventID uint64) error
}
