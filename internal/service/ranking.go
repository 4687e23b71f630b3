package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
)

const DefaultRankingLimit = 10

// RankingEntry 排名中的一行
type RankingEntry struct {
	Position    int               `json:"position"`
	Participant model.Participant `json:"participant"`
	Badges      []string          `json:"badges"`
}

// ComputeRanking 按积分降序、加入时间升序（再按 id）排序，名次为 1..N 连续整数。
// 不修改入参；limit <= 0 时返回全部。
func ComputeRanking(participants []*model.Participant, badges map[uint64][]string, limit int) []RankingEntry {
	sorted := make([]model.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			sorted = append(sorted, *p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	entries := make([]RankingEntry, len(sorted))
	for i := range sorted {
		position := i + 1
		p := sorted[i]
		p.RankPosition = &position
		icons := badges[p.ID]
		if icons == nil {
			icons = []string{}
		}
		entries[i] = RankingEntry{Position: position, Participant: p, Badges: icons}
	}
	return entries
}

// RankingService 排名重算与快照缓存
type RankingService struct {
	participants repository.ParticipantRepository
	badges       repository.BadgeRepository
	cache        interfaces.RankingCache
	logger       *logrus.Logger

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex // 每个活动一把锁，串行化重算与快照写入
}

func NewRankingService(participants repository.ParticipantRepository, badges repository.BadgeRepository, cache interfaces.RankingCache, logger *logrus.Logger) *RankingService {
	return &RankingService{participants: participants, badges: badges, cache: cache, logger: logger, locks: make(map[uint64]*sync.Mutex)}
}

func (s *RankingService) lock(eventID uint64) func() {
	s.mu.Lock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *RankingService) compute(ctx context.Context, eventID uint64) ([]RankingEntry, error) {
	participants, err := s.participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	icons, err := s.badges.IconsByParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ComputeRanking(participants, icons, 0), nil
}

// Recompute 全量重算活动排名，写回 rank_position 并刷新快照。
// 同一活动的重算串行执行，快照只在这里写入。
func (s *RankingService) Recompute(ctx context.Context, eventID uint64) ([]RankingEntry, error) {
	unlock := s.lock(eventID)
	defer unlock()

	entries, err := s.compute(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ranks := make(map[uint64]int, len(entries))
	for _, e := range entries {
		ranks[e.Participant.ID] = e.Position
	}
	if err := s.participants.UpdateRanks(ctx, ranks); err != nil {
		return nil, err
	}
	s.store(ctx, eventID, entries)
	return entries, nil
}

// Rankings 读取排名：优先使用快照，未命中时现算，不写库也不写快照
func (s *RankingService) Rankings(ctx context.Context, eventID uint64, limit int) ([]RankingEntry, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	payload, ok, err := s.cache.Get(ctx, eventID)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("读取排名缓存失败")
	}
	if ok {
		var entries []RankingEntry
		if err := json.Unmarshal(payload, &entries); err == nil {
			return truncate(entries, limit), nil
		}
		s.logger.WithField("event_id", eventID).Warn("排名缓存内容无效，重新计算")
	}

	entries, err := s.compute(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return truncate(entries, limit), nil
}

// Invalidate 删除活动的排名快照
func (s *RankingService) Invalidate(ctx context.Context, eventID uint64) {
	unlock := s.lock(eventID)
	defer unlock()
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("清除排名缓存失败")
	}
}

func (s *RankingService) store(ctx context.Context, eventID uint64, entries []RankingEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		s.logger.WithError(err).Warn("序列化排名失败")
		return
	}
	if err := s.cache.Set(ctx, eventID, payload); err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("写入排名缓存失败")
	}
}

func truncate(entries []RankingEntry, limit int) []RankingEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
