package eventhub

import (
	"sync"

	"EventHub/internal/model"
	"EventHub/internal/service"

	"github.com/google/uuid"
)

// EntryState 聊天记录条目的确认状态
type EntryState int

const (
	Pending EntryState = iota
	Confirmed
	Failed
)

func (s EntryState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Entry 一条聊天记录；本地先行写入的条目带 LocalID，服务端加载的条目 LocalID 为空
type Entry struct {
	LocalID string
	Message model.Message
	State   EntryState
}

// AffordanceKind 最新机器人消息下可用的交互
type AffordanceKind int

const (
	AffordanceNone AffordanceKind = iota
	AffordanceQuickOptions
	AffordanceRating
	AffordanceFreeText
)

// Affordance 当前可作答的交互方式
type Affordance struct {
	Kind       AffordanceKind
	QuestionID uint64
	Options    []string
}

// ChatLog 按时间追加的聊天记录。本地条目确认成功后保留原样，不替换为服务端记录。
type ChatLog struct {
	mu      sync.Mutex
	entries []Entry
}

func NewChatLog() *ChatLog {
	return &ChatLog{}
}

// Replace 用服务端记录整体替换，丢弃所有本地条目
func (l *ChatLog) Replace(messages []*model.Message) {
	entries := make([]Entry, 0, len(messages))
	for _, m := range messages {
		if m != nil {
			entries = append(entries, Entry{Message: *m, State: Confirmed})
		}
	}
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
}

// AppendPending 追加一条待确认的本地消息，返回其 LocalID
func (l *ChatLog) AppendPending(m model.Message) string {
	id := uuid.NewString()
	l.mu.Lock()
	l.entries = append(l.entries, Entry{LocalID: id, Message: m, State: Pending})
	l.mu.Unlock()
	return id
}

func (l *ChatLog) Confirm(localID string) bool {
	return l.mark(localID, Confirmed)
}

func (l *ChatLog) MarkFailed(localID string) bool {
	return l.mark(localID, Failed)
}

func (l *ChatLog) mark(localID string, state EntryState) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].LocalID == localID {
			l.entries[i].State = state
			return true
		}
	}
	return false
}

// Entries 返回记录快照
func (l *ChatLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ChatLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Affordance 只有最后一条是机器人消息且存在未作答的当前问题时，才提供作答交互
func (l *ChatLog) Affordance(current *model.Question) Affordance {
	if current == nil {
		return Affordance{}
	}
	l.mu.Lock()
	n := len(l.entries)
	var last Entry
	if n > 0 {
		last = l.entries[n-1]
	}
	l.mu.Unlock()
	if n == 0 || last.Message.MessageType != model.MessageBot || last.State == Failed {
		return Affordance{}
	}

	a := Affordance{QuestionID: current.ID}
	switch current.QuestionType {
	case model.QuestionQuickOptions:
		a.Kind = AffordanceQuickOptions
		a.Options = service.QuestionOptions(current)
	case model.QuestionRating:
		a.Kind = AffordanceRating
	default:
		a.Kind = AffordanceFreeText
	}
	return a
}
