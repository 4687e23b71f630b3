package service

import (
	"context"
	"strings"

	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
)

const DefaultMessageLimit = 100

// CreateMessageRequest 写入聊天消息；机器人消息不带 participant_id
type CreateMessageRequest struct {
	EventID       uint64  `json:"event_id"`
	ParticipantID *uint64 `json:"participant_id"`
	Text          string  `json:"text"`
	MessageType   string  `json:"message_type"`
}

type MessageService struct {
	events       repository.EventRepository
	participants repository.ParticipantRepository
	messages     repository.MessageRepository
	logger       *logrus.Logger
}

func NewMessageService(events repository.EventRepository, participants repository.ParticipantRepository, messages repository.MessageRepository, logger *logrus.Logger) *MessageService {
	return &MessageService{events: events, participants: participants, messages: messages, logger: logger}
}

// List 按时间升序返回活动消息，并附上发送者昵称与头像
func (s *MessageService) List(ctx context.Context, eventID uint64, limit int) ([]*model.Message, error) {
	if eventID == 0 {
		return nil, Validation("event_id is required", "event_id")
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	messages, err := s.messages.ListByEvent(ctx, eventID, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]bool)
	var ids []uint64
	for _, m := range messages {
		if m.ParticipantID != nil && !seen[*m.ParticipantID] {
			seen[*m.ParticipantID] = true
			ids = append(ids, *m.ParticipantID)
		}
	}
	participants, err := s.participants.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	for _, m := range messages {
		if m.ParticipantID == nil {
			continue
		}
		if p, ok := byID[*m.ParticipantID]; ok {
			name := p.Name
			m.ParticipantName = &name
			m.ParticipantAvatar = p.AvatarURL
		}
	}
	return messages, nil
}

func (s *MessageService) Create(ctx context.Context, req CreateMessageRequest) (*model.Message, error) {
	if req.EventID == 0 || strings.TrimSpace(req.Text) == "" {
		return nil, Validation("event_id and text are required", "missing required field")
	}
	messageType := model.MessageType(req.MessageType)
	if messageType == "" {
		messageType = model.MessageUser
		if req.ParticipantID == nil {
			messageType = model.MessageBot
		}
	}
	if messageType != model.MessageBot && messageType != model.MessageUser {
		return nil, Validation("Invalid message_type", "message_type must be bot or user")
	}
	if messageType == model.MessageUser && req.ParticipantID == nil {
		return nil, Validation("participant_id is required for user messages", "participant_id")
	}

	if _, err := s.events.Get(ctx, req.EventID); err != nil {
		return nil, notFoundOr(err, "Event not found")
	}
	if req.ParticipantID != nil {
		participant, err := s.participants.Get(ctx, *req.ParticipantID)
		if err != nil {
			return nil, notFoundOr(err, "Participant not found")
		}
		if participant.EventID != req.EventID {
			return nil, Validation("Participant does not belong to this event", "event mismatch")
		}
	}

	message := &model.Message{
		EventID:       req.EventID,
		ParticipantID: req.ParticipantID,
		Text:          req.Text,
		MessageType:   messageType,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Delete(ctx context.Context, id uint64) error {
	n, err := s.messages.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("Message with ID %d not found", id)
	}
	return nil
}
