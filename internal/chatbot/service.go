package chatbot

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/avachat/chatbot-service/internal/common"
)

// ErrMissingKnowledgeBase rejects submissions without a knowledge base id.
var ErrMissingKnowledgeBase = errors.New("knowledgeBaseId is required in the request body")

// Publisher enqueues dispatch messages. Implemented by store/rabbitmq in
// production and by in-memory fakes in tests.
type Publisher interface {
	PublishRequest(ctx context.Context, requestID string) error
}

type Service struct {
	repo  *Repo
	queue Publisher
}

func NewService(repo *Repo, queue Publisher) *Service {
	return &Service{repo: repo, queue: queue}
}

// Submit validates the payload, writes the initial record and enqueues the
// dispatch message. Record write and enqueue are two separate calls; if the
// enqueue fails the record stays behind for the expiry sweeper, and if a
// message ever arrives without a record the worker treats it as a no-op.
func (s *Service) Submit(ctx context.Context, payload RequestPayload) (string, error) {
	if payload.KnowledgeBaseID == "" {
		return "", ErrMissingKnowledgeBase
	}

	id, err := common.NewULID()
	if err != nil {
		return "", err
	}

	rec := &Record{
		ChatbotRequestID: id,
		Status:           StatusProcessing,
		Payload:          payload,
		Result:           "",
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return "", err
	}

	if err := s.queue.PublishRequest(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Poll reads the record for id. A terminal record is deleted as a side effect
// of the read, so a finished result is handed out once under normal
// conditions. Concurrent polls of the same terminal record can both see the
// result or one can see not-found; the delete is best effort either way.
// An absent record returns (nil, nil).
func (s *Service) Poll(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if rec.Status.Terminal() {
		if err := s.repo.DeleteRecord(ctx, id); err != nil {
			log.Printf("poll: delete record id=%s failed: %v", id, err)
		}
	}
	return rec, nil
}
