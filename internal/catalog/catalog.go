package catalog

import (
	"context"
	"log"
)

// Knowledge bases are only shown to callers when tagged public=visible;
// anything else stays hidden.
const (
	visibilityTagKey = "public"
	visibleTagValue  = "visible"
)

type KnowledgeBase struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KnowledgeBaseSummary is the origin catalog's entry, tags included.
type KnowledgeBaseSummary struct {
	KnowledgeBaseID string            `json:"knowledgeBaseId"`
	Name            string            `json:"name"`
	Tags            map[string]string `json:"tags"`
}

type Model struct {
	ModelArn  string `json:"modelArn"`
	ModelName string `json:"modelName"`
}

// Lister enumerates the origin knowledge base catalog.
type Lister interface {
	ListKnowledgeBases(ctx context.Context) ([]KnowledgeBaseSummary, error)
}

// Cache stores filtered listings for a while. Implemented by store/redisstore.
type Cache interface {
	GetKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error)
	SetKnowledgeBases(ctx context.Context, kbs []KnowledgeBase) error
}

type Service struct {
	origin Lister
	cache  Cache
}

// NewService builds the catalog service. cache may be nil to disable caching.
func NewService(origin Lister, cache Cache) *Service {
	return &Service{origin: origin, cache: cache}
}

// KnowledgeBases returns the publicly visible knowledge bases. Cache problems
// are logged and fall through to the origin.
func (s *Service) KnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	if s.cache != nil {
		if kbs, err := s.cache.GetKnowledgeBases(ctx); err == nil && kbs != nil {
			return kbs, nil
		}
	}

	summaries, err := s.origin.ListKnowledgeBases(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]KnowledgeBase, 0, len(summaries))
	for _, kb := range summaries {
		if kb.Tags[visibilityTagKey] != visibleTagValue {
			continue
		}
		filtered = append(filtered, KnowledgeBase{ID: kb.KnowledgeBaseID, Name: kb.Name})
	}

	if s.cache != nil {
		if err := s.cache.SetKnowledgeBases(ctx, filtered); err != nil {
			log.Printf("catalog: cache set failed: %v", err)
		}
	}
	return filtered, nil
}

// Models returns the fixed model catalog.
func (s *Service) Models() []Model {
	return []Model{
		{
			ModelArn:  "arn:aws:bedrock:us-east-1:509399601784:inference-profile/us.anthropic.claude-3-opus-20240229-v1:0",
			ModelName: "Claude 3 Opus",
		},
		{
			ModelArn:  "arn:aws:bedrock:us-east-1:509399601784:inference-profile/us.anthropic.claude-3-5-haiku-20241022-v1:0",
			ModelName: "Claude 3.5 Haiku",
		},
		{
			ModelArn:  "arn:aws:bedrock:us-east-1:509399601784:inference-profile/us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			ModelName: "Claude 3.5 Sonnet v2",
		},
		{
			ModelArn:  "arn:aws:bedrock:us-east-1:509399601784:inference-profile/us.anthropic.claude-3-7-sonnet-20250219-v1:0",
			ModelName: "Claude 3.7 Sonnet v1",
		},
	}
}
