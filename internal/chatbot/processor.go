package chatbot

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/avachat/chatbot-service/internal/generation"
)

// MaxTokensCap bounds the generation output regardless of what the caller
// asked for.
const MaxTokensCap = 4096

const (
	defaultTemperature = 0.0
	defaultTopP        = 1.0
)

// Processor executes one dispatch message end to end: load record, call the
// generation backend, write the outcome back.
type Processor struct {
	repo            *Repo
	gen             generation.Generator
	defaultTemplate string
	defaultModelArn string
}

func NewProcessor(repo *Repo, gen generation.Generator, defaultTemplate, defaultModelArn string) *Processor {
	return &Processor{
		repo:            repo,
		gen:             gen,
		defaultTemplate: defaultTemplate,
		defaultModelArn: defaultModelArn,
	}
}

// Process handles one dispatch message. A nil return means the message must
// be acked: the record reached a terminal state, or no record exists for the
// id (the submission's store write failed, so the message is a no-op).
// A non-nil return means the record store failed and the message must be
// redelivered.
//
// Generation failures are terminal: they are recorded on the record and the
// message is still acked, so a broken request never loops through the queue.
func (p *Processor) Process(ctx context.Context, msg DispatchMessage) error {
	rec, err := p.repo.GetRecord(ctx, msg.ChatbotRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("process: no record for id=%s, skipping", msg.ChatbotRequestID)
			return nil
		}
		return err
	}

	req := p.buildRequest(rec.Payload)

	output, genErr := p.gen.RetrieveAndGenerate(ctx, req)
	if genErr != nil {
		log.Printf("process: generation failed id=%s err=%v", rec.ChatbotRequestID, genErr)
		return p.repo.MarkError(ctx, rec.ChatbotRequestID, genErr.Error())
	}

	return p.repo.MarkSuccess(ctx, rec.ChatbotRequestID, output)
}

func (p *Processor) buildRequest(payload RequestPayload) generation.Request {
	template := payload.TextPromptTemplate
	if template == "" {
		template = p.defaultTemplate
	}

	modelArn := payload.ModelArn
	if modelArn == "" {
		modelArn = p.defaultModelArn
	}

	req := generation.Request{
		Input:              payload.Message,
		KnowledgeBaseID:    payload.KnowledgeBaseID,
		ModelArn:           modelArn,
		TextPromptTemplate: template,
		MaxTokens:          MaxTokensCap,
		Temperature:        defaultTemperature,
		TopP:               defaultTopP,
	}
	if cfg := payload.TextInferenceConfig; cfg != nil {
		req.Temperature = cfg.Temperature
		req.TopP = cfg.TopP
		req.StopSequences = cfg.StopSequences
	}
	return req
}
