package chatbot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) PublishRequest(ctx context.Context, requestID string) error {
	_ = ctx
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, requestID)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&Record{}).Count(&n).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	return n
}

func TestSubmit_CreatesRecordAndPublishes(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	pub := &fakePublisher{}
	svc := NewService(repo, pub)

	id, err := svc.Submit(context.Background(), RequestPayload{
		Message:         "hi",
		KnowledgeBaseID: "kb-1",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty request id")
	}

	rec, err := repo.GetRecord(context.Background(), id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.Status != StatusProcessing {
		t.Fatalf("expected status processing, got %q", rec.Status)
	}
	if rec.Result != "" {
		t.Fatalf("expected empty result, got %q", rec.Result)
	}
	if rec.Payload.Message != "hi" || rec.Payload.KnowledgeBaseID != "kb-1" {
		t.Fatalf("payload not persisted: %+v", rec.Payload)
	}

	if len(pub.published) != 1 || pub.published[0] != id {
		t.Fatalf("expected one dispatch for %s, got %v", id, pub.published)
	}
}

func TestSubmit_IDsAreUnique(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), &fakePublisher{})

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := svc.Submit(context.Background(), RequestPayload{
			Message:         "hi",
			KnowledgeBaseID: "kb-1",
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate request id %s", id)
		}
		seen[id] = true
	}
}

func TestSubmit_MissingKnowledgeBase(t *testing.T) {
	db := openTestDB(t)
	pub := &fakePublisher{}
	svc := NewService(NewRepo(db), pub)

	_, err := svc.Submit(context.Background(), RequestPayload{Message: "hi"})
	if !errors.Is(err, ErrMissingKnowledgeBase) {
		t.Fatalf("expected ErrMissingKnowledgeBase, got %v", err)
	}

	if n := countRecords(t, db); n != 0 {
		t.Fatalf("expected no records, found %d", n)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no dispatch messages, got %v", pub.published)
	}
}

func TestSubmit_PublishFailureSurfaces(t *testing.T) {
	db := openTestDB(t)
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(NewRepo(db), pub)

	_, err := svc.Submit(context.Background(), RequestPayload{
		Message:         "hi",
		KnowledgeBaseID: "kb-1",
	})
	if err == nil {
		t.Fatalf("expected publish error")
	}
	// the record stays behind; the expiry sweeper removes it eventually
	if n := countRecords(t, db); n != 1 {
		t.Fatalf("expected the orphaned record to remain, found %d", n)
	}
}

func TestPoll_ProcessingLeavesRecord(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	svc := NewService(repo, &fakePublisher{})

	id, err := svc.Submit(context.Background(), RequestPayload{
		Message:         "hi",
		KnowledgeBaseID: "kb-1",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec, err := svc.Poll(context.Background(), id)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if rec == nil || rec.Status != StatusProcessing {
		t.Fatalf("expected processing record, got %+v", rec)
	}

	// record must still be there
	if _, err := repo.GetRecord(context.Background(), id); err != nil {
		t.Fatalf("record should survive a processing poll: %v", err)
	}
}

func TestPoll_TerminalRecordRetrievedOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	svc := NewService(repo, &fakePublisher{})

	id, err := svc.Submit(context.Background(), RequestPayload{
		Message:         "hi",
		KnowledgeBaseID: "kb-1",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := repo.MarkSuccess(context.Background(), id, "the answer"); err != nil {
		t.Fatalf("mark success: %v", err)
	}

	first, err := svc.Poll(context.Background(), id)
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if first == nil || first.Status != StatusSuccess || first.Result != "the answer" {
		t.Fatalf("unexpected first poll: %+v", first)
	}

	second, err := svc.Poll(context.Background(), id)
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if second != nil {
		t.Fatalf("expected not-found on second poll, got %+v", second)
	}
}

func TestPoll_UnknownID(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db), &fakePublisher{})

	rec, err := svc.Poll(context.Background(), "01UNKNOWN0000000000000000X")
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}
