package chatbot

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateRecord(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repo) GetRecord(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := r.db.WithContext(ctx).First(&rec, "chatbot_request_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkSuccess sets the terminal status and the result in one update.
func (r *Repo) MarkSuccess(ctx context.Context, id string, result string) error {
	return r.setOutcome(ctx, id, StatusSuccess, result)
}

// MarkError records a permanent generation failure.
func (r *Repo) MarkError(ctx context.Context, id string, errMsg string) error {
	return r.setOutcome(ctx, id, StatusError, errMsg)
}

func (r *Repo) setOutcome(ctx context.Context, id string, status Status, result string) error {
	return r.db.WithContext(ctx).Model(&Record{}).
		Where("chatbot_request_id = ?", id).
		Updates(map[string]any{
			"status": status,
			"result": result,
		}).Error
}

func (r *Repo) DeleteRecord(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&Record{}, "chatbot_request_id = ?", id).Error
}

// DeleteExpired removes records that have not been touched since cutoff.
// Covers terminal records nobody ever polled and processing records whose
// dispatch message was lost.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&Record{})
	return res.RowsAffected, res.Error
}
