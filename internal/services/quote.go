package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/diewo77/workshop-quotes/internal/money"
	"github.com/diewo77/workshop-quotes/internal/search"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns overwritten when a quote number is saved again. Resend counters are not among them.
var upsertColumns = []string{"date", "company", "client", "items", "total", "updated_at"}

type QuoteService struct {
	db           *gorm.DB
	strictTotals bool
	log          logrus.FieldLogger
}

// NewQuoteService builds the service. A nil db yields ErrDataStoreNotConfigured from every call.
func NewQuoteService(db *gorm.DB, strictTotals bool, log logrus.FieldLogger) *QuoteService {
	return &QuoteService{db: db, strictTotals: strictTotals, log: log}
}

// CheckTotal compares the declared total with the items to the cent.
// Outside strict mode a mismatch is only logged.
func (s *QuoteService) CheckTotal(q *models.Quote) error {
	if q.TotalConsistent() {
		return nil
	}
	mismatch := &TotalMismatchError{Declared: money.FromFloat(q.Total), Computed: q.ComputedTotal()}
	if s.strictTotals {
		return mismatch
	}
	s.log.WithFields(logrus.Fields{"number": q.Number, "declared": mismatch.Declared.String(), "computed": mismatch.Computed.String()}).
		Warn("quote total does not match items")
	return nil
}

// Save inserts the quote or overwrites the one with the same number.
func (s *QuoteService) Save(ctx context.Context, q *models.Quote) error {
	if s.db == nil {
		return ErrDataStoreNotConfigured
	}
	if err := s.CheckTotal(q); err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(q).Error
}

// List returns every quote, newest date first, keeping those that match query.
func (s *QuoteService) List(ctx context.Context, query string) ([]models.Quote, error) {
	if s.db == nil {
		return nil, ErrDataStoreNotConfigured
	}
	var quotes []models.Quote
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return search.Filter(quotes, query), nil
}

// Get loads one quote by number.
func (s *QuoteService) Get(ctx context.Context, number string) (*models.Quote, error) {
	if s.db == nil {
		return nil, ErrDataStoreNotConfigured
	}
	var q models.Quote
	err := s.db.WithContext(ctx).Where("number = ?", number).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// MarkResent bumps the resend counter and stamps the time, then returns the updated quote.
func (s *QuoteService) MarkResent(ctx context.Context, number string, at time.Time) (*models.Quote, error) {
	if s.db == nil {
		return nil, ErrDataStoreNotConfigured
	}
	res := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("number = ?", number).
		Updates(map[string]interface{}{
			"resend_count":   gorm.Expr("resend_count + 1"),
			"last_resent_at": at.UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuoteNotFound
	}
	return s.Get(ctx, number)
}
