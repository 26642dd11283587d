package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/diewo77/workshop-quotes/internal/storage"
	"gorm.io/gorm"
)

// LogoSaveError means the logo reached storage but the settings row was not updated.
type LogoSaveError struct {
	URL string
	Err error
}

func (e *LogoSaveError) Error() string { return "logo uploaded but not saved: " + e.Err.Error() }
func (e *LogoSaveError) Unwrap() error { return e.Err }

// LogoUpload is an uploaded logo file.
type LogoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SettingsService reads and writes the single active company settings row.
type SettingsService struct {
	db       *gorm.DB
	bucket   storage.Bucket
	recordID string
	now      func() time.Time
}

func NewSettingsService(db *gorm.DB, bucket storage.Bucket, recordID string) *SettingsService {
	if bucket == nil {
		bucket = storage.Unconfigured{}
	}
	return &SettingsService{db: db, bucket: bucket, recordID: recordID, now: time.Now}
}

// Current returns the active row, or nil when there is none.
func (s *SettingsService) Current(ctx context.Context) (*models.CompanySettings, error) {
	if s.db == nil {
		return nil, ErrDataStoreNotConfigured
	}
	var row models.CompanySettings
	q := s.db.WithContext(ctx)
	if s.recordID != "" {
		q = q.Where("id = ?", s.recordID)
	} else {
		q = q.Order("created_at DESC")
	}
	err := q.Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load company settings: %w", err)
	}
	return &row, nil
}

// Save writes data to the active row, creating it when none exists.
func (s *SettingsService) Save(ctx context.Context, data models.CompanyData) (*models.CompanySettings, error) {
	row, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.CompanySettings{ID: s.recordID}
		row.Apply(data)
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			return nil, fmt.Errorf("create company settings: %w", err)
		}
		return row, nil
	}
	row.Apply(data)
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("update company settings: %w", err)
	}
	return row, nil
}

// UploadLogo normalizes and stores the file, then points the active row at it.
func (s *SettingsService) UploadLogo(ctx context.Context, up LogoUpload) (string, error) {
	if s.db == nil {
		return "", ErrDataStoreNotConfigured
	}
	data, contentType, err := storage.NormalizeLogo(up.Data, up.ContentType)
	if err != nil {
		return "", err
	}
	filename := up.Filename
	if contentType != up.ContentType {
		filename = strings.TrimSuffix(filename, path.Ext(filename))
	}

	key := storage.LogoKey(s.recordID, filename, contentType, s.now())
	url, err := s.bucket.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", err
	}
	if err := s.setLogoURL(ctx, url); err != nil {
		return url, &LogoSaveError{URL: url, Err: err}
	}
	return url, nil
}

func (s *SettingsService) setLogoURL(ctx context.Context, url string) error {
	row, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if row == nil {
		return s.db.WithContext(ctx).Create(&models.CompanySettings{ID: s.recordID, LogoURL: url}).Error
	}
	return s.db.WithContext(ctx).Model(row).Update("logo_url", url).Error
}
