package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySettings is the shop profile row. Only one row is active: the one
// named by SETTINGS_RECORD_ID, or else the most recently created.
type CompanySettings struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;default:''" json:"name"`
	CNPJ      string    `gorm:"column:cnpj;not null;default:''" json:"cnpj"`
	Phone     string    `gorm:"not null;default:''" json:"phone"`
	WhatsApp  string    `gorm:"column:whatsapp;not null;default:''" json:"whatsapp"`
	Email     string    `gorm:"not null;default:''" json:"email"`
	Address   string    `gorm:"not null;default:''" json:"address"`
	Pix       string    `gorm:"not null;default:''" json:"pix"`
	LogoURL   string    `gorm:"column:logo_url;not null;default:''" json:"logo_url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not pick one.
func (c *CompanySettings) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CompanyData is the profile as the quote form sees it.
type CompanyData struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Logo    string `json:"logo"`
}

// Data maps the row to the form shape. WhatsApp wins over the landline.
func (c *CompanySettings) Data() CompanyData {
	phone := c.WhatsApp
	if phone == "" {
		phone = c.Phone
	}
	return CompanyData{
		Name:    c.Name,
		CNPJ:    c.CNPJ,
		Phone:   phone,
		Email:   c.Email,
		Address: c.Address,
		Logo:    c.LogoURL,
	}
}

// Apply copies form data onto the row. The phone goes to WhatsApp.
func (c *CompanySettings) Apply(d CompanyData) {
	c.Name = d.Name
	c.CNPJ = d.CNPJ
	c.Email = d.Email
	c.Address = d.Address
	c.LogoURL = d.Logo
	c.WhatsApp = d.Phone
}

// Snapshot freezes the profile for embedding in a quote.
func (d CompanyData) Snapshot() CompanySnapshot {
	return CompanySnapshot(d)
}
