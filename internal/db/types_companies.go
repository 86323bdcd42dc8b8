package db

import (
	"time"

	"github.com/google/uuid"
)

// Company represents an issuing/sponsoring entity. The four asset keys point
// at image objects the renderer stamps into produced documents.
type Company struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	SealKey         string    `json:"seal_key"`
	LogoKey         string    `json:"logo_key"`
	DirectorSignKey string    `json:"director_sign_key"`
	ClientSignKey   string    `json:"client_sign_key"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyCreateInput holds fields for administrative company creation
type CompanyCreateInput struct {
	Name            string
	SealKey         string
	LogoKey         string
	DirectorSignKey string
	ClientSignKey   string
}
