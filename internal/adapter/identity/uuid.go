package identity

import (
	"github.com/google/uuid"

	"github.com/carboniq/server/internal/ports"
)

// UUIDProvider issues random v4 identifiers for new records.
type UUIDProvider struct{}

func NewUUIDProvider() ports.IdentityProvider {
	return &UUIDProvider{}
}

func (p *UUIDProvider) NewID() string {
	return uuid.New().String()
}
