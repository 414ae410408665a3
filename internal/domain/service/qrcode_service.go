package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for listing share codes
type QRCodeService interface {
	// GenerateListingQR generates a PNG QR code pointing at the public listing page
	GenerateListingQR(listingID uuid.UUID) ([]byte, error)

	// ParseListingQR extracts the listing ID from a scanned listing URL
	ParseListingQR(qrData string) (uuid.UUID, error)
}
