package qrcode

import (
	"net/url"
	"strings"

	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const listingsPathSegment = "listings"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// ListingURL returns the public page URL a listing QR code points at.
func (s *qrcodeService) ListingURL(listingID uuid.UUID) string {
	return s.baseURL + "/" + listingsPathSegment + "/" + listingID.String()
}

// GenerateListingQR generates a QR code for the public listing page
func (s *qrcodeService) GenerateListingQR(listingID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.ListingURL(listingID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseListingQR parses scanned QR content and returns the listing ID
func (s *qrcodeService) ParseListingQR(qrData string) (uuid.UUID, error) {
	u, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse QR code URL")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] != listingsPathSegment {
		return uuid.Nil, errors.Errorf("not a listing URL: %s", qrData)
	}

	listingID, err := uuid.Parse(segments[len(segments)-1])
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse listing ID")
	}

	return listingID, nil
}
