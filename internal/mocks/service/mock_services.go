// Package service holds testify mocks of the domain services.
package service

import (
	"context"

	"estate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockTokenVerifier is a mock of service.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

// NewMockTokenVerifier creates a mock that asserts its expectations on cleanup.
func NewMockTokenVerifier(t testingT) *MockTokenVerifier {
	m := &MockTokenVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenVerifier) VerifyAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

// MockCurrencyConverter is a mock of service.CurrencyConverter.
type MockCurrencyConverter struct {
	mock.Mock
}

// NewMockCurrencyConverter creates a mock that asserts its expectations on cleanup.
func NewMockCurrencyConverter(t testingT) *MockCurrencyConverter {
	m := &MockCurrencyConverter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCurrencyConverter) Convert(ctx context.Context, req *service.ConversionRequest) (*service.ConversionResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.ConversionResult)

	return result, args.Error(1)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock that asserts its expectations on cleanup.
func NewMockEventPublisher(t testingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishListingEvent(ctx context.Context, event *service.ListingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock that asserts its expectations on cleanup.
func NewMockQRCodeService(t testingT) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GenerateListingQR(listingID uuid.UUID) ([]byte, error) {
	args := m.Called(listingID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *MockQRCodeService) ParseListingQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockDownloader is a mock of service.Downloader.
type MockDownloader struct {
	mock.Mock
}

// NewMockDownloader creates a mock that asserts its expectations on cleanup.
func NewMockDownloader(t testingT) *MockDownloader {
	m := &MockDownloader{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDownloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	args := m.Called(ctx, url)
	data, _ := args.Get(0).([]byte)

	return data, args.String(1), args.Error(2)
}
