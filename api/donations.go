package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"alumni/models"
)

type DonationService struct {
	c *Client
}

// CreateOrder opens a payment-provider order for the checkout widget.
func (s *DonationService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	var order models.Order
	if err := s.c.Do(ctx, http.MethodPost, "/donations/create-order", req, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment hands the checkout callback identifiers to the backend.
// A rejected signature, either as a 400 or as success=false, wraps
// ErrPaymentVerification.
func (s *DonationService) VerifyPayment(ctx context.Context, v models.PaymentVerification) (*models.VerificationResult, error) {
	if v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return nil, fmt.Errorf("%w: incomplete payment callback", ErrPaymentVerification)
	}

	var res models.VerificationResult
	if err := s.c.Do(ctx, http.MethodPost, "/donations/verify-payment", v, nil, &res); err != nil {
		if StatusCode(err) == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %w", ErrPaymentVerification, err)
		}
		return nil, err
	}
	if !res.Verified() {
		msg := res.Message
		if msg == "" {
			msg = "signature mismatch"
		}
		return &res, fmt.Errorf("%w: %s", ErrPaymentVerification, msg)
	}
	return &res, nil
}

// MakeDonation records a donation directly, without the checkout flow.
func (s *DonationService) MakeDonation(ctx context.Context, d models.Donation) (*models.Donation, error) {
	var created models.Donation
	if err := s.c.Do(ctx, http.MethodPost, "/donations", d, nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *DonationService) FetchDonationProgress(ctx context.Context) (models.DonationProgress, error) {
	var p models.DonationProgress
	if err := s.c.Do(ctx, http.MethodGet, "/donations/progress", nil, nil, &p); err != nil {
		return models.DonationProgress{}, err
	}
	return p, nil
}

// GetDonationProgress never fails: any error yields {total: 0, goal: 0} so
// a missing endpoint does not break the views that show it.
func (s *DonationService) GetDonationProgress(ctx context.Context) models.DonationProgress {
	p, err := s.FetchDonationProgress(ctx)
	if err != nil {
		s.c.logger.Warn("failed to fetch donation progress", "err", err)
	}
	return ValueOr(p, err, models.DonationProgress{})
}

func (s *DonationService) GetDonationHistory(ctx context.Context) ([]models.Donation, error) {
	var raw json.RawMessage
	if err := s.c.Do(ctx, http.MethodGet, "/donations/history", nil, nil, &raw); err != nil {
		return nil, err
	}
	donations, err := decodeList[models.Donation](raw, "donations")
	if err != nil {
		return nil, fmt.Errorf("decode donation history: %w", err)
	}
	return donations, nil
}
