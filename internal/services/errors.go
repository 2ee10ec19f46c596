package services

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrAffiliateNotFound    = errors.New("affiliate not found")
	ErrAffiliateNotApproved = errors.New("affiliate not approved")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrReasonRequired       = errors.New("reason is required")
)
