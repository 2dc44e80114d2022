package domain

import "errors"

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrCertificateNotPending  = errors.New("certificate is not pending")
	ErrCertificateNotVerified = errors.New("certificate is not verified")
	ErrCertificateNotTerminal = errors.New("certificate is not in a terminal state")
	ErrMissingSubject         = errors.New("certificate has no owning student")
	ErrAlreadyIssued          = errors.New("credential already issued for certificate")
	ErrIssuanceDenied         = errors.New("issuance denied by policy")
	ErrUnknownJobType         = errors.New("unknown job type")
	ErrJobNotFailed           = errors.New("job is not failed")
)
