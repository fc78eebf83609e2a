package settings

import "errors"

var (
	ErrNotFound      = errors.New("user config not found")
	ErrNotConfigured = errors.New("erp account is not linked")
	ErrInvalidInput  = errors.New("invalid input")
	ErrWizardNotDone = errors.New("setup is not complete")
)
