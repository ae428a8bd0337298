package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidBLZ       = errors.New("BLZ must consist of 8 digits")
	ErrEmptyUsername    = errors.New("username is required")
	ErrEmptyPIN         = errors.New("PIN is required")
	ErrEmptyTANMethod   = errors.New("TAN method is required")
	ErrEmptyAccounts    = errors.New("accounts list cannot be empty")
	ErrEmptyAccountName = errors.New("account name is required")
	ErrInvalidIBAN      = errors.New("invalid IBAN")
	ErrDuplicateIBAN    = errors.New("duplicate IBAN")
	ErrInvalidDays      = errors.New("days out of range")
	ErrEmptyModelName   = errors.New("model name is required")
)
