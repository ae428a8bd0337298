package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-bank-connect/models"
)

const (
	FieldBLZ       = "blz"
	FieldUsername  = "username"
	FieldPIN       = "pin"
	FieldTANMethod = "tan_method"
	FieldAccounts  = "accounts"
	FieldIBAN      = "iban"
	FieldDays      = "days"
	FieldModel     = "model"

	// FieldOptionalBLZ accepts an empty BLZ but still checks a present one.
	FieldOptionalBLZ = "optional_blz"
	// FieldOptionalIBAN accepts an empty IBAN but still checks a present one.
	FieldOptionalIBAN = "optional_iban"
)

const (
	MinSyncDays = 1
	MaxSyncDays = 3650
)

type BankingValidator struct {
}

func NewBankingValidator() Validator {
	return &BankingValidator{}
}

func (v *BankingValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CredentialsRequest:
		return v.validateCredentialsRequest(ctx, value, fields...)
	case *models.CredentialsRequest:
		return v.validateCredentialsRequest(ctx, *value, fields...)

	case models.BankForm:
		return v.validateBankForm(ctx, value, fields...)
	case *models.BankForm:
		return v.validateBankForm(ctx, *value, fields...)

	case models.DiscoverAccountsRequest:
		return v.validateDiscoverRequest(ctx, value, fields...)
	case *models.DiscoverAccountsRequest:
		return v.validateDiscoverRequest(ctx, *value, fields...)

	case models.ImportAccountsRequest:
		return v.validateImportRequest(ctx, value, fields...)
	case *models.ImportAccountsRequest:
		return v.validateImportRequest(ctx, *value, fields...)

	case models.SyncStreamRequest:
		return v.validateSyncRequest(ctx, value, fields...)
	case *models.SyncStreamRequest:
		return v.validateSyncRequest(ctx, *value, fields...)

	case models.ModelPullRequest:
		return v.validateModelPullRequest(ctx, value, fields...)
	case *models.ModelPullRequest:
		return v.validateModelPullRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *BankingValidator) validateCredentialsRequest(ctx context.Context, req models.CredentialsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBLZ, FieldUsername, FieldPIN}
	}

	for _, f := range fields {
		switch f {
		case FieldBLZ:
			if !ValidBLZ(strings.TrimSpace(req.BLZ)) {
				return ErrInvalidBLZ
			}
		case FieldUsername:
			if strings.TrimSpace(req.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPIN:
			if req.PIN == "" {
				return ErrEmptyPIN
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BankingValidator) validateBankForm(ctx context.Context, form models.BankForm, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBLZ, FieldUsername, FieldPIN, FieldTANMethod}
	}

	for _, f := range fields {
		switch f {
		case FieldBLZ, FieldUsername, FieldPIN:
			if err := v.validateCredentialsRequest(ctx, form.Credentials(), f); err != nil {
				return err
			}
		case FieldTANMethod:
			if strings.TrimSpace(form.TANMethod) == "" {
				return ErrEmptyTANMethod
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BankingValidator) validateDiscoverRequest(ctx context.Context, req models.DiscoverAccountsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBLZ}
	}

	for _, f := range fields {
		switch f {
		case FieldBLZ:
			if !ValidBLZ(strings.TrimSpace(req.BLZ)) {
				return ErrInvalidBLZ
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BankingValidator) validateImportRequest(ctx context.Context, req models.ImportAccountsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBLZ, FieldAccounts}
	}

	for _, f := range fields {
		switch f {
		case FieldBLZ:
			if !ValidBLZ(strings.TrimSpace(req.BLZ)) {
				return ErrInvalidBLZ
			}
		case FieldAccounts:
			if len(req.Accounts) == 0 {
				return ErrEmptyAccounts
			}
			seen := make(map[string]struct{}, len(req.Accounts))
			for i, acc := range req.Accounts {
				if err := v.validateAccountImport(acc); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				iban := NormalizeIBAN(acc.IBAN)
				if _, dup := seen[iban]; dup {
					return fmt.Errorf("validation error at index %d: %w", i, ErrDuplicateIBAN)
				}
				seen[iban] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BankingValidator) validateAccountImport(acc models.AccountImport) error {
	if !ValidIBAN(acc.IBAN) {
		return ErrInvalidIBAN
	}
	if strings.TrimSpace(acc.Name) == "" {
		return ErrEmptyAccountName
	}
	return nil
}

func (v *BankingValidator) validateSyncRequest(ctx context.Context, req models.SyncStreamRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOptionalBLZ, FieldOptionalIBAN, FieldDays}
	}

	for _, f := range fields {
		switch f {
		case FieldBLZ:
			if !ValidBLZ(strings.TrimSpace(req.BLZ)) {
				return ErrInvalidBLZ
			}
		case FieldOptionalBLZ:
			if req.BLZ != "" && !ValidBLZ(strings.TrimSpace(req.BLZ)) {
				return ErrInvalidBLZ
			}
		case FieldIBAN:
			if !ValidIBAN(req.IBAN) {
				return ErrInvalidIBAN
			}
		case FieldOptionalIBAN:
			if req.IBAN != "" && !ValidIBAN(req.IBAN) {
				return ErrInvalidIBAN
			}
		case FieldDays:
			// nil means adaptive
			if req.Days != nil && (*req.Days < MinSyncDays || *req.Days > MaxSyncDays) {
				return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDays, *req.Days, MinSyncDays, MaxSyncDays)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BankingValidator) validateModelPullRequest(ctx context.Context, req models.ModelPullRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldModel}
	}

	for _, f := range fields {
		switch f {
		case FieldModel:
			if strings.TrimSpace(req.Model) == "" {
				return ErrEmptyModelName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
