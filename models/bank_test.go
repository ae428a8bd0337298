package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankFormPatch_Apply(t *testing.T) {
	form := BankForm{BLZ: "12030000", Username: "alice", PIN: "1234"}
	pin := "9999"
	method := "910"

	got := BankFormPatch{PIN: &pin, TANMethod: &method}.Apply(form)

	assert.Equal(t, BankForm{BLZ: "12030000", Username: "alice", PIN: "9999", TANMethod: "910"}, got)
	assert.Equal(t, "1234", form.PIN, "original form must not change")
}

func TestBankFormPatch_EmptyPatchIsIdentity(t *testing.T) {
	form := BankForm{BLZ: "1", TANMedium: "phone"}
	assert.Equal(t, form, BankFormPatch{}.Apply(form))
}

func TestBankForm_Credentials(t *testing.T) {
	form := BankForm{BLZ: "1", Username: "u", PIN: "p", TANMethod: "910"}
	assert.Equal(t, CredentialsRequest{BLZ: "1", Username: "u", PIN: "p"}, form.Credentials())
}

func TestBuildInfo(t *testing.T) {
	info := NewBuildInfo("v1.2.0", "", "abc123")
	assert.Equal(t, "N/A", info.Date)
	assert.Equal(t, "v1.2.0 (commit abc123, built N/A)", info.String())
}
