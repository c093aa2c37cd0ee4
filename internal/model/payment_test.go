package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentCanProcess(t *testing.T) {
	p := &Payment{Status: PaymentInitiated}
	assert.True(t, p.CanProcess())

	for _, status := range []string{
		PaymentProcessing, PaymentCompleted, PaymentFailed,
		PaymentCancelled, PaymentRefunded,
	} {
		p.Status = status
		assert.False(t, p.CanProcess(), "status %s must not be processable", status)
	}
}

func TestValidMethod(t *testing.T) {
	for _, m := range []string{MethodCreditCard, MethodDebitCard, MethodUPI, MethodNetBanking, MethodWallet} {
		assert.True(t, ValidMethod(m), m)
	}
	assert.False(t, ValidMethod("BITCOIN"))
	assert.False(t, ValidMethod(""))
	assert.False(t, ValidMethod("upi")) // methods are case sensitive
}
