package payment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchline/internal/payment"
)

func TestMockProviderRoundTrip(t *testing.T) {
	p := payment.NewMockProvider()

	in, err := p.CreateIntent(5998, map[string]string{"coupon_code": "SAVE10"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(in.ID, payment.MockPrefix))
	assert.True(t, in.TestMode)
	assert.Equal(t, int64(5998), in.Amount)

	got, err := p.GetIntent(in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, "SAVE10", got.Metadata["coupon_code"])
}

func TestMockProviderUnknownIntent(t *testing.T) {
	p := payment.NewMockProvider()
	_, err := p.GetIntent("pi_does_not_exist")
	assert.ErrorIs(t, err, payment.ErrIntentNotFound)
}
