package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	base := context.Background()

	assert.False(t, HasRole(base, "manager"), "no user on context")

	cashier := WithUser(base, &UserContext{UserID: "u1", Role: "cashier"})
	assert.True(t, HasRole(cashier, "cashier"))
	assert.False(t, HasRole(cashier, "manager"))

	owner := WithUser(base, &UserContext{UserID: "u2", Role: "owner", IsOwner: true})
	assert.True(t, HasRole(owner, "manager"), "owners pass every role check")
}
