package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/domain/authz"
)

func TestDefaultPolicy(t *testing.T) {
	policy := authz.DefaultPolicy()

	for _, p := range []authz.Permission{authz.ProductsWrite, authz.OrdersReadAll, authz.OrdersUpdateStatus, authz.UsersManage} {
		assert.True(t, policy.Can("admin", p), "admin debe tener %s", p)
		assert.False(t, policy.Can("user", p), "user no debe tener %s", p)
		assert.False(t, policy.Can("", p), "rol vacío no debe tener %s", p)
	}
}
