package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

func TestProductSet(t *testing.T) {
	s := NewProductSet(5, 1, 5, 3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int64{1, 3, 5}, s.IDs())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))

	var empty ProductSet
	assert.False(t, empty.Contains(1))
	assert.Empty(t, empty.IDs())
}

func TestIdentity_IsImmutable(t *testing.T) {
	set := NewProductSet(9)
	ident := NewIdentity(2, models.RoleUser, set)

	leaked := ident.Inaccessible()
	delete(leaked, 9)

	assert.False(t, ident.CanAccessProduct(9))
}

func TestIdentity_AdminDropsSet(t *testing.T) {
	ident := NewIdentity(1, models.RoleAdmin, NewProductSet(9))

	assert.True(t, ident.CanAccessProduct(9))
	assert.Nil(t, ident.Inaccessible())
}

func TestPolicyFor(t *testing.T) {
	p, err := policyFor(models.RoleAdmin)
	assert.NoError(t, err)
	assert.IsType(t, adminPolicy{}, p)

	p, err = policyFor(models.RoleUser)
	assert.NoError(t, err)
	assert.IsType(t, userPolicy{}, p)

	_, err = policyFor(models.Role(""))
	assert.ErrorIs(t, err, models.ErrUnknownRole)
}
