package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

func userWithCode(code string, expires time.Time) *entity.User {
	return &entity.User{ResetCode: code, ResetCodeExpires: &expires}
}

func TestHasValidResetCode_LimiteExclusivo(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, userWithCode("123456", now.Add(time.Second)).HasValidResetCode("123456", now))
	assert.False(t, userWithCode("123456", now).HasValidResetCode("123456", now),
		"expira exactamente ahora: debe considerarse vencido")
	assert.False(t, userWithCode("123456", now.Add(-time.Second)).HasValidResetCode("123456", now))
}

func TestHasValidResetCode_IgualdadExacta(t *testing.T) {
	now := time.Now()
	u := userWithCode("012345", now.Add(time.Minute))

	assert.True(t, u.HasValidResetCode("012345", now))
	assert.False(t, u.HasValidResetCode("12345", now))
	assert.False(t, u.HasValidResetCode("", now))
}

func TestHasValidResetCode_SinCodigo(t *testing.T) {
	u := &entity.User{}
	assert.False(t, u.HasValidResetCode("", time.Now()))
}

func TestHasValidResetToken_Limite(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	exp := now
	u := &entity.User{ResetToken: "digest", ResetTokenExpires: &exp}

	assert.False(t, u.HasValidResetToken("digest", now))
	assert.True(t, u.HasValidResetToken("digest", now.Add(-time.Nanosecond)))
	assert.False(t, u.HasValidResetToken("otro", now.Add(-time.Minute)))
}

func TestClearReset(t *testing.T) {
	exp := time.Now().Add(time.Minute)
	u := &entity.User{ResetCode: "123456", ResetCodeExpires: &exp, ResetToken: "d", ResetTokenExpires: &exp}

	u.ClearResetCode()
	assert.Empty(t, u.ResetCode)
	assert.Nil(t, u.ResetCodeExpires)
	assert.Equal(t, "d", u.ResetToken)

	u.ClearResetToken()
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpires)
}

func TestValidRole(t *testing.T) {
	assert.True(t, entity.ValidRole(entity.RoleAdmin))
	assert.True(t, entity.ValidRole(entity.RoleOperator))
	assert.False(t, entity.ValidRole("admin"))
	assert.False(t, entity.ValidRole(""))
}

func TestValidMovementType(t *testing.T) {
	assert.True(t, entity.ValidMovementType(entity.MovementTypeEntry))
	assert.True(t, entity.ValidMovementType(entity.MovementTypeAdjustment))
	assert.False(t, entity.ValidMovementType("entrada"))
}
