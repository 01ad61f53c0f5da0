package recovery

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
)

func TestGenerateCode_SeisDigitos(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.True(t, IsValidCode(code), "código %q debe tener 6 dígitos", code)
	}
}

func TestGenerateCode_ConservaCerosIniciales(t *testing.T) {
	// Un lector de ceros produce el menor valor posible.
	code, err := generateCode(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestGenerateCode_ErrorDeEntropia(t *testing.T) {
	_, err := generateCode(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestGenerateToken_LongitudYUnicidad(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, TokenBytes*2)
	assert.NotEqual(t, a, b)
}

func TestGenerateToken_LecturaCorta(t *testing.T) {
	_, err := generateToken(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestHashToken_DeterministaYDistintoDelToken(t *testing.T) {
	d1 := HashToken("abc")
	d2 := HashToken("abc")
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, "abc", d1)
	assert.Len(t, d1, 64)
	assert.NotEqual(t, d1, HashToken("abd"))
}

func TestIsValidCode(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"000000":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"":        false,
		" 12345":  false,
		"１２３４５６": false,
	}
	for code, want := range cases {
		assert.Equal(t, want, IsValidCode(code), "código %q", code)
	}
}

func TestValidatePassword(t *testing.T) {
	ok := []string{"NewPass1!", "Abcdef1#", "Contraseña9$"}
	for _, p := range ok {
		assert.NoError(t, ValidatePassword(p), "contraseña %q", p)
	}

	bad := map[string]string{
		"Ab1!":      "8 caracteres",
		"newpass1!": "mayúscula",
		"NEWPASS1!": "minúscula",
		"NewPass!!": "número",
		"NewPass12": "especial",
	}
	for p, fragment := range bad {
		err := ValidatePassword(p)
		require.Error(t, err, "contraseña %q", p)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		assert.Contains(t, err.Error(), fragment)
	}
}
