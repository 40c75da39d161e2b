package jwt

import (
	"path/filepath"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func loadTestKeys(t *testing.T) {
	t.Helper()

	err := LoadKeysFromFiles(filepath.Join("testdata", "public.pem"), filepath.Join("testdata", "private.key"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
}

func signClaims(t *testing.T, keyFile string, claims jwtgo.RegisteredClaims) string {
	t.Helper()

	key, err := loadPrivateKey(filepath.Join("testdata", keyFile))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	signed, err := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(key)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return signed
}

func validClaims() jwtgo.RegisteredClaims {
	return jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   Issuer,
		Subject:  "blackbeard",
	}
}

func TestSignAndValidIdentity(t *testing.T) {
	loadTestKeys(t)

	sign, err := Sign("user-18")
	assert.NoError(t, err)

	identity, err := ValidIdentity(sign)
	assert.NoError(t, err)
	assert.Equal(t, "user-18", identity)
}

func TestValidIdentity_InvalidAudience(t *testing.T) {
	loadTestKeys(t)

	claims := validClaims()
	claims.Audience = jwtgo.ClaimStrings{"different-audience"}

	identity, err := ValidIdentity(signClaims(t, "private.key", claims))
	assert.EqualError(t, err, "invalid audience")
	assert.Equal(t, "", identity)
}

func TestValidIdentity_InvalidIssuer(t *testing.T) {
	loadTestKeys(t)

	claims := validClaims()
	claims.Issuer = "invalid-issuer"

	identity, err := ValidIdentity(signClaims(t, "private.key", claims))
	assert.EqualError(t, err, "invalid issuer")
	assert.Equal(t, "", identity)
}

func TestValidIdentity_MissingSubject(t *testing.T) {
	loadTestKeys(t)

	claims := validClaims()
	claims.Subject = ""

	_, err := ValidIdentity(signClaims(t, "private.key", claims))
	assert.EqualError(t, err, "missing subject")
}

func TestValidIdentity_Expired(t *testing.T) {
	loadTestKeys(t)

	claims := validClaims()
	claims.ExpiresAt = jwtgo.NewNumericDate(time.Now().Add(time.Hour * -1))

	_, err := ValidIdentity(signClaims(t, "private.key", claims))
	assert.ErrorIs(t, err, jwtgo.ErrTokenExpired)
}

func TestValidIdentity_WrongKey(t *testing.T) {
	loadTestKeys(t)

	_, err := ValidIdentity(signClaims(t, "other.key", validClaims()))
	assert.ErrorIs(t, err, jwtgo.ErrTokenSignatureInvalid)
}

func TestLoadKeysFromFiles_errors(t *testing.T) {
	assert.Error(t, LoadKeysFromFiles("testdata/missing.pem", ""))
	assert.Error(t, LoadKeysFromFiles("testdata/private.key", ""))
	assert.Error(t, LoadKeysFromFiles("testdata/public.pem", "testdata/public.pem"))
}
