package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"piratepoker-server/internal/config"
	"sync"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "bid.piratepoker"

// Audience is the intended JWT audience
const Audience = "piratepoker.bid"

// TTL is how long a signed token stays valid
const TTL = time.Hour * 24 * 7

var (
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
	keysMu     sync.RWMutex
)

// LoadKeys will load the public and private keys named in the config
// this method should only be called once.
func LoadKeys() error {
	cfg := config.Instance().JWT
	return LoadKeysFromFiles(cfg.PublicKey, cfg.PrivateKey)
}

// LoadKeysFromFiles loads the keys from PEM files
// privatePath may be empty on servers that only validate tokens
func LoadKeysFromFiles(publicPath, privatePath string) error {
	pub, err := loadPublicKey(publicPath)
	if err != nil {
		return err
	}

	var priv *rsa.PrivateKey
	if privatePath != "" {
		if priv, err = loadPrivateKey(privatePath); err != nil {
			return err
		}
	}

	keysMu.Lock()
	defer keysMu.Unlock()
	publicKey = pub
	privateKey = priv
	return nil
}

// Sign will sign a JWT for the identity
func Sign(identity string) (string, error) {
	keysMu.RLock()
	key := privateKey
	keysMu.RUnlock()

	if key == nil {
		return "", errors.New("private key not loaded")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience:  jwtgo.ClaimStrings{Audience},
		ID:        uuid.New().String(),
		IssuedAt:  jwtgo.NewNumericDate(now),
		ExpiresAt: jwtgo.NewNumericDate(now.Add(TTL)),
		Issuer:    Issuer,
		Subject:   identity,
	})

	return token.SignedString(key)
}

// ValidIdentity will validate a signed JWT and return its subject
func ValidIdentity(signedString string) (string, error) {
	keysMu.RLock()
	key := publicKey
	keysMu.RUnlock()

	if key == nil {
		return "", errors.New("public key not loaded")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &jwtgo.RegisteredClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return key, nil
	})

	if err != nil {
		return "", err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*jwtgo.RegisteredClaims); ok {
			if !containsAudience(claims.Audience, Audience) {
				return "", errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return "", errors.New("invalid issuer")
			}

			if claims.Subject == "" {
				return "", errors.New("missing subject")
			}

			return claims.Subject, nil
		}

		return "", fmt.Errorf("expected jwt.RegisteredClaims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return "", errors.New("claims were not valid")
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read public key: %w", err)
	}

	key, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return key, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read private key: %w", err)
	}

	key, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA private key: %w", err)
	}

	return key, nil
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}

	return false
}
