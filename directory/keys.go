package directory

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const keyBits = 2048

// KeyPair holds PEM encoded signing keys.
type KeyPair struct {
	PublicPEM  string
	PrivatePEM string
}

// KeyGenerator mints a fresh keypair for a new actor.
type KeyGenerator func() (KeyPair, error)

// GenerateRSAKeyPair returns a 2048-bit RSA keypair for RSASSA-PKCS1-v1_5
// with SHA-256, the scheme ActivityPub servers expect for HTTP signatures.
func GenerateRSAKeyPair() (KeyPair, error) {
	privKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}

	pubPEM, err := encodePublicKey(&privKey.PublicKey)
	if err != nil {
		return KeyPair{}, err
	}
	privPEM, err := encodePrivateKey(privKey)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicPEM: pubPEM, PrivatePEM: privPEM}, nil
}

func encodePrivateKey(privKey *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(privKey)
	if err != nil {
		return "", fmt.Errorf("marshal private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// Remote servers parse publicKeyPem as SubjectPublicKeyInfo, so PKIX is used
// rather than PKCS#1.
func encodePublicKey(pubKey *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pubKey)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
