package ceremony

import (
	"crypto/sha256"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

// BackupCiphertext is a hashed-ElGamal (DHIES style) sealing of a single
// Z_q backup value: pad = G^r carries the nonce, and data is the value's
// fixed-width big-endian bytes masked with a key derived from the shared
// secret recipientPublicKey^r. Exponential ElGamal cannot carry this
// payload directly, since its decryption relies on recovering a small
// bounded message via discrete log, not a full field element.
type BackupCiphertext struct {
	Pad  group.ElementModP
	Data []byte
}

// sealBackup encrypts value to recipientPublicKey.
func sealBackup(value group.ElementModQ, recipientPublicKey group.ElementModP) (BackupCiphertext, error) {
	r, err := group.RandModQ()
	if err != nil {
		return BackupCiphertext{}, err
	}
	for r.IsZero() {
		if r, err = group.RandModQ(); err != nil {
			return BackupCiphertext{}, err
		}
	}
	shared := group.PowP(recipientPublicKey, r, true)
	return BackupCiphertext{
		Pad:  group.GPowP(r),
		Data: xorBytes(value.Bytes(), backupMaskKey(shared)),
	}, nil
}

// openBackup recovers the backup value sealed under recipientSecretKey's
// matching public key.
func openBackup(ct BackupCiphertext, recipientSecretKey group.ElementModQ) (group.ElementModQ, error) {
	shared := group.PowP(ct.Pad, recipientSecretKey, true)
	plain := xorBytes(ct.Data, backupMaskKey(shared))
	v, err := group.ElementModQFromBytes(plain)
	if err != nil {
		return group.ElementModQ{}, egerrors.New(egerrors.InvalidElement, "ceremony.openBackup", err)
	}
	return v, nil
}

// backupMaskKey derives a one-time pad from a DH shared secret. SHA-256's
// 32-byte digest matches ByteLenQ exactly, so the mask covers a backup
// value's full width with no repetition.
func backupMaskKey(shared group.ElementModP) []byte {
	sum := sha256.Sum256(shared.Bytes())
	return sum[:]
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i%len(b)]
	}
	return out
}
