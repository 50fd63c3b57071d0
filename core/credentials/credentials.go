/*Package credentials hashes and verifies user passwords with bcrypt.
*/
package credentials

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords. The zero value uses the bcrypt
// default work factor.
type Hasher struct {
	// Cost is the bcrypt work factor. Zero selects bcrypt.DefaultCost.
	Cost int
}

// Hash produces a salted digest of the plaintext. Every call generates
// a fresh random salt, so the same plaintext never hashes twice to the
// same digest.
func (h Hasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest. The
// comparison runs in constant time; a mismatch is a plain false,
// not an error.
func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
