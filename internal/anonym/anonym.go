// Package anonym derives the stable pseudonym shown to the receiver of an
// anonymous note.
package anonym

import (
	"fmt"
	"hash/fnv"
)

// Version identifies the derivation scheme. Bump it if the hash changes,
// since stored pseudonyms would stop matching newly derived ones.
const Version = 1

const modulus = 1_000_000

// Derive maps an ordered (sender, receiver) pair to "anonym_<6 digits>".
// The number is FNV-1a-32(sender + "_" + receiver) mod 1,000,000.
func Derive(senderID, receiverID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(senderID + "_" + receiverID))
	return fmt.Sprintf("anonym_%06d", h.Sum32()%modulus)
}
