package wallet

// KeyMaterial is an intermediate extended key: a 32-byte key and its chain
// code. It lives only inside a derivation call and must be zeroed after use.
type KeyMaterial struct {
	Key       [32]byte
	ChainCode [32]byte
}

// Zero overwrites the key and chain code.
func (km *KeyMaterial) Zero() {
	clear(km.Key[:])
	clear(km.ChainCode[:])
}

// split loads a 64-byte HMAC output into key and chain code.
func (km *KeyMaterial) split(i []byte) {
	copy(km.Key[:], i[:32])
	copy(km.ChainCode[:], i[32:])
}
