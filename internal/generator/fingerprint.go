package generator

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// Fingerprint hashes the public part of a batch (index, path, address) with
// BLAKE3. Two exports of the same batch share a fingerprint; secrets do not
// contribute to it.
func Fingerprint(records []wallet.Record) string {
	h := blake3.New()
	var line []byte
	for _, r := range records {
		line = line[:0]
		line = strconv.AppendInt(line, int64(r.Index), 10)
		line = append(line, '|')
		line = append(line, r.DerivationPath...)
		line = append(line, '|')
		line = append(line, r.Address...)
		line = append(line, '\n')
		h.Write(line)
	}
	return hex.EncodeToString(h.Sum(nil))
}
