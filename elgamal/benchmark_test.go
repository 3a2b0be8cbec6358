package elgamal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkElGamal(b *testing.B) {

	params, err := NewParametersFromLiteral(TESTMSG28)
	require.NoError(b, err)

	tc, err := genTestContext(params)
	require.NoError(b, err)

	pt, err := tc.ecd.EncodeNew(555555)
	require.NoError(b, err)

	ct, err := tc.encryptor.EncryptNew(pt)
	require.NoError(b, err)

	b.Run(testString("Encrypt", params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if err := tc.encryptor.Encrypt(pt, ct); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(testString("Decrypt", params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := tc.decryptor.Decrypt(ct); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(testString("Evaluator/Add", params), func(b *testing.B) {
		ctOut := NewCiphertext()
		for i := 0; i < b.N; i++ {
			tc.evaluator.Add(ct, ct, ctOut)
		}
	})

	b.Run(testString("Evaluator/MulPlain", params), func(b *testing.B) {
		ctOut := NewCiphertext()
		for i := 0; i < b.N; i++ {
			if err := tc.evaluator.MulPlain(ct, pt, ctOut); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(testString("DecryptionTable/Lookup", params), func(b *testing.B) {
		var key [32]byte
		copy(key[:], tc.table.keys[:32])
		for i := 0; i < b.N; i++ {
			if _, ok := tc.table.Lookup(key); !ok {
				b.Fatal("lookup miss")
			}
		}
	})
}
