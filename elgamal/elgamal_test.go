package elgamal

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"testing"

	"filippo.io/edwards25519"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/lhe25519/utils/sampling"
)

var flagLongTest = flag.Bool("long", false, "run the long test suite (canonical 40-bit parameters, builds the full 2^25-entry table). Requires -timeout=0.")

var (
	// TESTMSG24 is a reduced parameter set for the fast test suite.
	TESTMSG24 = ParametersLiteral{MessageBits: 24, BabyBits: 12}

	// TESTMSG28 is a reduced parameter set with a larger online search.
	TESTMSG28 = ParametersLiteral{MessageBits: 28, BabyBits: 14}

	// TestParams is the default set of test parameters.
	TestParams = []ParametersLiteral{TESTMSG24, TESTMSG28}
)

func testString(opname string, p Parameters) string {
	return fmt.Sprintf("%s/MessageBits=%d/BabyBits=%d", opname, p.MessageBits(), p.BabyBits())
}

type testContext struct {
	params    Parameters
	prng      *sampling.KeyedPRNG
	ecd       *Encoder
	kgen      *KeyGenerator
	sk        *SecretKey
	pk        *PublicKey
	table     *DecryptionTable
	encryptor *Encryptor
	decryptor *Decryptor
	evaluator *Evaluator
}

func genTestContext(params Parameters) (tc *testContext, err error) {

	tc = &testContext{params: params}

	if tc.prng, err = sampling.NewKeyedPRNG([]byte{'l', 'h', 'e'}); err != nil {
		return nil, err
	}

	tc.ecd = NewEncoder(params)
	tc.kgen = NewKeyGenerator(params)
	tc.sk, tc.pk = tc.kgen.GenKeyPairNew()

	if tc.table, err = GenDecryptionTable(context.Background(), params); err != nil {
		return nil, err
	}

	tc.encryptor = NewEncryptor(params, tc.pk)
	tc.decryptor = NewDecryptor(params, tc.sk, tc.table)
	tc.evaluator = NewEvaluator(params)

	return tc, nil
}

// randInt64 samples a value in [lo, hi] from the test PRNG. The span must be
// below 2^63.
func randInt64(prng *sampling.KeyedPRNG, lo, hi int64) int64 {
	var buf [8]byte
	if _, err := prng.Read(buf[:]); err != nil {
		panic(err)
	}
	span := uint64(hi-lo) + 1
	return lo + int64(binary.LittleEndian.Uint64(buf[:])%span)
}

func TestElGamal(t *testing.T) {

	paramsLiterals := TestParams

	if *flagLongTest {
		paramsLiterals = append(paramsLiterals, MSG40)
	}

	for _, pl := range paramsLiterals {

		params, err := NewParametersFromLiteral(pl)
		require.NoError(t, err)

		tc, err := genTestContext(params)
		require.NoError(t, err)

		testParameters(tc, t)
		testEncoder(tc, t)
		testKeyGenerator(tc, t)
		testEncryptor(tc, t)
		testDecryptor(tc, t)
		testEvaluator(tc, t)
		testDecryptionTable(tc, t)
	}
}

func TestParametersValidation(t *testing.T) {

	for _, pl := range []ParametersLiteral{
		{MessageBits: 0, BabyBits: 0},
		{MessageBits: 41, BabyBits: 15},
		{MessageBits: 24, BabyBits: 0},
		{MessageBits: 24, BabyBits: 24},
	} {
		_, err := NewParametersFromLiteral(pl)
		require.Error(t, err, "literal %+v", pl)
	}

	params, err := NewParametersFromLiteral(MSG40)
	require.NoError(t, err)
	require.Equal(t, 25, params.GiantBits())
	require.Equal(t, 1<<25, params.TableSize())
	require.Equal(t, int64(1)<<39-1, params.MaxMessage())
	require.Equal(t, -(int64(1) << 39), params.MinMessage())
}

func testParameters(tc *testContext, t *testing.T) {

	t.Run(testString("Parameters/Serialization", tc.params), func(t *testing.T) {

		data, err := tc.params.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, tc.params.BinarySize(), len(data))

		var params Parameters
		require.NoError(t, params.UnmarshalBinary(data))
		require.True(t, params.Equal(&tc.params))
	})
}

func testEncoder(tc *testContext, t *testing.T) {

	params := tc.params
	ecd := tc.ecd

	t.Run(testString("Encoder/RoundTrip", params), func(t *testing.T) {

		values := []int64{0, 1, -1, -98, 46, 555555, -444444, params.MaxMessage(), params.MinMessage()}
		for i := 0; i < 64; i++ {
			values = append(values, randInt64(tc.prng, params.MinMessage(), params.MaxMessage()))
		}

		for _, v := range values {
			pt, err := ecd.EncodeNew(v)
			require.NoError(t, err)
			have, err := ecd.Decode(pt)
			require.NoError(t, err)
			require.Equal(t, v, have)
		}
	})

	t.Run(testString("Encoder/NegativeEncoding", params), func(t *testing.T) {

		// encode(-1) must be the canonical representative L - 1.
		pt, err := ecd.EncodeNew(-1)
		require.NoError(t, err)

		want := groupOrder
		want[0]--
		require.Equal(t, want, pt.Value)
	})

	t.Run(testString("Encoder/OutOfRange", params), func(t *testing.T) {

		pt := NewPlaintext()
		require.ErrorIs(t, ecd.Encode(params.MaxMessage()+1, pt), ErrMessageOutOfRange)
		require.ErrorIs(t, ecd.Encode(params.MinMessage()-1, pt), ErrMessageOutOfRange)
	})

	t.Run(testString("Encoder/DecodeOutOfBounds", params), func(t *testing.T) {

		// A scalar just above the message range is not a valid encoding.
		pt := NewPlaintext()
		binary.LittleEndian.PutUint64(pt.Value[:8], uint64(params.MaxMessage()+1))
		_, err := ecd.Decode(pt)
		require.ErrorIs(t, err, ErrPlaintextOutOfBounds)

		// Neither is a scalar with a scrambled high region.
		pt = NewPlaintext()
		pt.Value[20] = 0x01
		_, err = ecd.Decode(pt)
		require.ErrorIs(t, err, ErrPlaintextOutOfBounds)
	})
}

func testKeyGenerator(tc *testContext, t *testing.T) {

	t.Run(testString("KeyGenerator", tc.params), func(t *testing.T) {

		sk, pk := tc.kgen.GenKeyPairNew()

		// Ed25519 clamping bits.
		require.Zero(t, sk.Value[0]&0x07)
		require.Zero(t, sk.Value[31]&0x80)
		require.NotZero(t, sk.Value[31]&0x40)

		// P = sB.
		s, err := sk.Scalar()
		require.NoError(t, err)
		want := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
		require.Equal(t, 1, pk.Value.Equal(want))

		// Fresh keys differ.
		sk2 := tc.kgen.GenSecretKeyNew()
		require.False(t, sk.Equal(sk2))
	})
}

func testEncryptor(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(testString("Encryptor/RoundTrip", params), func(t *testing.T) {

		values := []int64{-98, 46, 0, params.MaxMessage(), params.MinMessage()}
		for _, v := range values {
			ct, err := tc.encryptor.EncryptInt64New(v)
			require.NoError(t, err)
			have, err := tc.decryptor.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, v, have)
		}
	})

	t.Run(testString("Encryptor/Randomized", params), func(t *testing.T) {

		ct0, err := tc.encryptor.EncryptInt64New(46)
		require.NoError(t, err)
		ct1, err := tc.encryptor.EncryptInt64New(46)
		require.NoError(t, err)

		require.False(t, ct0.Equal(ct1))

		for _, ct := range []*Ciphertext{ct0, ct1} {
			have, err := tc.decryptor.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, int64(46), have)
		}
	})

	t.Run(testString("Encryptor/RandomMessages", params), func(t *testing.T) {

		// One value from the non-negative range and one from the lower half
		// of the negative range.
		m1 := randInt64(tc.prng, 0, params.MaxMessage())
		m2 := randInt64(tc.prng, params.MinMessage(), params.MinMessage()/2)

		for _, v := range []int64{m1, m2} {
			ct, err := tc.encryptor.EncryptInt64New(v)
			require.NoError(t, err)
			have, err := tc.decryptor.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, v, have)
		}
	})

	t.Run(testString("Encryptor/OutOfRange", params), func(t *testing.T) {

		_, err := tc.encryptor.EncryptInt64New(params.MaxMessage() + 1)
		require.ErrorIs(t, err, ErrMessageOutOfRange)
	})

	t.Run(testString("Encryptor/Serialization", params), func(t *testing.T) {

		ct, err := tc.encryptor.EncryptInt64New(-98)
		require.NoError(t, err)

		data, err := ct.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, ct.BinarySize(), len(data))

		ctNew := NewCiphertext()
		require.NoError(t, ctNew.UnmarshalBinary(data))
		require.True(t, ct.Equal(ctNew))

		have, err := tc.decryptor.Decrypt(ctNew)
		require.NoError(t, err)
		require.Equal(t, int64(-98), have)
	})
}

func testDecryptor(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(testString("Decryptor/MissingSecretKey", params), func(t *testing.T) {

		ct, err := tc.encryptor.EncryptInt64New(46)
		require.NoError(t, err)

		d := NewDecryptor(params, nil, tc.table)
		_, err = d.Decrypt(ct)
		require.ErrorIs(t, err, ErrMissingSecretKey)
	})

	t.Run(testString("Decryptor/TableNotLoaded", params), func(t *testing.T) {

		ct, err := tc.encryptor.EncryptInt64New(46)
		require.NoError(t, err)

		_, err = NewDecryptor(params, tc.sk, nil).Decrypt(ct)
		require.ErrorIs(t, err, ErrTableNotLoaded)

		_, err = NewDecryptor(params, tc.sk, NewDecryptionTable(params)).Decrypt(ct)
		require.ErrorIs(t, err, ErrTableNotLoaded)
	})

	t.Run(testString("Decryptor/WrongKey", params), func(t *testing.T) {

		ct, err := tc.encryptor.EncryptInt64New(46)
		require.NoError(t, err)

		skOther := tc.kgen.GenSecretKeyNew()
		_, err = tc.decryptor.WithKey(skOther).Decrypt(ct)
		require.ErrorIs(t, err, ErrUndecryptableCiphertext)
	})
}

func testEvaluator(tc *testContext, t *testing.T) {

	params := tc.params
	eval := tc.evaluator

	encrypt := func(t *testing.T, v int64) *Ciphertext {
		ct, err := tc.encryptor.EncryptInt64New(v)
		require.NoError(t, err)
		return ct
	}

	decrypt := func(t *testing.T, ct *Ciphertext) int64 {
		v, err := tc.decryptor.Decrypt(ct)
		require.NoError(t, err)
		return v
	}

	encode := func(t *testing.T, v int64) *Plaintext {
		pt, err := tc.ecd.EncodeNew(v)
		require.NoError(t, err)
		return pt
	}

	t.Run(testString("Evaluator/Add", params), func(t *testing.T) {

		for _, tcase := range [][3]int64{
			{5, 37, 42},
			{-98, 16, -82},
			{555555, 111111, 666666},
		} {
			ctOut := eval.AddNew(encrypt(t, tcase[0]), encrypt(t, tcase[1]))
			require.Equal(t, tcase[2], decrypt(t, ctOut))
		}
	})

	t.Run(testString("Evaluator/Sub", params), func(t *testing.T) {

		for _, tcase := range [][3]int64{
			{111111, 555555, -444444},
			{46, 46, 0},
		} {
			ctOut := eval.SubNew(encrypt(t, tcase[0]), encrypt(t, tcase[1]))
			require.Equal(t, tcase[2], decrypt(t, ctOut))
		}
	})

	t.Run(testString("Evaluator/AddPlain", params), func(t *testing.T) {

		ctOut, err := eval.AddPlainNew(encrypt(t, 15), encode(t, 37))
		require.NoError(t, err)
		require.Equal(t, int64(52), decrypt(t, ctOut))
	})

	t.Run(testString("Evaluator/SubPlain", params), func(t *testing.T) {

		ctOut, err := eval.SubPlainNew(encrypt(t, 15), encode(t, 37))
		require.NoError(t, err)
		require.Equal(t, int64(-22), decrypt(t, ctOut))
	})

	t.Run(testString("Evaluator/MulPlain", params), func(t *testing.T) {

		for _, tcase := range [][3]int64{
			{5, 37, 185},
			{555555, 3, 1666665},
			{5, -3, -15},
		} {
			ctOut, err := eval.MulPlainNew(encrypt(t, tcase[0]), encode(t, tcase[1]))
			require.NoError(t, err)
			require.Equal(t, tcase[2], decrypt(t, ctOut))
		}
	})

	t.Run(testString("Evaluator/Neg", params), func(t *testing.T) {

		ctOut := eval.NegNew(encrypt(t, 50))
		require.Equal(t, int64(-50), decrypt(t, ctOut))
	})

	t.Run(testString("Evaluator/InPlace", params), func(t *testing.T) {

		// ctOut aliasing an operand is supported.
		ct := encrypt(t, 21)
		eval.Add(ct, ct, ct)
		require.Equal(t, int64(42), decrypt(t, ct))
	})
}

func testDecryptionTable(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(testString("DecryptionTable/SerializationRoundTrip", params), func(t *testing.T) {

		data, err := tc.table.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, 8+tc.table.Len()*36, len(data))

		tNew := NewDecryptionTable(params)
		require.NoError(t, tNew.UnmarshalBinary(data))
		require.True(t, tc.table.Equal(tNew))

		// A fresh decryptor over the reloaded table decrypts.
		d := NewDecryptor(params, tc.sk, tNew)
		for _, v := range []int64{-98, 46} {
			ct, err := tc.encryptor.EncryptInt64New(v)
			require.NoError(t, err)
			have, err := d.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, v, have)
		}
	})

	// The remaining subtests reserialize the table several times over, which
	// is only reasonable on reduced parameters.
	if params.GiantBits() > 16 {
		return
	}

	t.Run(testString("DecryptionTable/WriterPaths", params), func(t *testing.T) {

		// The generic io.Writer path must produce the same bytes as the
		// buffer.Writer fast path.
		fast, err := tc.table.MarshalBinary()
		require.NoError(t, err)

		var slow bytes.Buffer
		n, err := tc.table.WriteTo(&slow)
		require.NoError(t, err)
		require.Equal(t, int64(tc.table.BinarySize()), n)
		require.True(t, cmp.Equal(fast, slow.Bytes()))
	})

	t.Run(testString("DecryptionTable/Malformed", params), func(t *testing.T) {

		data, err := tc.table.MarshalBinary()
		require.NoError(t, err)

		tNew := NewDecryptionTable(params)

		// Truncated stream.
		require.Error(t, tNew.UnmarshalBinary(data[:len(data)-5]))

		// Entry count not matching the parameters.
		bad := append([]byte{}, data...)
		binary.LittleEndian.PutUint64(bad[:8], uint64(tc.table.Len()-1))
		require.Error(t, tNew.UnmarshalBinary(bad))
	})

	t.Run(testString("DecryptionTable/Cancellation", params), func(t *testing.T) {

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := GenDecryptionTable(ctx, params)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run(testString("DecryptionTable/Deterministic", params), func(t *testing.T) {

		tNew, err := GenDecryptionTable(context.Background(), params)
		require.NoError(t, err)
		require.True(t, tc.table.Equal(tNew))

		data0, err := tc.table.MarshalBinary()
		require.NoError(t, err)
		data1, err := tNew.MarshalBinary()
		require.NoError(t, err)
		require.True(t, cmp.Equal(data0, data1))
	})
}
