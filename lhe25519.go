/*
Package lhe25519 is a cryptographic library implementing an additively homomorphic
public-key encryption scheme over the Ed25519 group. The library features:

  - Exponential (lifted) ElGamal encryption of signed integers of up to 40 bits.
  - Ciphertext addition, subtraction, negation, plaintext addition/subtraction and
    plaintext multiplication, all matching the corresponding integer operations.
  - Baby-step giant-step decryption backed by a precomputed, persistable table,
    making discrete-log extraction tractable for the supported message range.

The scheme is IND-CPA secure under the DDH assumption in the prime-order subgroup
of Curve25519. It provides no ciphertext integrity and is not interoperable with
Ed25519 signing.
*/
package lhe25519
