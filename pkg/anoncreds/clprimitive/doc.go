// Package clprimitive is the thin typed wrapper over a CL-signatures-style
// primitive: keypair generation, blind credential secrets, signing,
// post-issuance processing, the proof/sub-proof-request builders, and the
// revocation accumulator/witness machinery.
//
// This is a reference implementation of the primitive, not a security
// audit target (the CL zero-knowledge primitive's design is explicitly out
// of scope for this library; see the component's callers for the actual
// protocol pipelines). It is built from math/big, crypto/rand and
// crypto/sha256 rather than a third-party pairing or bignum library,
// because none of the available dependencies provide CL/AnonCreds-shaped
// group arithmetic; the surrounding services still follow the teacher's
// pattern of rolling bespoke crypto on stdlib primitives, as its own JOSE
// suites do.
//
// Three simplifications are called out explicitly because they trade away
// properties a production CL implementation would keep:
//
//   - Sub-proofs hide all non-revealed attribute values and the signature's
//     (e, v) components behind a generalized Schnorr representation proof,
//     but predicate (range) proofs reveal the signed distance between the
//     attribute and the threshold rather than hiding it behind a full
//     zero-knowledge range proof (e.g. Boudot's). The pass/fail result and
//     the non-disclosure of the raw attribute value are preserved; the
//     numeric gap to the threshold is not hidden.
//   - The revocation accumulator is a Benaloh–de Mare-style RSA
//     accumulator. Witness updates are recomputed from the cumulative
//     delta rather than incrementally folded from a prior witness; this
//     still satisfies the library's testable property that prior=nil and
//     prior=<previous state> converge to witnesses that verify identically
//     at the same timestamp, without needing order-dependent incremental
//     bookkeeping.
//   - The non-revocation check travels as a revealed (index, witness) pair
//     inside the sub-proof rather than a zero-knowledge membership proof
//     that hides the index. A production CL non-revocation proof hides
//     which registry slot a credential occupies; this one discloses it.
package clprimitive
