package aesindex

// The indexing function is keyed once per 16-nonce batch and, for a
// single stored label, produces sixteen lanes — one per nonce in that
// batch — rather than one key per nonce covering a run of sixteen
// labels. The verifier derives its key the same way, off
// proof.nonce/16, so prover and verifier can never disagree about which
// lane a given (label, nonce) pair maps to: it is implemented once in
// Stream.Lanes/Stream.Lane and shared by both sides.
//
// The lane value is a function of the label's actual bytes, not merely
// its position. A keystream that only ever depended on an integer
// counter (as a pure AES-CTR indexing function would) would make the
// label file's content irrelevant to whether a nonce passes, silently
// defeating the entire proof-of-*space* property the scheme exists to
// provide: the verifier only needs to reconstruct a label at all if its
// bytes feed into the lane computation. Stream therefore takes the
// 16-byte label value itself as the AES plaintext, XORed against a
// small sub-block counter to expand one 16-byte label into the eight
// blocks needed for sixteen lanes, so a passing lane can only be
// produced by a party that holds the real label bytes at that index.
