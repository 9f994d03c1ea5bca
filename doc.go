// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fiatshamir implements the Fiat-Shamir zero-knowledge identification
// protocol, in which a prover demonstrates knowledge of a square root x of a
// public value y modulo a composite n of secret factorization, without
// revealing anything about x. It includes the interactive protocol, a
// noninteractive variant obtained through the Fiat-Shamir heuristic, and
// hash-chained session transcripts with signed receipts.
package fiatshamir
