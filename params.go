// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiatshamir

import (
	"sort"
)

type (
	// SystemParameters holds the system parameters of the identification scheme.
	SystemParameters struct {
		BaseParameters
		DerivedParameters
	}

	// BaseParameters holds the base system parameters.
	BaseParameters struct {
		Ln       uint // modulus size in bits
		Lstatzk  uint // nonce size in bits
		Lsec     uint // number of parallel repetitions in noninteractive proofs
		Lrounds  uint // number of rounds in an interactive session
		Lmriters uint // Miller-Rabin iterations for prime generation
	}

	// DerivedParameters holds system parameters that can be derived from the base
	// system parameters (BaseParameters).
	DerivedParameters struct {
		Lprime uint // size of the primes p and q in bits
	}
)

// defaultBaseParameters holds per keylength the base parameters.
var defaultBaseParameters = map[int]BaseParameters{
	256: {
		Ln:       256,
		Lstatzk:  80,
		Lsec:     80,
		Lrounds:  10,
		Lmriters: 50,
	},
	512: {
		Ln:       512,
		Lstatzk:  80,
		Lsec:     80,
		Lrounds:  10,
		Lmriters: 50,
	},
	1024: {
		Ln:       1024,
		Lstatzk:  80,
		Lsec:     80,
		Lrounds:  10,
		Lmriters: 50,
	},
	2048: {
		Ln:       2048,
		Lstatzk:  128,
		Lsec:     128,
		Lrounds:  20,
		Lmriters: 50,
	},
	4096: {
		Ln:       4096,
		Lstatzk:  128,
		Lsec:     128,
		Lrounds:  20,
		Lmriters: 50,
	},
}

// MakeDerivedParameters computes the derived system parameters.
func MakeDerivedParameters(base BaseParameters) DerivedParameters {
	return DerivedParameters{
		Lprime: base.Ln / 2,
	}
}

// DefaultSystemParameters holds per keylength the default parameters as are
// currently in use at the moment. This might (and probably will) change in the
// future.
var DefaultSystemParameters = map[int]*SystemParameters{
	256:  {defaultBaseParameters[256], MakeDerivedParameters(defaultBaseParameters[256])},
	512:  {defaultBaseParameters[512], MakeDerivedParameters(defaultBaseParameters[512])},
	1024: {defaultBaseParameters[1024], MakeDerivedParameters(defaultBaseParameters[1024])},
	2048: {defaultBaseParameters[2048], MakeDerivedParameters(defaultBaseParameters[2048])},
	4096: {defaultBaseParameters[4096], MakeDerivedParameters(defaultBaseParameters[4096])},
}

// DefaultKeyLength is the modulus size used when no explicit parameters are
// supplied. It keeps key generation fast enough for tests and demonstrations;
// production deployments should pick at least 2048.
const DefaultKeyLength = 256

// getAvailableKeyLengths returns the keylengths for the provided map of system
// parameters.
func getAvailableKeyLengths(sysParamsMap map[int]*SystemParameters) []int {
	lengths := make([]int, 0, len(sysParamsMap))
	for k := range sysParamsMap {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)
	return lengths
}

// DefaultKeyLengths is a slice of integers holding the keylengths for which
// system parameters are available.
var DefaultKeyLengths = getAvailableKeyLengths(DefaultSystemParameters)
