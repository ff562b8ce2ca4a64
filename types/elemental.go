package types

import (
	"fmt"
	"math"
)

/*
PairKey is an always positive number that stores an unordered pair of ids in a way that can be compared.
A pair of bodies [4] and [0] will always be stored as [0,4], in the ascending order of the id values
*/
type PairKey uint64

func NewPairKey(ids [2]int) (packed PairKey) {
	// This packs two ids into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, id := range ids {
		if id < 0 || id > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				ids[0], ids[1]))
		}
	}
	var i1, i2 int
	if ids[0] <= ids[1] {
		i1, i2 = ids[0], ids[1]
	} else {
		i1, i2 = ids[1], ids[0]
	}
	packed = PairKey(i1 + i2<<32)
	return
}

func (pk PairKey) GetIDs() (ids [2]int) {
	var (
		hi PairKey
	)
	hi = pk >> 32
	ids[1] = int(hi)
	ids[0] = int(pk - hi*(1<<32))
	return
}

// Contains reports whether id is one of the two ids of the pair.
func (pk PairKey) Contains(id int) bool {
	ids := pk.GetIDs()
	return ids[0] == id || ids[1] == id
}

/*
SignedIndex is an element reference as it appears in face and body lists: the absolute value is the
element id, a negative sign means the element is traversed in reverse. Zero is never a valid reference.
*/
type SignedIndex int

func NewSignedIndex(id int, reversed bool) SignedIndex {
	if id <= 0 {
		panic(fmt.Errorf("element ids are positive, have %d", id))
	}
	if reversed {
		return SignedIndex(-id)
	}
	return SignedIndex(id)
}

func (si SignedIndex) Decode() (id int, reversed bool) {
	if si < 0 {
		return int(-si), true
	}
	return int(si), false
}

func (si SignedIndex) IsValid() bool { return si != 0 }
