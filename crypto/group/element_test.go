package group

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestConstantsSatisfySubgroupRelation(t *testing.T) {
	c := qt.New(t)

	c.Assert(new(big.Int).Exp(G(), Q(), P()).Cmp(big.NewInt(1)), qt.Equals, 0)
	c.Assert(G().Cmp(big.NewInt(1)), qt.Not(qt.Equals), 0)

	pMinus1 := new(big.Int).Sub(P(), big.NewInt(1))
	c.Assert(new(big.Int).Mul(Q(), R()).Cmp(pMinus1), qt.Equals, 0)
}

func TestPowPConstantTimeMatchesVariableTime(t *testing.T) {
	c := qt.New(t)

	x, err := RandModQ()
	c.Assert(err, qt.IsNil)

	ct := PowP(GeneratorP(), x, true)
	vt := PowP(GeneratorP(), x, false)
	c.Assert(ct.Equal(vt), qt.IsTrue)
	c.Assert(IsValidResidue(ct), qt.IsTrue)
}

func TestGPowPIsSubgroupMember(t *testing.T) {
	c := qt.New(t)

	for i := 0; i < 8; i++ {
		x, err := RandModQ()
		c.Assert(err, qt.IsNil)
		c.Assert(IsValidResidue(GPowP(x)), qt.IsTrue)
	}
}

func TestAddNegateModQRoundtrip(t *testing.T) {
	c := qt.New(t)

	a, err := RandModQ()
	c.Assert(err, qt.IsNil)
	b, err := RandModQ()
	c.Assert(err, qt.IsNil)

	sum := AddModQ(a, b)
	back := SubModQ(sum, b)
	c.Assert(back.Equal(a), qt.IsTrue)

	c.Assert(AddModQ(a, NegateModQ(a)).IsZero(), qt.IsTrue)
}

func TestInvertModQRoundtrip(t *testing.T) {
	c := qt.New(t)

	a, err := RandModQ()
	c.Assert(err, qt.IsNil)
	for a.IsZero() {
		a, err = RandModQ()
		c.Assert(err, qt.IsNil)
	}
	inv, err := InvertModQ(a)
	c.Assert(err, qt.IsNil)
	c.Assert(MultModQ(a, inv).Equal(OneModQ()), qt.IsTrue)
}

func TestInvertModQZeroFails(t *testing.T) {
	c := qt.New(t)
	_, err := InvertModQ(ZeroModQ())
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestElementModQFromBytesRejectsOutOfRange(t *testing.T) {
	c := qt.New(t)

	tooBig := new(big.Int).Add(Q(), big.NewInt(1))
	_, err := ElementModQFromBytes(tooBig.Bytes())
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestElementModQBytesRoundtrip(t *testing.T) {
	c := qt.New(t)

	a, err := RandModQ()
	c.Assert(err, qt.IsNil)
	back, err := ElementModQFromBytes(a.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(back.Equal(a), qt.IsTrue)
	c.Assert(len(a.Bytes()), qt.Equals, ByteLenQ)
}

func TestElementModQJSONRoundtrip(t *testing.T) {
	c := qt.New(t)

	a, err := RandModQ()
	c.Assert(err, qt.IsNil)
	data, err := a.MarshalJSON()
	c.Assert(err, qt.IsNil)
	c.Assert(len(data), qt.Equals, ByteLenQ*2+2) // quoted hex string

	var back ElementModQ
	c.Assert(back.UnmarshalJSON(data), qt.IsNil)
	c.Assert(back.Equal(a), qt.IsTrue)
}

func TestElementModPJSONRejectsBadHex(t *testing.T) {
	c := qt.New(t)

	var e ElementModP
	err := e.UnmarshalJSON([]byte(`"zz"`))
	c.Assert(err, qt.Not(qt.IsNil))
}
