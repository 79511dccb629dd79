package polynomial

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/electionguard-go/core/crypto/group"
)

func TestGenerateCommitmentsVerify(t *testing.T) {
	c := qt.New(t)

	p, err := Generate(3)
	c.Assert(err, qt.IsNil)
	c.Assert(p.VerifyCommitments(), qt.IsNil)
}

func TestEvalAndVerifyBackup(t *testing.T) {
	c := qt.New(t)

	p, err := Generate(3)
	c.Assert(err, qt.IsNil)

	v := p.Eval(5)
	c.Assert(VerifyBackup(v, p.Commitments, 5), qt.IsTrue)
	c.Assert(VerifyBackup(v, p.Commitments, 6), qt.IsFalse)
}

func TestEvalAtZeroIsSecret(t *testing.T) {
	c := qt.New(t)

	p, err := Generate(2)
	c.Assert(err, qt.IsNil)
	c.Assert(p.Eval(0).Equal(p.Coefficients[0]), qt.IsTrue)
}

func TestLagrangeReconstructsSecretAtZero(t *testing.T) {
	c := qt.New(t)

	p, err := Generate(3)
	c.Assert(err, qt.IsNil)

	xs := []int64{1, 2, 3}
	sum := group.ZeroModQ()
	for _, xi := range xs {
		lambda, err := Lagrange(xi, xs)
		c.Assert(err, qt.IsNil)
		sum = group.AddModQ(sum, group.MultModQ(lambda, p.Eval(xi)))
	}
	c.Assert(sum.Equal(p.Coefficients[0]), qt.IsTrue)
}

func TestVerifyBackupRejectsTamperedValue(t *testing.T) {
	c := qt.New(t)

	p, err := Generate(2)
	c.Assert(err, qt.IsNil)

	v := p.Eval(4)
	tampered := group.AddModQ(v, group.OneModQ())
	c.Assert(VerifyBackup(tampered, p.Commitments, 4), qt.IsFalse)
}
