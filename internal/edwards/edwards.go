// Package edwards implements point arithmetic on the Ed25519 twisted
// Edwards curve -x^2 + y^2 = 1 + d*x^2*y^2, just enough for fixed-base
// scalar multiplication and point compression.
//
// The scalar multiplication here deliberately branches on scalar bits:
// a vanity search publishes the resulting public key anyway, so no timing
// discipline is needed and the simple double-and-add wins on clarity.
package edwards

import (
	"encoding/hex"

	"github.com/solgrind/solgrind/internal/field"
)

// Point is a curve point in extended twisted Edwards coordinates
// (X : Y : Z : T), with affine x = X/Z, y = Y/Z and the invariant XY = ZT.
type Point struct {
	x, y, z, t field.Element
}

var (
	// Curve constant d = -121665/121666 mod p, and 2d.
	constD  field.Element
	constD2 field.Element

	// basePoint is the standard Ed25519 base point G.
	basePoint Point
)

func init() {
	feFromHex(&constD, "52036cee2b6ffe738cc740797779e89800700a4d4141d8ab75eb4dca135978a3")
	constD2.Add(&constD, &constD)

	feFromHex(&basePoint.x, "216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a")
	feFromHex(&basePoint.y, "6666666666666666666666666666666666666666666666666666666666666658")
	basePoint.z.One()
	basePoint.t.Multiply(&basePoint.x, &basePoint.y)
}

// feFromHex decodes a big-endian hex constant into e.
func feFromHex(e *field.Element, s string) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		panic("edwards: bad field constant")
	}
	var le [32]byte
	for i, b := range raw {
		le[31-i] = b
	}
	if _, err := e.SetBytes(le[:]); err != nil {
		panic("edwards: bad field constant")
	}
}

// Identity sets v to the neutral element (0, 1, 1, 0), and returns v.
func (v *Point) Identity() *Point {
	v.x.Zero()
	v.y.One()
	v.z.One()
	v.t.Zero()
	return v
}

// Base sets v to the Ed25519 base point G, and returns v.
func (v *Point) Base() *Point {
	*v = basePoint
	return v
}

// Set sets v = p, and returns v.
func (v *Point) Set(p *Point) *Point {
	*v = *p
	return v
}

// Double sets v = 2p, and returns v, using the extended-coordinate doubling
// formulas for a = -1 twisted Edwards curves.
func (v *Point) Double(p *Point) *Point {
	var a, b, c, d, e, f, g, h field.Element

	a.Square(&p.x)      // A = X^2
	b.Square(&p.y)      // B = Y^2
	c.Square(&p.z)      // C = 2Z^2
	c.Add(&c, &c)
	d.Negate(&a)        // D = -A
	e.Add(&p.x, &p.y)   // E = (X+Y)^2 - A - B
	e.Square(&e)
	e.Subtract(&e, &a)
	e.Subtract(&e, &b)
	g.Add(&d, &b)       // G = D + B
	f.Subtract(&g, &c)  // F = G - C
	h.Subtract(&d, &b)  // H = D - B

	v.x.Multiply(&e, &f)
	v.y.Multiply(&g, &h)
	v.t.Multiply(&e, &h)
	v.z.Multiply(&f, &g)
	return v
}

// Add sets v = p + q, and returns v, using the unified extended-coordinate
// addition with the precomputed 2d constant.
func (v *Point) Add(p, q *Point) *Point {
	var a, b, c, d, e, f, g, h, t field.Element

	t.Subtract(&p.y, &p.x) // A = (Y1-X1)(Y2-X2)
	a.Subtract(&q.y, &q.x)
	a.Multiply(&t, &a)

	t.Add(&p.y, &p.x) // B = (Y1+X1)(Y2+X2)
	b.Add(&q.y, &q.x)
	b.Multiply(&t, &b)

	c.Multiply(&p.t, &q.t) // C = T1 * 2d * T2
	c.Multiply(&c, &constD2)

	d.Multiply(&p.z, &q.z) // D = 2 * Z1 * Z2
	d.Add(&d, &d)

	e.Subtract(&b, &a)
	f.Subtract(&d, &c)
	g.Add(&d, &c)
	h.Add(&b, &a)

	v.x.Multiply(&e, &f)
	v.y.Multiply(&g, &h)
	v.t.Multiply(&e, &h)
	v.z.Multiply(&f, &g)
	return v
}

// ScalarBaseMult sets v = s*G where s is a 32-byte little-endian scalar,
// and returns v. Bits are scanned LSB-first with a running doubled point;
// any algorithm with bit-identical compressed output would do, this one is
// the simplest.
func (v *Point) ScalarBaseMult(s *[32]byte) *Point {
	var q Point
	q.Base()
	v.Identity()

	for i := 0; i < 256; i++ {
		if (s[i>>3]>>(i&7))&1 == 1 {
			v.Add(v, &q)
		}
		q.Double(&q)
	}
	return v
}

// Bytes writes the 32-byte compressed encoding of v into out: the
// y-coordinate little-endian with the sign of x folded into bit 7 of the
// last byte.
func (v *Point) Bytes(out *[32]byte) {
	var zinv, x, y field.Element

	zinv.Invert(&v.z)
	x.Multiply(&v.x, &zinv)
	y.Multiply(&v.y, &zinv)

	*out = y.Bytes()
	out[31] ^= byte(x.IsNegative()) << 7
}
